// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package normalize turns the events of one agent turn into an ordered list of renderable items.
//
// Agents reply with loosely typed events: parts may carry text, inline data or a
// function response, keys come in both snake_case and camelCase, and images may
// arrive as structured inline data, wrapped in a tool result envelope, or embedded
// in text as SVG markup or base64. The package first builds canonical values from
// either representation of an event:
//
//	events, err := normalize.DecodeEvents(body)          // parsed JSON
//	event := normalize.EventFromGenAI(ev)                // SDK object graph
//
// and then renders them in three steps:
//
//	parts := normalize.Flatten(events)
//	items := normalize.Render(parts)
//
// # Image Detection
//
// Structured inline data always wins over images embedded in text. When any part of
// a turn carries an explicit image, text parts that would classify as an image are
// suppressed, so the same chart is not drawn twice. The rule applies turn-wide.
//
// Text classifies as an image when it contains an <svg>…</svg> span, or when it is a
// long base64 string whose decoded bytes contain <svg near the start.
//
// # Totality
//
// Nothing in this package returns an error for unexpected shapes. Unknown keys,
// wrong value types and undecodable payloads contribute nothing to the output.
// Only [DecodeEvents] can fail, when its input is not JSON at all.
package normalize
