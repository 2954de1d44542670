// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat runs chat turns against a remote agent.
//
// A [Handler] sends one user message to an [Agent], normalizes the events of the agent
// turn into renderable items and records the exchange in the transcript of the
// [session.Chat] it was called for:
//
//	h := chat.NewHandler(client,
//		chat.WithArtifactLoader(client),
//		chat.WithLogger(logger),
//	)
//	items := h.Turn(ctx, c, "Plot the number of orders per month")
package chat
