// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the chat as a small web application.
//
// Each browser gets its own chat, keyed by a session cookie. The page at / shows the
// transcript with markdown rendered to HTML and images inlined as data URIs. The JSON
// API mirrors it:
//
//	POST /api/chat        {"message": "…"} → {"session_id": "…", "items": […]}
//	GET  /api/transcript  → {"session_id": "…", "turns": [{"role": "…", "items": […]}]}
//	POST /api/reset       → {"session_id": "…"}
//	GET  /api/artifacts   → {"session_id": "…", "artifacts": [{"name": "…", "versions": […]}]}
//	GET  /healthz
//
// The chat and reset endpoints also accept HTML form posts, answered with a redirect
// to the page.
package web
