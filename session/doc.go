// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the client side state of a conversation with an agent.
//
// A [Chat] is created once per UI session. It owns the user and session identifiers
// sent to the agent, and the append-only transcript of completed turns. The
// transcript lives in process memory only.
//
// # Identifiers
//
// User and session IDs are 10 random lowercase alphanumerics:
//
//	chat := session.NewChat()
//	fmt.Println(chat.UserID, chat.SessionID) // e.g. "k3v9q0x1ab" "p0o2m8c7zz"
//
// # Transcript
//
// Turns are committed in pairs after an agent call succeeds, so a failed call
// never leaves a user message without its answer:
//
//	chat.Commit(session.UserTurn(prompt), session.AssistantTurn(parts))
//
// [Chat.Transcript] returns a deep copy, safe to render while another turn runs.
//
// # Store
//
// [Store] keeps many chats keyed by an opaque browser session key, for the web UI.
package session
