// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agentengine queries an ADK agent deployed to Vertex AI Agent Engine.
//
// Deployed ADK applications expose their methods as reasoning engine class methods.
// [Client.CreateSession] calls "create_session" and [Client.Run] calls "stream_query",
// whose reply is a stream of HTTP body chunks holding one JSON encoded event per line.
//
//	c, err := agentengine.NewClient(ctx, "my-project", "us-central1", "4471823592745893888")
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	sessionID, err := c.CreateSession(ctx, userID, "")
//	events, err := c.Run(ctx, userID, sessionID, "Which tables hold order data?")
package agentengine
