// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package adkapi is a client for the HTTP API served by an ADK API server.
//
// The server may run locally or on Cloud Run; in the latter case requests carry an
// ID token minted for the service URL:
//
//	c, err := adkapi.NewIDTokenClient(ctx, "https://data-agent-xyz.a.run.app", "data_agent_viz", "")
//	if err != nil {
//		return err
//	}
//	events, err := c.Run(ctx, userID, sessionID, "Plot revenue by month")
package adkapi
