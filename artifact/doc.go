// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact provides artifact stores the chat client reads agent artifacts from.
//
// When an agent saves a chart as an artifact instead of returning it inline, the
// turn only carries an artifact delta naming the file. The client then loads the
// file from wherever the agent keeps its artifacts:
//
//   - InMemoryService: process-local storage, used by the demo agent and tests
//   - GCSService: the Google Cloud Storage bucket used by deployed agents
//
// The ADK API server exposes its artifacts over HTTP; see package adkapi.
//
// # Artifact Organization
//
// Artifacts are organized hierarchically:
//
//	{appName}/{userID}/{sessionID}/{filename}/{version}  // Session-scoped artifacts
//	{appName}/{userID}/user/{filename}/{version}         // User-scoped artifacts (user: prefix)
//
// Versions start at 0 and grow by one with every save. Loading version -1 returns
// the latest version.
//
// # Turn Handler Integration
//
// [ServiceLoader] binds a store to an application name for the turn handler:
//
//	store := artifact.NewInMemoryService()
//	loader := artifact.NewServiceLoader(store, "data_agent_viz")
//	part, err := loader.LoadArtifact(ctx, chat.UserID, chat.SessionID, "graph.svg")
package artifact
