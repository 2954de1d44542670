// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types provides the SDK-level contracts shared by the adkchat packages.
//
// [Event] and [EventActions] are agent events as delivered by an SDK object graph,
// with content and function responses expressed as genai values. [ArtifactService]
// is the contract of the versioned artifact stores in package artifact. The errors
// returned across package boundaries live here too.
package types
