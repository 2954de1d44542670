// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"

	"google.golang.org/genai"
)

// ArtifactService stores named, versioned artifacts produced by an agent.
type ArtifactService interface {
	// SaveArtifact saves an artifact to the artifact service storage.
	//
	// The artifact is a file identified by the app name, user ID, session ID, and
	// filename. After saving the artifact, a revision ID is returned to identify
	// the artifact version.
	SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error)

	// LoadArtifact gets an artifact from the artifact service storage.
	//
	// A negative version loads the latest one. It returns [ErrArtifactNotFound]
	// if the artifact or the version does not exist.
	LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error)

	// ListArtifactKey lists all the artifact filenames within a session.
	ListArtifactKey(ctx context.Context, appName, userID, sessionID string) ([]string, error)

	// ListVersions lists all versions of an artifact.
	ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error)

	// Close closes the artifact service connection.
	Close() error
}

// ArtifactInfo describes the stored versions of one artifact.
type ArtifactInfo struct {
	Name     string `json:"name"`
	Versions []int  `json:"versions"`
}

// Latest returns the newest version of the artifact, or -1 if it has none.
func (a ArtifactInfo) Latest() int {
	if len(a.Versions) == 0 {
		return -1
	}
	return a.Versions[len(a.Versions)-1]
}
