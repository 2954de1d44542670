// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"errors"

	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/types"
)

// ServiceLoader loads the latest version of session artifacts of one application.
type ServiceLoader struct {
	service types.ArtifactService
	appName string
}

// NewServiceLoader returns a [ServiceLoader] reading appName artifacts from service.
func NewServiceLoader(service types.ArtifactService, appName string) *ServiceLoader {
	return &ServiceLoader{
		service: service,
		appName: appName,
	}
}

// LoadArtifact returns the latest version of filename as a part captioned with its
// filename. It returns nil and no error if the artifact does not exist.
func (l *ServiceLoader) LoadArtifact(ctx context.Context, userID, sessionID, filename string) (*normalize.Part, error) {
	gp, err := l.service.LoadArtifact(ctx, l.appName, userID, sessionID, filename, -1)
	if err != nil {
		if errors.Is(err, types.ErrArtifactNotFound) {
			return nil, nil
		}
		return nil, err
	}

	part := normalize.PartFromGenAI(gp)
	if part.InlineData != nil && part.InlineData.DisplayName == "" {
		part.InlineData.DisplayName = filename
	}
	return &part, nil
}

// ListArtifacts returns the artifacts visible from the session with their versions,
// sorted by name.
func (l *ServiceLoader) ListArtifacts(ctx context.Context, userID, sessionID string) ([]types.ArtifactInfo, error) {
	names, err := l.service.ListArtifactKey(ctx, l.appName, userID, sessionID)
	if err != nil {
		return nil, err
	}

	infos := make([]types.ArtifactInfo, 0, len(names))
	for _, name := range names {
		versions, err := l.service.ListVersions(ctx, l.appName, userID, sessionID, name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, types.ArtifactInfo{Name: name, Versions: versions})
	}
	return infos, nil
}
