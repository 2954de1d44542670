// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"fmt"
)

// ErrArtifactNotFound is returned when an artifact does not exist in the requested scope.
var ErrArtifactNotFound = errors.New("artifact not found")

// StatusError reports a non-successful reply from a remote agent endpoint.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error returns a string representation of the [StatusError].
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}
