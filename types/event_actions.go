// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"google.golang.org/genai"
)

// EventActions represents the actions attached to an event.
type EventActions struct {
	// FunctionResponses are the results of tool calls made by the agent during the step.
	FunctionResponses []*genai.FunctionResponse

	// ArtifactDelta indicates that the event is updating an artifact. key is the filename, value is the version.
	ArtifactDelta map[string]int
}

// WithFunctionResponses appends function responses to the [EventActions].
func (ea *EventActions) WithFunctionResponses(responses ...*genai.FunctionResponse) *EventActions {
	ea.FunctionResponses = append(ea.FunctionResponses, responses...)
	return ea
}

// WithArtifactDelta configures the artifactDelta to the [EventActions].
func (ea *EventActions) WithArtifactDelta(artifactDelta map[string]int) *EventActions {
	ea.ArtifactDelta = artifactDelta
	return ea
}

// NewEventActions creates a new [EventActions] instance with default values.
func NewEventActions() *EventActions {
	return &EventActions{
		ArtifactDelta: make(map[string]int),
	}
}
