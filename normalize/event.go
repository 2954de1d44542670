// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/adkchat/types"
)

var (
	keyContent       = []string{"content"}
	keyActions       = []string{"actions"}
	keyFuncResponses = []string{"function_responses", "functionResponses"}
	keyArtifactDelta = []string{"artifact_delta", "artifactDelta"}
	keyAuthor        = []string{"author"}
	keyInvocationID  = []string{"invocation_id", "invocationId"}
	keyPartial       = []string{"partial"}
	keyErrorMessage  = []string{"error_message", "errorMessage"}
)

// Event is the canonical form of one step of an agent turn.
type Event struct {
	ID           string
	InvocationID string
	Author       string
	Partial      bool

	// Parts are the content parts, in order.
	Parts []Part

	// FunctionResponses are the function responses attached to the event actions, in order.
	FunctionResponses []FunctionResponse

	// ArtifactDelta maps artifact filenames changed by the step to their new version.
	ArtifactDelta map[string]int

	// ErrorMessage is set when the agent reported a failure for the step.
	ErrorMessage string
}

// EventFromMap builds an [Event] from a decoded JSON object.
func EventFromMap(m map[string]any) Event {
	var ev Event
	if m == nil {
		return ev
	}

	ev.ID, _ = lookup(m, keyID).(string)
	ev.InvocationID, _ = lookup(m, keyInvocationID).(string)
	ev.Author, _ = lookup(m, keyAuthor).(string)
	ev.Partial, _ = lookup(m, keyPartial).(bool)
	ev.ErrorMessage, _ = lookup(m, keyErrorMessage).(string)

	if content, ok := lookup(m, keyContent).(map[string]any); ok {
		ev.Parts = partsFromValue(lookup(content, keyParts))
	}

	actions, ok := lookup(m, keyActions).(map[string]any)
	if !ok {
		return ev
	}
	if resps, ok := lookup(actions, keyFuncResponses).([]any); ok {
		for _, r := range resps {
			if fr := functionResponseFromValue(r); fr != nil {
				ev.FunctionResponses = append(ev.FunctionResponses, *fr)
			}
		}
	}
	if delta, ok := lookup(actions, keyArtifactDelta).(map[string]any); ok {
		ev.ArtifactDelta = make(map[string]int, len(delta))
		for name, v := range delta {
			ev.ArtifactDelta[name] = toInt(v)
		}
	}

	return ev
}

// EventFromGenAI builds an [Event] from an SDK event.
func EventFromGenAI(e *types.Event) Event {
	var ev Event
	if e == nil {
		return ev
	}

	ev.ID = e.ID
	ev.InvocationID = e.InvocationID
	ev.Author = e.Author
	ev.Partial = e.Partial
	ev.ErrorMessage = e.ErrorMessage

	for _, p := range e.Parts() {
		if p != nil {
			ev.Parts = append(ev.Parts, PartFromGenAI(p))
		}
	}

	if e.Actions == nil {
		return ev
	}
	for _, fr := range e.Actions.FunctionResponses {
		if fr != nil {
			ev.FunctionResponses = append(ev.FunctionResponses, *functionResponseFromGenAI(fr))
		}
	}
	if len(e.Actions.ArtifactDelta) > 0 {
		ev.ArtifactDelta = maps.Clone(e.Actions.ArtifactDelta)
	}

	return ev
}

// EventsFromGenAI converts a list of SDK events, skipping nil entries.
func EventsFromGenAI(events []*types.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e != nil {
			out = append(out, EventFromGenAI(e))
		}
	}
	return out
}

// DecodeEvents decodes a JSON document holding either a list of events or a single event.
//
// Elements that are not JSON objects are skipped.
func DecodeEvents(data []byte) ([]Event, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return EventsFromValue(v), nil
}

// EventsFromValue converts an already decoded JSON value into events.
func EventsFromValue(v any) []Event {
	switch v := v.(type) {
	case map[string]any:
		return []Event{EventFromMap(v)}
	case []any:
		out := make([]Event, 0, len(v))
		for _, x := range v {
			if m, ok := x.(map[string]any); ok {
				out = append(out, EventFromMap(m))
			}
		}
		return out
	}
	return nil
}

// ArtifactNames returns the artifact filenames named by the events' artifact deltas,
// in event order and without duplicates.
func ArtifactNames(events []Event) []string {
	var names []string
	for _, ev := range events {
		for _, name := range slices.Sorted(maps.Keys(ev.ArtifactDelta)) {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

func toInt(v any) int {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
