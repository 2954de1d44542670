// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestNewEventID(t *testing.T) {
	re := regexp.MustCompile(`^[A-Za-z0-9]{8}$`)
	seen := make(map[string]bool)
	for range 100 {
		id := NewEventID()
		if !re.MatchString(id) {
			t.Fatalf("NewEventID() = %q, want 8 alphanumerics", id)
		}
		seen[id] = true
	}
	if len(seen) < 99 {
		t.Errorf("NewEventID() produced %d distinct IDs out of 100", len(seen))
	}
}

func TestEventParts(t *testing.T) {
	var nilEvent *Event
	if got := nilEvent.Parts(); got != nil {
		t.Errorf("nil event Parts() = %v, want nil", got)
	}
	if got := NewEvent().Parts(); got != nil {
		t.Errorf("empty event Parts() = %v, want nil", got)
	}

	ev := NewEvent().
		WithAuthor("data_agent").
		WithInvocationID("e-1").
		WithContent(genai.NewContentFromText("hello", genai.RoleModel)).
		WithActions(NewEventActions().WithArtifactDelta(map[string]int{"graph.svg": 1}))

	if diff := cmp.Diff([]*genai.Part{{Text: "hello"}}, ev.Parts()); diff != "" {
		t.Errorf("Parts() mismatch (-want +got):\n%s", diff)
	}
	if ev.Author != "data_agent" || ev.InvocationID != "e-1" || ev.Timestamp.IsZero() {
		t.Errorf("event = %+v", ev)
	}
	if diff := cmp.Diff(map[string]int{"graph.svg": 1}, ev.Actions.ArtifactDelta); diff != "" {
		t.Errorf("ArtifactDelta mismatch (-want +got):\n%s", diff)
	}
}
