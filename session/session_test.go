// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-a2a/adkchat/normalize"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]{10}$`)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID()
		if !idPattern.MatchString(id) {
			t.Fatalf("NewID() = %q, want 10 lowercase alphanumerics", id)
		}
		seen[id] = true
	}
	if len(seen) < 99 {
		t.Errorf("NewID() produced %d distinct IDs out of 100", len(seen))
	}
}

func TestNewChatWithIDs(t *testing.T) {
	c := NewChatWithIDs("user1", "")
	if c.UserID != "user1" {
		t.Errorf("UserID = %q, want %q", c.UserID, "user1")
	}
	if !idPattern.MatchString(c.SessionID) {
		t.Errorf("SessionID = %q, want a generated ID", c.SessionID)
	}
}

func TestChatCommitAndTranscript(t *testing.T) {
	c := NewChat()
	if id, ok := c.RemoteSession(); ok || id != c.SessionID {
		t.Fatalf("RemoteSession() = (%q, %v), want (%q, false)", id, ok, c.SessionID)
	}
	c.SetRemoteSession("")
	if id, ok := c.RemoteSession(); !ok || id != c.SessionID {
		t.Fatalf("RemoteSession() = (%q, %v), want (%q, true)", id, ok, c.SessionID)
	}
	c.SetRemoteSession("4471823592745893888")
	if id, _ := c.RemoteSession(); id != "4471823592745893888" {
		t.Errorf("RemoteSession() = %q, want the engine assigned ID", id)
	}

	c.Commit(
		UserTurn("show sales"),
		AssistantTurn([]normalize.Part{
			{Text: "Sales by region:"},
			{InlineData: &normalize.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
		}),
	)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	snapshot := c.Transcript()
	snapshot[1].Parts[0].Text = "mutated"
	snapshot[1].Parts[1].InlineData.Data[0] = 9

	got := c.Transcript()
	want := []Turn{
		{Role: RoleUser, Text: "show sales"},
		{Role: RoleAssistant, Parts: []normalize.Part{
			{Text: "Sales by region:"},
			{InlineData: &normalize.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
		}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Transcript() mismatch (-want +got):\n%s", diff)
	}

	items := got[1].Items()
	if len(items) != 2 || items[0].Kind != normalize.KindText || items[1].Kind != normalize.KindImage {
		t.Errorf("Items() = %+v", items)
	}
	if diff := cmp.Diff([]normalize.Item{normalize.TextItem("show sales")}, got[0].Items()); diff != "" {
		t.Errorf("user Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestChatBeginTurnSerializes(t *testing.T) {
	c := NewChat()
	end := c.BeginTurn()

	started := make(chan struct{})
	go func() {
		done := c.BeginTurn()
		close(started)
		done()
	}()

	select {
	case <-started:
		t.Fatal("second turn started while the first was running")
	case <-time.After(20 * time.Millisecond):
	}

	end()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("second turn did not start after the first ended")
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore(slog.New(slog.DiscardHandler))

	key, c := s.GetOrCreate(ctx, "")
	if key == "" || c == nil {
		t.Fatal("GetOrCreate() returned an empty key or nil chat")
	}

	key2, c2 := s.GetOrCreate(ctx, key)
	if key2 != key || c2 != c {
		t.Error("GetOrCreate() with an existing key returned a different chat")
	}

	badKey, c3 := s.GetOrCreate(ctx, "../etc/passwd")
	if badKey == "../etc/passwd" || c3 == c {
		t.Error("GetOrCreate() accepted a malformed key")
	}

	reset := s.Reset(ctx, key)
	if got, _ := s.Get(key); got != reset || reset == c {
		t.Error("Reset() did not replace the chat")
	}

	if n := s.Prune(ctx, time.Now().Add(time.Hour)); n != 2 {
		t.Errorf("Prune() = %d, want 2", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after prune, want 0", s.Len())
	}

	key, _ = s.GetOrCreate(ctx, "")
	s.Delete(ctx, key)
	if _, ok := s.Get(key); ok {
		t.Error("Get() found a deleted chat")
	}
}
