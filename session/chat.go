// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/adkchat/normalize"
)

// Role is the author of a transcript turn.
type Role string

// List of [Role].
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the transcript.
type Turn struct {
	Role Role

	// Text is the message of a user turn.
	Text string

	// Parts are the flattened parts of an assistant turn. They are kept rather than
	// the rendered items so the turn renders the same way every time it is shown.
	Parts []normalize.Part
}

// UserTurn returns a user turn holding text.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// AssistantTurn returns an assistant turn holding parts.
func AssistantTurn(parts []normalize.Part) Turn {
	return Turn{Role: RoleAssistant, Parts: parts}
}

// Items renders the turn.
func (t Turn) Items() []normalize.Item {
	if t.Role == RoleUser {
		return []normalize.Item{normalize.TextItem(t.Text)}
	}
	return normalize.Render(t.Parts)
}

// Chat is the state of one UI conversation.
type Chat struct {
	UserID    string
	SessionID string

	turnMu sync.Mutex

	mu         sync.RWMutex
	transcript []Turn
	remoteID   string
	lastUpdate time.Time
}

// NewChat creates a chat with fresh random user and session IDs.
func NewChat() *Chat {
	return NewChatWithIDs(NewID(), NewID())
}

// NewChatWithIDs creates a chat with the given IDs, generating the ones left empty.
func NewChatWithIDs(userID, sessionID string) *Chat {
	if userID == "" {
		userID = NewID()
	}
	if sessionID == "" {
		sessionID = NewID()
	}
	return &Chat{
		UserID:     userID,
		SessionID:  sessionID,
		lastUpdate: time.Now(),
	}
}

// BeginTurn blocks until no other turn of the chat is running, and returns the
// function ending the turn.
func (c *Chat) BeginTurn() (end func()) {
	c.turnMu.Lock()
	return c.turnMu.Unlock
}

// Commit appends turns to the transcript.
func (c *Chat) Commit(turns ...Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transcript = append(c.transcript, turns...)
	c.lastUpdate = time.Now()
}

// Transcript returns a deep copy of the transcript.
func (c *Chat) Transcript() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Turn
	if err := deepcopy.Copy(&out, c.transcript); err != nil {
		// fall back to a shallow copy; turns are never modified in place
		out = append([]Turn(nil), c.transcript...)
	}
	return out
}

// Len returns the number of committed turns.
func (c *Chat) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.transcript)
}

// LastUpdateTime returns the last time a turn was committed, or the creation time.
func (c *Chat) LastUpdateTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastUpdate
}

// RemoteSession returns the session ID the agent side knows this chat by.
// It reports false, and returns SessionID, until [Chat.SetRemoteSession] is called.
func (c *Chat) RemoteSession() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.remoteID == "" {
		return c.SessionID, false
	}
	return c.remoteID, true
}

// SetRemoteSession records that the agent side session exists under id.
// An empty id means the agent adopted SessionID.
func (c *Chat) SetRemoteSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" {
		id = c.SessionID
	}
	c.remoteID = id
}
