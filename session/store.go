// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps chats keyed by an opaque browser session key.
type Store struct {
	chats  map[string]*Chat
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewStore creates a new [Store].
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		chats:  make(map[string]*Chat),
		logger: logger,
	}
}

// NewKey returns a fresh browser session key.
func NewKey() string {
	return uuid.NewString()
}

// Get returns the chat stored under key.
func (s *Store) Get(key string) (*Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chats[key]
	return c, ok
}

// GetOrCreate returns the chat stored under key, creating it if absent.
//
// An empty or malformed key is replaced by a new one; the returned key must be
// handed back to the browser.
func (s *Store) GetOrCreate(ctx context.Context, key string) (string, *Chat) {
	if _, err := uuid.Parse(key); err != nil {
		key = NewKey()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.chats[key]; ok {
		return key, c
	}

	c := NewChat()
	s.chats[key] = c

	s.logger.InfoContext(ctx, "Creating chat",
		slog.String("user_id", c.UserID),
		slog.String("session_id", c.SessionID),
	)

	return key, c
}

// Reset replaces the chat stored under key with a new one.
func (s *Store) Reset(ctx context.Context, key string) *Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := NewChat()
	s.chats[key] = c

	s.logger.InfoContext(ctx, "Resetting chat",
		slog.String("user_id", c.UserID),
		slog.String("session_id", c.SessionID),
	)

	return c
}

// Delete removes the chat stored under key.
func (s *Store) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[key]; !ok {
		return
	}
	delete(s.chats, key)

	s.logger.InfoContext(ctx, "Deleting chat", slog.String("key", key))
}

// Prune removes chats not updated since before. It returns the number of removed chats.
func (s *Store) Prune(ctx context.Context, before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, c := range s.chats {
		if c.LastUpdateTime().Before(before) {
			delete(s.chats, key)
			n++
		}
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Pruned idle chats", slog.Int("count", n))
	}
	return n
}

// Len returns the number of stored chats.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chats)
}
