// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/session"
	"github.com/go-a2a/adkchat/types"
)

// NoContentMessage is the notice shown when an agent turn produced nothing renderable.
const NoContentMessage = "No response content received from the agent."

// DefaultFallbackArtifact is the artifact loaded when a turn carries no explicit image.
const DefaultFallbackArtifact = "graph.svg"

// Agent is a remote agent reachable through an API server or Agent Engine.
type Agent interface {
	// CreateSession creates the agent side session and returns the ID the agent knows
	// it by.
	CreateSession(ctx context.Context, userID, sessionID string) (string, error)

	// Run sends message as the next user turn and returns every event of the agent turn.
	Run(ctx context.Context, userID, sessionID, message string) ([]normalize.Event, error)
}

// ArtifactLoader loads session-scoped artifacts.
type ArtifactLoader interface {
	// LoadArtifact returns the latest version of filename, or nil if it does not exist.
	LoadArtifact(ctx context.Context, userID, sessionID, filename string) (*normalize.Part, error)
}

// ArtifactLister lists session-scoped artifacts.
type ArtifactLister interface {
	// ListArtifacts returns the artifacts of the session sorted by name.
	ListArtifacts(ctx context.Context, userID, sessionID string) ([]types.ArtifactInfo, error)
}

// ErrNoArtifacts is returned by [Handler.Artifacts] when the artifact loader cannot
// list artifacts.
var ErrNoArtifacts = errors.New("chat: artifact listing is not available")

// Handler runs chat turns.
type Handler struct {
	agent     Agent
	artifacts ArtifactLoader
	fallback  []string
	logger    *slog.Logger
}

// Option configures a [Handler].
type Option func(*Handler)

// WithArtifactLoader sets where fallback artifacts are loaded from. Without a loader no
// fallback takes place.
func WithArtifactLoader(l ArtifactLoader) Option {
	return func(h *Handler) {
		h.artifacts = l
	}
}

// WithFallbackArtifacts sets the artifact filenames eligible for the image fallback.
func WithFallbackArtifacts(names ...string) Option {
	return func(h *Handler) {
		h.fallback = names
	}
}

// WithLogger sets the logger for the [Handler].
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler returns a [Handler] for agent.
func NewHandler(agent Agent, opts ...Option) *Handler {
	h := &Handler{
		agent:    agent,
		fallback: []string{DefaultFallbackArtifact},
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Turn sends text to the agent on behalf of c and returns the items to show for the
// reply.
//
// Turns of one chat run one at a time. The transcript of c is only extended when the
// agent call succeeds; a failed call yields a single error item and leaves it untouched.
func (h *Handler) Turn(ctx context.Context, c *session.Chat, text string) []normalize.Item {
	end := c.BeginTurn()
	defer end()

	start := time.Now()
	logger := h.logger.With(
		slog.String("user_id", c.UserID),
		slog.String("session_id", c.SessionID),
	)

	sessionID := h.ensureSession(ctx, logger, c)

	events, err := h.agent.Run(ctx, c.UserID, sessionID, text)
	if err != nil {
		logger.ErrorContext(ctx, "Agent turn failed", slog.String("error", err.Error()))
		return []normalize.Item{normalize.ErrorItem("Error connecting to the agent: " + err.Error())}
	}
	events = slices.DeleteFunc(events, func(ev normalize.Event) bool { return ev.Partial })

	parts := normalize.Flatten(events)
	if !normalize.HasExplicitImage(parts) {
		parts = append(parts, h.fallbackParts(ctx, logger, c.UserID, sessionID, events)...)
	}

	items := normalize.Render(parts)
	for _, ev := range events {
		if ev.ErrorMessage != "" {
			items = append(items, normalize.ErrorItem(ev.ErrorMessage))
		}
	}

	logger.InfoContext(ctx, "Agent turn completed",
		slog.Int("events", len(events)),
		slog.Int("items", len(items)),
		slog.Duration("elapsed", time.Since(start)),
	)

	if len(items) == 0 {
		c.Commit(session.UserTurn(text))
		return []normalize.Item{normalize.NoticeItem(NoContentMessage)}
	}

	c.Commit(session.UserTurn(text), session.AssistantTurn(parts))
	return items
}

// ensureSession creates the agent side session on the first turn of c and returns the
// session ID to run turns with. Failures are logged and the local session ID is used.
func (h *Handler) ensureSession(ctx context.Context, logger *slog.Logger, c *session.Chat) string {
	if id, ok := c.RemoteSession(); ok {
		return id
	}

	id, err := h.agent.CreateSession(ctx, c.UserID, c.SessionID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to create agent session", slog.String("error", err.Error()))
		return c.SessionID
	}
	c.SetRemoteSession(id)

	id, _ = c.RemoteSession()
	return id
}

// fallbackParts loads the configured artifacts named by the artifact deltas of events.
// Artifacts that fail to load are skipped.
func (h *Handler) fallbackParts(ctx context.Context, logger *slog.Logger, userID, sessionID string, events []normalize.Event) []normalize.Part {
	if h.artifacts == nil {
		return nil
	}

	var parts []normalize.Part
	for _, name := range normalize.ArtifactNames(events) {
		if !slices.Contains(h.fallback, name) {
			continue
		}

		part, err := h.artifacts.LoadArtifact(ctx, userID, sessionID, name)
		if err != nil {
			logger.WarnContext(ctx, "Failed to load artifact",
				slog.String("artifact", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if part == nil {
			logger.DebugContext(ctx, "Artifact not found", slog.String("artifact", name))
			continue
		}
		parts = append(parts, *part)
	}

	return parts
}

// Artifacts lists the artifacts the agent stored in the session of c.
func (h *Handler) Artifacts(ctx context.Context, c *session.Chat) ([]types.ArtifactInfo, error) {
	lister, ok := h.artifacts.(ArtifactLister)
	if !ok {
		return nil, ErrNoArtifacts
	}
	sessionID, _ := c.RemoteSession()
	return lister.ListArtifacts(ctx, c.UserID, sessionID)
}
