// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	rand "math/rand/v2"
	"time"
	"unsafe"

	"google.golang.org/genai"
)

// Event is one step of an agent turn as delivered by an SDK object graph.
//
// It carries the content the agent produced for the step, and the actions
// attached to it such as function responses and artifact changes.
type Event struct {
	// ID is the unique identifier of the event.
	ID string

	// InvocationID is the invocation ID of the event.
	InvocationID string

	// Author is the 'user' or the name of the agent, indicating who appended the event to the session.
	Author string

	// Content is the content of the event. May be nil for action-only events.
	Content *genai.Content

	// Actions is the actions taken by the agent. May be nil.
	Actions *EventActions

	// Partial reports whether the event is an incomplete chunk of a streamed response.
	Partial bool

	// ErrorCode and ErrorMessage are set when the agent failed to produce the step.
	ErrorCode    string
	ErrorMessage string

	// Timestamp is the time the event was created.
	Timestamp time.Time
}

// WithContent sets the content of the event.
func (e *Event) WithContent(content *genai.Content) *Event {
	e.Content = content
	return e
}

// WithInvocationID sets the invocation ID of the event.
func (e *Event) WithInvocationID(id string) *Event {
	e.InvocationID = id
	return e
}

// WithAuthor sets the author of the event.
func (e *Event) WithAuthor(author string) *Event {
	e.Author = author
	return e
}

// WithActions sets the actions of the event.
func (e *Event) WithActions(actions *EventActions) *Event {
	e.Actions = actions
	return e
}

// WithError sets the error code and message of the event.
func (e *Event) WithError(code, message string) *Event {
	e.ErrorCode = code
	e.ErrorMessage = message
	return e
}

// NewEvent creates a new event with a unique ID and timestamp.
func NewEvent() *Event {
	ev := &Event{
		ID:        NewEventID(),
		Timestamp: time.Now(),
	}
	return ev
}

// Parts returns the content parts of the event, or nil.
func (e *Event) Parts() []*genai.Part {
	if e == nil || e.Content == nil {
		return nil
	}
	return e.Content.Parts
}

const (
	letterBytes   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// NewEventID returns a random 8 character event ID.
func NewEventID() string {
	b := make([]byte, 8)
	for i, cache, remain := 8-1, rand.Int64(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache = rand.Int64()
			remain = letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}
