// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"bytes"
	"sync"
)

// maxBufferCap bounds the capacity of buffers kept by [Buffer].
const maxBufferCap = 1 << 20

// Pool is a generics wrapper around [sync.Pool] to provide strongly-typed object pooling.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T) bool
}

// New returns a new [Pool] for T, and will use fn to construct new T's when the pool is empty.
func New[T any](fn func() T) *Pool[T] {
	return NewWithReset(fn, nil)
}

// NewWithReset is like [New], but calls reset on every value passed to Put.
// Values for which reset reports false are dropped instead of pooled.
func NewWithReset[T any](fn func() T, reset func(T) bool) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return fn()
			},
		},
		reset: reset,
	}
}

// Get gets a T from the pool, or creates a new one if the pool is empty.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns x into the pool.
func (p *Pool[T]) Put(x T) {
	if p.reset != nil && !p.reset(x) {
		return
	}
	p.pool.Put(x)
}

// Buffer provides the [*bytes.Buffer] pooling objects.
var Buffer = NewWithReset(func() *bytes.Buffer {
	return &bytes.Buffer{}
}, func(buf *bytes.Buffer) bool {
	if buf.Cap() > maxBufferCap {
		return false
	}
	buf.Reset()
	return true
})
