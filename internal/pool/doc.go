// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides generic type pooling, and provides [*bytes.Buffer] pooling objects.
//
// Values are reset before they go back to the pool:
//
//	buf := pool.Buffer.Get()
//	defer pool.Buffer.Put(buf)
package pool
