// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pool

import "testing"

func TestBufferReset(t *testing.T) {
	buf := Buffer.Get()
	buf.WriteString("stale")
	Buffer.Put(buf)

	got := Buffer.Get()
	defer Buffer.Put(got)
	if got.Len() != 0 {
		t.Errorf("pooled buffer has %d bytes, want 0", got.Len())
	}
}

func TestNewWithResetDrops(t *testing.T) {
	created := 0
	p := NewWithReset(func() []int {
		created++
		return make([]int, 0, 4)
	}, func([]int) bool { return false })

	p.Put(p.Get())
	p.Get()
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
}
