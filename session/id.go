// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	rand "math/rand/v2"
	"unsafe"
)

const (
	idLength      = 10
	letterBytes   = "abcdefghijklmnopqrstuvwxyz0123456789"
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// NewID returns a random identifier of 10 lowercase letters and digits.
func NewID() string {
	b := make([]byte, idLength)
	for i, cache, remain := idLength-1, rand.Int64(), letterIdxMax; i >= 0; {
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
