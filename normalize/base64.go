// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// minBase64ImageLen is the shortest whitespace-free string considered as a base64 image candidate.
const minBase64ImageLen = 100

var (
	base64Pattern   = regexp.MustCompile(`^[A-Za-z0-9+/_\-]*={0,2}$`)
	urlSafeToStd    = strings.NewReplacer("-", "+", "_", "/")
	rawSVGScanBytes = 1000
)

// stripSpace removes every whitespace character from s.
func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// IsLikelyBase64 reports whether s plausibly holds base64 image data.
//
// Whitespace is ignored. Both the standard and the URL-safe alphabets are accepted,
// with at most two trailing padding characters.
func IsLikelyBase64(s string) bool {
	clean := stripSpace(s)
	if len(clean) < minBase64ImageLen {
		return false
	}
	return base64Pattern.MatchString(clean)
}

// DecodeBase64 decodes standard or URL-safe base64, tolerating embedded whitespace and missing padding.
func DecodeBase64(s string) ([]byte, error) {
	clean := urlSafeToStd.Replace(stripSpace(s))
	if missing := len(clean) % 4; missing != 0 {
		clean += strings.Repeat("=", 4-missing)
	}
	return base64.StdEncoding.DecodeString(clean)
}

// SafeDecodeBase64 is like [DecodeBase64] but never fails.
//
// Strings that already hold raw SVG markup are returned as is, and strings that
// do not decode are returned as their literal bytes.
func SafeDecodeBase64(s string) []byte {
	if s == "" {
		return nil
	}

	clean := stripSpace(s)
	if indexFold([]byte(clean[:min(len(clean), rawSVGScanBytes)]), svgOpen) >= 0 {
		return []byte(clean)
	}

	data, err := DecodeBase64(clean)
	if err != nil {
		return []byte(s)
	}
	return data
}
