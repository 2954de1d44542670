// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"regexp"
	"strings"
)

// MIMETypeSVG is the MIME type of SVG images.
const MIMETypeSVG = "image/svg+xml"

const (
	svgOpen = "<svg"

	// decodedSVGScanBytes bounds the search for <svg in decoded base64 payloads.
	decodedSVGScanBytes = 2000
)

var svgSpan = regexp.MustCompile(`(?is)<svg.*?</svg>`)

// ImageRef is an image found in a turn.
type ImageRef struct {
	// Data is the SVG markup or the raw image bytes.
	Data     []byte `json:"data"`
	MIMEType string `json:"mimeType"`

	// Name is the display name of the source payload, if any.
	Name string `json:"name,omitempty"`
}

// IsSVG reports whether the image is SVG markup.
func (r *ImageRef) IsSVG() bool {
	return r.MIMEType == MIMETypeSVG
}

// ClassifyImage reports whether candidate text is itself an image.
//
// An <svg>…</svg> span anywhere in the text is returned as markup. Otherwise a
// long base64 string whose decoded bytes open an <svg element within the first
// 2000 bytes is returned as the decoded markup. Anything else is not an image.
func ClassifyImage(candidate string) (*ImageRef, bool) {
	if loc := svgSpan.FindStringIndex(candidate); loc != nil {
		return &ImageRef{
			Data:     []byte(candidate[loc[0]:loc[1]]),
			MIMEType: MIMETypeSVG,
		}, true
	}

	if !IsLikelyBase64(candidate) {
		return nil, false
	}
	decoded, err := DecodeBase64(candidate)
	if err != nil {
		return nil, false
	}
	if i := indexFold(decoded[:min(len(decoded), decodedSVGScanBytes)], svgOpen); i >= 0 {
		return &ImageRef{
			Data:     decoded[i:],
			MIMEType: MIMETypeSVG,
		}, true
	}

	return nil, false
}

// ClassifyBlob resolves structured inline data into an image.
//
// SVG is recognised from the declared MIME type or from the payload itself. Other
// payloads are images only when an image MIME type is declared and the payload
// decodes.
func ClassifyBlob(b *Blob) (*ImageRef, bool) {
	if b == nil || len(b.Data) == 0 {
		return nil, false
	}

	mimeType := strings.ToLower(strings.TrimSpace(b.MIMEType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	ref, ok := classifyBlobData(b, mimeType)
	if ok {
		ref.Name = b.DisplayName
	}
	return ref, ok
}

func classifyBlobData(b *Blob, mimeType string) (*ImageRef, bool) {
	if !b.Encoded {
		switch {
		case mimeType == MIMETypeSVG:
			if i := indexFold(b.Data, svgOpen); i >= 0 {
				return &ImageRef{Data: b.Data[i:], MIMEType: MIMETypeSVG}, true
			}
			return nil, false
		case isImageMIME(mimeType):
			return &ImageRef{Data: b.Data, MIMEType: mimeType}, true
		}
		window := b.Data[:min(len(b.Data), decodedSVGScanBytes)]
		if i := indexFold(window, svgOpen); i >= 0 {
			return &ImageRef{Data: b.Data[i:], MIMEType: MIMETypeSVG}, true
		}
		return nil, false
	}

	text := string(b.Data)
	if ref, ok := ClassifyImage(text); ok {
		return ref, true
	}

	if mimeType == MIMETypeSVG {
		if i := indexFold(b.Data, svgOpen); i >= 0 {
			return &ImageRef{Data: b.Data[i:], MIMEType: MIMETypeSVG}, true
		}
		decoded := SafeDecodeBase64(text)
		if i := indexFold(decoded, svgOpen); i >= 0 {
			return &ImageRef{Data: decoded[i:], MIMEType: MIMETypeSVG}, true
		}
		return nil, false
	}

	if !isImageMIME(mimeType) {
		return nil, false
	}
	decoded, err := DecodeBase64(text)
	if err != nil || len(decoded) == 0 {
		return nil, false
	}
	return &ImageRef{Data: decoded, MIMEType: mimeType}, true
}

// ExtractImage returns the explicit image carried by p.
//
// The lookup order is fixed: the part's own inline data, then inline data on the
// function response payload, then inline data inside the payload's result envelope.
func ExtractImage(p Part) (*ImageRef, bool) {
	if ref, ok := ClassifyBlob(p.InlineData); ok {
		return ref, true
	}

	fr := p.FunctionResponse
	if fr == nil {
		return nil, false
	}
	if ref, ok := ClassifyBlob(fr.InlineData); ok {
		return ref, true
	}
	if ref, ok := ClassifyBlob(fr.ResultInlineData); ok {
		return ref, true
	}

	return nil, false
}

func isImageMIME(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// indexFold returns the index of the first ASCII case-insensitive match of sub in b, or -1.
func indexFold(b []byte, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(b); i++ {
		match := true
		for j := range n {
			c := b[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
