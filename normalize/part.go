// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"google.golang.org/genai"
)

// Wire keys, snake_case first.
var (
	keyText             = []string{"text"}
	keyInlineData       = []string{"inline_data", "inlineData"}
	keyMIMEType         = []string{"mime_type", "mimeType"}
	keyData             = []string{"data"}
	keyDisplayName      = []string{"display_name", "displayName"}
	keyFunctionResponse = []string{"function_response", "functionResponse"}
	keyResponse         = []string{"response"}
	keyResult           = []string{"result"}
	keyParts            = []string{"parts"}
	keyName             = []string{"name"}
	keyID               = []string{"id"}
)

// Blob is inline data attached to a part.
type Blob struct {
	MIMEType string

	// Data is the payload. When Encoded is set it holds the textual form found on
	// the wire, usually base64 and occasionally raw SVG markup; otherwise it holds
	// the raw bytes.
	Data    []byte
	Encoded bool

	// DisplayName is an optional name shown as the image caption.
	DisplayName string
}

// FunctionResponse is the result of a tool call made by the agent.
//
// Response keeps the raw structured payload. The inline data the tool layer may
// have put on the response, either directly or inside its result envelope, is
// lifted into InlineData and ResultInlineData at construction time.
type FunctionResponse struct {
	ID       string
	Name     string
	Response map[string]any

	// InlineData is response.inlineData.
	InlineData *Blob

	// ResultInlineData is response.result.inlineData.
	ResultInlineData *Blob

	// Parts are the parts nested in response.parts.
	Parts []Part
}

// Part is the smallest unit of turn content.
//
// At most one field is expected to be populated; the zero Part contributes nothing.
type Part struct {
	Text             string
	InlineData       *Blob
	FunctionResponse *FunctionResponse
}

// IsZero reports whether p carries no content.
func (p Part) IsZero() bool {
	return p.Text == "" && p.InlineData == nil && p.FunctionResponse == nil
}

// PartFromMap builds a [Part] from a decoded JSON object.
func PartFromMap(m map[string]any) Part {
	var p Part
	if m == nil {
		return p
	}

	p.Text, _ = lookup(m, keyText).(string)
	p.InlineData = blobFromValue(lookup(m, keyInlineData))
	p.FunctionResponse = functionResponseFromValue(lookup(m, keyFunctionResponse))

	return p
}

// PartFromGenAI builds a [Part] from a genai SDK part.
func PartFromGenAI(gp *genai.Part) Part {
	var p Part
	if gp == nil {
		return p
	}

	p.Text = gp.Text
	p.InlineData = blobFromGenAI(gp.InlineData)
	if gp.FunctionResponse != nil {
		p.FunctionResponse = functionResponseFromGenAI(gp.FunctionResponse)
	}

	return p
}

// partFromValue accepts any value a part may show up as.
func partFromValue(v any) (Part, bool) {
	switch v := v.(type) {
	case map[string]any:
		return PartFromMap(v), true
	case *genai.Part:
		if v == nil {
			return Part{}, false
		}
		return PartFromGenAI(v), true
	case genai.Part:
		return PartFromGenAI(&v), true
	case Part:
		return v, true
	case *Part:
		if v == nil {
			return Part{}, false
		}
		return *v, true
	}
	return Part{}, false
}

// partsFromValue converts a list of parts of any supported shape, skipping the ones it can not read.
func partsFromValue(v any) []Part {
	var parts []Part
	add := func(x any) {
		if p, ok := partFromValue(x); ok {
			parts = append(parts, p)
		}
	}

	switch v := v.(type) {
	case []any:
		for _, x := range v {
			add(x)
		}
	case []map[string]any:
		for _, x := range v {
			add(x)
		}
	case []*genai.Part:
		for _, x := range v {
			add(x)
		}
	case []Part:
		parts = append(parts, v...)
	}

	return parts
}

func blobFromGenAI(b *genai.Blob) *Blob {
	if b == nil {
		return nil
	}
	return &Blob{
		MIMEType:    b.MIMEType,
		Data:        b.Data,
		DisplayName: b.DisplayName,
	}
}

func blobFromValue(v any) *Blob {
	switch v := v.(type) {
	case *genai.Blob:
		return blobFromGenAI(v)
	case genai.Blob:
		return blobFromGenAI(&v)
	case *Blob:
		return v
	case map[string]any:
		mimeType, hasMIME := lookup(v, keyMIMEType).(string)
		data, hasData := lookupOK(v, keyData)
		if !hasMIME && !hasData {
			return nil
		}
		b := &Blob{MIMEType: mimeType}
		b.DisplayName, _ = lookup(v, keyDisplayName).(string)
		switch data := data.(type) {
		case string:
			b.Data = []byte(data)
			b.Encoded = true
		case []byte:
			b.Data = data
		}
		return b
	}
	return nil
}

// inlineDataOf returns the inline data carried by a part-like value.
func inlineDataOf(v any) *Blob {
	switch v := v.(type) {
	case map[string]any:
		return blobFromValue(lookup(v, keyInlineData))
	case *genai.Part:
		if v == nil {
			return nil
		}
		return blobFromGenAI(v.InlineData)
	case genai.Part:
		return blobFromGenAI(v.InlineData)
	}
	return nil
}

func functionResponseFromGenAI(fr *genai.FunctionResponse) *FunctionResponse {
	out := &FunctionResponse{
		ID:   fr.ID,
		Name: fr.Name,
	}
	out.setResponse(fr.Response)
	return out
}

func functionResponseFromValue(v any) *FunctionResponse {
	switch v := v.(type) {
	case *genai.FunctionResponse:
		if v == nil {
			return nil
		}
		return functionResponseFromGenAI(v)
	case genai.FunctionResponse:
		return functionResponseFromGenAI(&v)
	case map[string]any:
		out := &FunctionResponse{}
		out.ID, _ = lookup(v, keyID).(string)
		out.Name, _ = lookup(v, keyName).(string)
		resp, _ := lookup(v, keyResponse).(map[string]any)
		out.setResponse(resp)
		return out
	}
	return nil
}

func (fr *FunctionResponse) setResponse(resp map[string]any) {
	fr.Response = resp
	if resp == nil {
		return
	}
	fr.InlineData = blobFromValue(lookup(resp, keyInlineData))
	fr.ResultInlineData = inlineDataOf(lookup(resp, keyResult))
	fr.Parts = partsFromValue(lookup(resp, keyParts))
}

// lookup returns the first non-nil value stored under any of keys.
func lookup(m map[string]any, keys []string) any {
	v, _ := lookupOK(m, keys)
	return v
}

func lookupOK(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
