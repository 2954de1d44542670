// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

// Kind is the kind of a renderable [Item].
type Kind string

// List of [Kind].
const (
	// KindText is a markdown text block.
	KindText Kind = "text"

	// KindImage is an image block.
	KindImage Kind = "image"

	// KindNotice is an informational message produced by the client rather than the agent.
	KindNotice Kind = "notice"

	// KindError is a user-visible error produced by the client rather than the agent.
	KindError Kind = "error"
)

// Item is one renderable unit of a chat turn.
type Item struct {
	Kind Kind `json:"kind"`

	// Text is the markdown of a text block, or the message of a notice or error.
	Text string `json:"text,omitempty"`

	// Image is set for image blocks.
	Image *ImageRef `json:"image,omitempty"`

	// Caption is an optional caption shown under an image.
	Caption string `json:"caption,omitempty"`
}

// TextItem returns a text block.
func TextItem(text string) Item {
	return Item{Kind: KindText, Text: text}
}

// ImageItem returns an image block captioned with the image name.
func ImageItem(ref *ImageRef) Item {
	return Item{Kind: KindImage, Image: ref, Caption: ref.Name}
}

// NoticeItem returns an informational item.
func NoticeItem(text string) Item {
	return Item{Kind: KindNotice, Text: text}
}

// ErrorItem returns an error item.
func ErrorItem(text string) Item {
	return Item{Kind: KindError, Text: text}
}

// Flatten collects the parts of a turn in order.
//
// Each event contributes its content parts, then for every function response in
// its actions a synthetic function response part followed by the parts nested in
// that response.
func Flatten(events []Event) []Part {
	var parts []Part
	for _, ev := range events {
		parts = append(parts, ev.Parts...)
		for i := range ev.FunctionResponses {
			fr := &ev.FunctionResponses[i]
			parts = append(parts, Part{FunctionResponse: fr})
			parts = append(parts, fr.Parts...)
		}
	}
	return parts
}

// HasExplicitImage reports whether any part carries a structured image.
func HasExplicitImage(parts []Part) bool {
	for _, p := range parts {
		if _, ok := ExtractImage(p); ok {
			return true
		}
	}
	return false
}

// Render converts flattened parts into renderable items, in part order.
//
// Text that is itself an image is drawn as one, unless some part of the turn
// carries a structured image, in which case the text is dropped as a duplicate.
// Structured images are never dropped.
func Render(parts []Part) []Item {
	hasExplicitImage := HasExplicitImage(parts)

	var items []Item
	for _, p := range parts {
		if p.Text != "" {
			ref, isImage := ClassifyImage(p.Text)
			switch {
			case isImage && hasExplicitImage:
				// duplicate of the structured image
			case isImage:
				items = append(items, ImageItem(ref))
			default:
				items = append(items, TextItem(p.Text))
			}
		}

		if ref, ok := ExtractImage(p); ok {
			items = append(items, ImageItem(ref))
		}
	}

	return items
}
