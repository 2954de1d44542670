// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agentengine

import (
	"bytes"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/adkchat/normalize"
)

// maxSkippedLen bounds the length of a skipped line kept for logging.
const maxSkippedLen = 200

// eventDecoder reassembles newline-delimited JSON events split across stream chunks.
type eventDecoder struct {
	buf     bytes.Buffer
	events  []normalize.Event
	skipped []string
}

// Write appends a chunk and decodes every line it completes.
//
// A chunk whose pending data is one complete JSON value is decoded even without a
// trailing newline.
func (d *eventDecoder) Write(chunk []byte) {
	d.buf.Write(chunk)
	for {
		i := bytes.IndexByte(d.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		d.decodeLine(d.buf.Next(i + 1))
	}

	if rest := bytes.TrimSpace(d.buf.Bytes()); len(rest) > 0 && sonic.Valid(rest) {
		d.decodeLine(rest)
		d.buf.Reset()
	}
}

// Flush decodes whatever is left in the buffer.
func (d *eventDecoder) Flush() {
	if d.buf.Len() > 0 {
		d.decodeLine(d.buf.Bytes())
		d.buf.Reset()
	}
}

// Events returns the decoded events in stream order.
func (d *eventDecoder) Events() []normalize.Event {
	return d.events
}

// Skipped returns the non-blank lines that were not valid JSON.
func (d *eventDecoder) Skipped() []string {
	return d.skipped
}

func (d *eventDecoder) decodeLine(line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var v any
	if err := sonic.Unmarshal(line, &v); err != nil {
		s := string(line)
		if len(s) > maxSkippedLen {
			s = s[:maxSkippedLen]
		}
		d.skipped = append(d.skipped, s)
		return
	}
	d.events = append(d.events, normalize.EventsFromValue(v)...)
}
