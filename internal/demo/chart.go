// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"bytes"
	"fmt"
	"html"

	"github.com/go-a2a/adkchat/internal/pool"
)

const (
	chartWidth  = 480
	chartHeight = 300
	chartMargin = 40
)

// BarChart draws tables as a bar chart of their row counts.
func BarChart(title string, tables []Table) []byte {
	buf := pool.Buffer.Get()
	defer pool.Buffer.Put(buf)

	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	fmt.Fprintf(buf, `<text x="%d" y="24" font-family="sans-serif" font-size="16">%s</text>`,
		chartMargin, html.EscapeString(title))

	maxRows := 1
	for _, t := range tables {
		maxRows = max(maxRows, t.Rows)
	}

	if n := len(tables); n > 0 {
		plotW := chartWidth - 2*chartMargin
		plotH := chartHeight - 2*chartMargin - 20
		slot := plotW / n
		for i, t := range tables {
			h := t.Rows * plotH / maxRows
			x := chartMargin + i*slot + slot/8
			y := chartHeight - chartMargin - h
			fmt.Fprintf(buf, `<rect x="%d" y="%d" width="%d" height="%d" fill="#4285f4"/>`, x, y, slot*3/4, h)
			fmt.Fprintf(buf, `<text x="%d" y="%d" font-family="sans-serif" font-size="11">%s</text>`,
				x, chartHeight-chartMargin+14, html.EscapeString(t.Name))
		}
	}
	buf.WriteString(`</svg>`)

	return bytes.Clone(buf.Bytes())
}
