// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/base64"
	"html/template"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/adkchat/internal/pool"
	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/session"
)

var pageTemplate = template.Must(template.New("page").Parse(heredoc.Doc(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
	<style>
	body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
	.turn { border-radius: 6px; margin: 0.75rem 0; padding: 0.5rem 1rem; }
	.user { background: #eef3fd; }
	.assistant { background: #f6f6f6; }
	.notice { color: #8a6d00; }
	.error { color: #b00020; }
	figure { margin: 0.5rem 0; }
	figure img { max-width: 100%; }
	form.chat { display: flex; gap: 0.5rem; }
	form.chat input[type=text] { flex: 1; padding: 0.4rem; }
	</style>
	</head>
	<body>
	<h1>{{.Title}}</h1>
	<p><small>user {{.UserID}} &middot; session {{.SessionID}}</small></p>
	{{range .Turns}}
	<div class="turn {{.Role}}">
	{{range .Items}}
	{{if eq .Kind "image"}}<figure><img src="{{.ImageURI}}" alt="{{.Caption}}">{{with .Caption}}<figcaption>{{.}}</figcaption>{{end}}</figure>
	{{else if eq .Kind "notice"}}<p class="notice">{{.Text}}</p>
	{{else if eq .Kind "error"}}<p class="error">{{.Text}}</p>
	{{else}}{{.HTML}}
	{{end}}
	{{end}}
	</div>
	{{else}}
	<p>Ask about your data or to generate a graph.</p>
	{{end}}
	{{range .Pending}}
	<p class="{{.Kind}}">{{.Text}}</p>
	{{end}}
	<form class="chat" method="post" action="/api/chat">
	<input type="text" name="message" autofocus autocomplete="off" placeholder="Ask me about your data or to generate a graph...">
	<button type="submit">Send</button>
	</form>
	<form method="post" action="/api/reset"><button type="submit">New chat</button></form>
	</body>
	</html>
`)))

type pageData struct {
	Title     string
	UserID    string
	SessionID string
	Turns     []pageTurn

	// Pending are notices and errors of the last turn that are not part of the transcript.
	Pending []normalize.Item
}

type pageTurn struct {
	Role  session.Role
	Items []pageItem
}

type pageItem struct {
	Kind     normalize.Kind
	Text     string
	HTML     template.HTML
	ImageURI template.URL
	Caption  string
}

// dataURI returns ref as a base64 data URI.
func dataURI(ref *normalize.ImageRef) template.URL {
	return template.URL("data:" + ref.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(ref.Data))
}

func (s *Server) pageItems(items []normalize.Item) []pageItem {
	out := make([]pageItem, 0, len(items))
	for _, it := range items {
		pi := pageItem{Kind: it.Kind, Text: it.Text, Caption: it.Caption}
		switch it.Kind {
		case normalize.KindImage:
			pi.ImageURI = dataURI(it.Image)
		case normalize.KindText:
			pi.HTML = s.markdown(it.Text)
		}
		out = append(out, pi)
	}
	return out
}

// markdown renders text to HTML. Raw HTML in text is escaped.
func (s *Server) markdown(text string) template.HTML {
	buf := pool.Buffer.Get()
	defer pool.Buffer.Put(buf)

	if err := s.md.Convert([]byte(text), buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}
