// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"

	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/types"
)

const runReply = `[
  {
    "id": "e1",
    "author": "data_agent",
    "content": {"role": "model", "parts": [{"text": "Here is the chart."}]},
    "actions": {"artifactDelta": {"graph.svg": 0}}
  },
  {
    "id": "e2",
    "author": "viz_agent",
    "content": {"parts": [{"functionResponse": {"name": "render", "response": {"inline_data": {"mime_type": "image/svg+xml", "data": "<svg></svg>"}}}}]}
  }
]`

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", "data_agent_viz", opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClientRun(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /run", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode run request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, runReply)
	})
	c := newTestClient(t, mux)

	events, err := c.Run(context.Background(), "u1", "s1", "plot sales")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantReq := map[string]any{
		"app_name":   "data_agent_viz",
		"user_id":    "u1",
		"session_id": "s1",
		"streaming":  false,
		"new_message": map[string]any{
			"role":  "user",
			"parts": []any{map[string]any{"text": "plot sales"}},
		},
	}
	if diff := cmp.Diff(wantReq, got); diff != "" {
		t.Errorf("run request mismatch (-want +got):\n%s", diff)
	}

	if len(events) != 2 {
		t.Fatalf("Run() returned %d events, want 2", len(events))
	}
	if diff := cmp.Diff(map[string]int{"graph.svg": 0}, events[0].ArtifactDelta); diff != "" {
		t.Errorf("ArtifactDelta mismatch (-want +got):\n%s", diff)
	}
	items := normalize.Render(normalize.Flatten(events))
	if len(items) != 2 || items[0].Kind != normalize.KindText || items[1].Kind != normalize.KindImage {
		t.Errorf("rendered items = %+v, want text then image", items)
	}
}

func TestClientCreateSession(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		want   string
	}{
		{name: "server id", status: http.StatusOK, reply: `{"id":"s1","appName":"data_agent_viz","userId":"u1","state":{}}`, want: "s1"},
		{name: "empty reply", status: http.StatusOK, reply: `{}`, want: "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.reply)
			}))

			got, err := c.CreateSession(context.Background(), "u1", "s1")
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CreateSession() = %q, want %q", got, tt.want)
			}
			if want := "/apps/data_agent_viz/users/u1/sessions/s1"; path != want {
				t.Errorf("request path = %q, want %q", path, want)
			}
		})
	}
}

func TestClientStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session not found", http.StatusNotFound)
	}))

	_, err := c.Run(context.Background(), "u1", "s1", "hi")
	var se *types.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Run() error = %v, want *types.StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Body != "session not found" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestClientLoadArtifact(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/data_agent_viz/users/u1/sessions/s1/artifacts/graph.svg", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"inlineData":{"mimeType":"image/svg+xml","data":"PHN2Zz48L3N2Zz4="}}`)
	})
	mux.HandleFunc("GET /apps/data_agent_viz/users/u1/sessions/s2/artifacts/graph.svg", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	got, err := c.LoadArtifact(ctx, "u1", "s1", "graph.svg")
	if err != nil {
		t.Fatalf("LoadArtifact() error = %v", err)
	}
	want := &normalize.Part{
		InlineData: &normalize.Blob{
			MIMEType:    "image/svg+xml",
			Data:        []byte("PHN2Zz48L3N2Zz4="),
			Encoded:     true,
			DisplayName: "graph.svg",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadArtifact() mismatch (-want +got):\n%s", diff)
	}

	for _, sid := range []string{"s2", "s3"} {
		got, err := c.LoadArtifact(ctx, "u1", sid, "graph.svg")
		if err != nil || got != nil {
			t.Errorf("LoadArtifact(%s) = (%+v, %v), want (nil, nil)", sid, got, err)
		}
	}
}

func TestClientListArtifacts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/data_agent_viz/users/u1/sessions/s1/artifacts", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `["graph.svg","data.csv"]`)
	})
	mux.HandleFunc("GET /apps/data_agent_viz/users/u1/sessions/s1/artifacts/graph.svg/versions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[1,0]`)
	})
	mux.HandleFunc("GET /apps/data_agent_viz/users/u1/sessions/s1/artifacts/data.csv/versions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[0]`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	got, err := c.ListArtifacts(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("ListArtifacts() error = %v", err)
	}
	want := []types.ArtifactInfo{
		{Name: "data.csv", Versions: []int{0}},
		{Name: "graph.svg", Versions: []int{0, 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListArtifacts() mismatch (-want +got):\n%s", diff)
	}

	missing, err := c.ListArtifacts(ctx, "u1", "s2")
	if err != nil {
		t.Fatalf("ListArtifacts(missing session) error = %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("ListArtifacts(missing session) = %+v, want none", missing)
	}
}

func TestClientTokenSource(t *testing.T) {
	var auth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	}), WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"})))

	if _, err := c.Run(context.Background(), "u1", "s1", "hi"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if auth != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer tok")
	}
}

func TestNewClientValidation(t *testing.T) {
	for _, tt := range []struct{ base, app string }{
		{"", "app"},
		{"http://localhost:8000", ""},
		{"localhost:8000", "app"},
	} {
		if _, err := NewClient(tt.base, tt.app); err == nil {
			t.Errorf("NewClient(%q, %q) error = nil, want error", tt.base, tt.app)
		}
	}
}
