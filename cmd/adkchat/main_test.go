// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/adkchat/chat"
	"github.com/go-a2a/adkchat/config"
	"github.com/go-a2a/adkchat/types"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "adkchat.yaml")
	content := "backend: demo\nimage_dir: " + filepath.Join(dir, "images") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunAsk(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ADKCHAT_BACKEND", "")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", writeConfig(t, dir), "ask", "plot", "rows"}, nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v, stderr = %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "orders") {
		t.Errorf("output does not list the catalog:\n%s", out)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "images", "*graph.svg"))
	if len(matches) != 1 {
		t.Errorf("chart files = %v, want one", matches)
	}
}

func TestRunChat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("which tables?\n/quit\n")
	if err := run(context.Background(), []string{"-config", writeConfig(t, dir), "chat"}, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "customers") {
		t.Errorf("output does not list the catalog:\n%s", stdout.String())
	}
}

func TestRunUsage(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := writeConfig(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: []string{"-config", cfg}},
		{name: "unknown command", args: []string{"-config", cfg, "dance"}},
		{name: "ask without message", args: []string{"-config", cfg, "ask"}},
		{name: "bad flag", args: []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), tt.args, nil, &stdout, &stderr); err == nil {
				t.Error("run() error = nil, want error")
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-version"}, nil, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if strings.TrimSpace(stdout.String()) == "" {
		t.Error("version output is empty")
	}
}

func TestWebServer(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	cfg := config.Default()
	cfg.Backend = config.BackendDemo
	cfg.Web = config.Web{Title: "Sales data", AllowedOrigins: []string{"http://localhost:3000"}}

	b, err := newBackend(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("newBackend() error = %v", err)
	}
	defer b.Close()
	handler := chat.NewHandler(b.agent, chat.WithArtifactLoader(b.artifacts), chat.WithLogger(logger))

	srv := httptest.NewServer(newWebServer(handler, cfg, logger).Handler())
	defer srv.Close()
	client := srv.Client()
	if client.Jar, err = cookiejar.New(nil); err != nil {
		t.Fatal(err)
	}

	t.Run("title", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "<title>Sales data</title>") {
			t.Errorf("page does not carry the configured title:\n%s", body)
		}
	})

	t.Run("cors", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/chat", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
		}
	})

	t.Run("artifacts", func(t *testing.T) {
		resp, err := client.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"message":"plot rows"}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		resp, err = client.Get(srv.URL + "/api/artifacts")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var got struct {
			Artifacts []types.ArtifactInfo `json:"artifacts"`
		}
		if err := json.UnmarshalRead(resp.Body, &got); err != nil {
			t.Fatal(err)
		}
		want := []types.ArtifactInfo{{Name: "graph.svg", Versions: []int{0}}}
		if diff := cmp.Diff(want, got.Artifacts); diff != "" {
			t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
		}
	})
}
