// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agentengine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/go-a2a/adkchat/normalize"
)

const resource = "projects/p/locations/us-central1/reasoningEngines/123"

type fakeStream struct {
	chunks []string
	err    error
}

func (s *fakeStream) Recv() (*httpbody.HttpBody, error) {
	if len(s.chunks) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return &httpbody.HttpBody{ContentType: "application/json", Data: []byte(chunk)}, nil
}

type fakeExecutor struct {
	queryReq  *aiplatformpb.QueryReasoningEngineRequest
	queryOut  any
	streamReq *aiplatformpb.StreamQueryReasoningEngineRequest
	stream    *fakeStream
}

func (f *fakeExecutor) query(ctx context.Context, req *aiplatformpb.QueryReasoningEngineRequest) (*aiplatformpb.QueryReasoningEngineResponse, error) {
	f.queryReq = req
	out, err := structpb.NewValue(f.queryOut)
	if err != nil {
		return nil, err
	}
	return &aiplatformpb.QueryReasoningEngineResponse{Output: out}, nil
}

func (f *fakeExecutor) streamQuery(ctx context.Context, req *aiplatformpb.StreamQueryReasoningEngineRequest) (chunkStream, error) {
	f.streamReq = req
	return f.stream, nil
}

func (f *fakeExecutor) Close() error { return nil }

func TestResourceName(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		location  string
		engine    string
		want      string
		wantErr   bool
	}{
		{name: "bare id", projectID: "p", location: "us-central1", engine: "123", want: resource},
		{name: "full name", engine: resource, want: resource},
		{name: "malformed name", engine: "projects/p/reasoningEngines/123", wantErr: true},
		{name: "missing project", location: "us-central1", engine: "123", wantErr: true},
		{name: "missing location", projectID: "p", engine: "123", wantErr: true},
		{name: "missing engine", projectID: "p", location: "us-central1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResourceName(tt.projectID, tt.location, tt.engine)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResourceName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResourceName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientCreateSession(t *testing.T) {
	exec := &fakeExecutor{queryOut: map[string]any{"id": "8271", "user_id": "u1", "app_name": "123"}}
	c := newClient(exec, resource, slog.New(slog.DiscardHandler))

	got, err := c.CreateSession(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if got != "8271" {
		t.Errorf("CreateSession() = %q, want %q", got, "8271")
	}
	if exec.queryReq.GetClassMethod() != MethodCreateSession || exec.queryReq.GetName() != resource {
		t.Errorf("query request = %v", exec.queryReq)
	}
	want := map[string]any{
		"user_id": "u1",
		"state":   map[string]any{"client_session_id": "s1"},
	}
	if diff := cmp.Diff(want, exec.queryReq.GetInput().AsMap()); diff != "" {
		t.Errorf("create_session input mismatch (-want +got):\n%s", diff)
	}

	exec.queryOut = map[string]any{}
	if _, err := c.CreateSession(context.Background(), "u1", ""); err == nil {
		t.Error("CreateSession() without id in output error = nil, want error")
	}
}

func TestClientRun(t *testing.T) {
	exec := &fakeExecutor{
		stream: &fakeStream{chunks: []string{
			`{"author":"data_agent","content":{"parts":[{"text":"Found 3 tables."}]}}` + "\n" + `{"author":"viz_ag`,
			`ent","actions":{"artifact_delta":{"graph.svg":1}}}` + "\n",
			"not json\n",
			`{"author":"data_agent","content":{"parts":[{"text":"Done."}]}}`,
			`{"author":"data_agent","content":{"parts":[{"text":"Bye."}]}}`,
		}},
	}
	c := newClient(exec, resource, slog.New(slog.DiscardHandler))

	events, err := c.Run(context.Background(), "u1", "8271", "list tables")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantInput := map[string]any{"message": "list tables", "user_id": "u1", "session_id": "8271"}
	if diff := cmp.Diff(wantInput, exec.streamReq.GetInput().AsMap()); diff != "" {
		t.Errorf("stream_query input mismatch (-want +got):\n%s", diff)
	}
	if exec.streamReq.GetClassMethod() != MethodStreamQuery {
		t.Errorf("ClassMethod = %q, want %q", exec.streamReq.GetClassMethod(), MethodStreamQuery)
	}

	want := []normalize.Event{
		{Author: "data_agent", Parts: []normalize.Part{{Text: "Found 3 tables."}}},
		{Author: "viz_agent", ArtifactDelta: map[string]int{"graph.svg": 1}},
		{Author: "data_agent", Parts: []normalize.Part{{Text: "Done."}}},
		{Author: "data_agent", Parts: []normalize.Part{{Text: "Bye."}}},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
}

func TestClientRunStreamError(t *testing.T) {
	boom := errors.New("unavailable")
	exec := &fakeExecutor{stream: &fakeStream{chunks: []string{`{"author":"a"}` + "\n"}, err: boom}}
	c := newClient(exec, resource, slog.New(slog.DiscardHandler))

	if _, err := c.Run(context.Background(), "u1", "s1", "hi"); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestEventDecoderFlush(t *testing.T) {
	var dec eventDecoder
	dec.Write([]byte(`[{"author":"a"},{"author":"b"}`))
	dec.Write([]byte(`]`))
	dec.Write([]byte(`{"author":"c"`))
	dec.Flush()

	if got := len(dec.Events()); got != 2 {
		t.Errorf("decoded %d events, want 2", got)
	}
	if diff := cmp.Diff([]string{`{"author":"c"`}, dec.Skipped()); diff != "" {
		t.Errorf("Skipped() mismatch (-want +got):\n%s", diff)
	}
}
