// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agentengine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1beta1"
	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/pkg/logging"
)

// Class methods of a deployed ADK application.
const (
	MethodCreateSession = "create_session"
	MethodStreamQuery   = "stream_query"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// chunkStream is the receiving side of a stream query.
type chunkStream interface {
	Recv() (*httpbody.HttpBody, error)
}

// executor is the subset of the reasoning engine execution API the client uses.
type executor interface {
	query(ctx context.Context, req *aiplatformpb.QueryReasoningEngineRequest) (*aiplatformpb.QueryReasoningEngineResponse, error)
	streamQuery(ctx context.Context, req *aiplatformpb.StreamQueryReasoningEngineRequest) (chunkStream, error)
	Close() error
}

type gapicExecutor struct {
	client *aiplatform.ReasoningEngineExecutionClient
}

func (g gapicExecutor) query(ctx context.Context, req *aiplatformpb.QueryReasoningEngineRequest) (*aiplatformpb.QueryReasoningEngineResponse, error) {
	return g.client.QueryReasoningEngine(ctx, req)
}

func (g gapicExecutor) streamQuery(ctx context.Context, req *aiplatformpb.StreamQueryReasoningEngineRequest) (chunkStream, error) {
	return g.client.StreamQueryReasoningEngine(ctx, req)
}

func (g gapicExecutor) Close() error {
	return g.client.Close()
}

// Client calls the class methods of one deployed reasoning engine.
type Client struct {
	exec     executor
	resource string
	logger   *slog.Logger
}

// ResourceName returns the full reasoning engine resource name.
//
// engine is either a full "projects/…/locations/…/reasoningEngines/…" name, which
// is returned unchanged, or a bare engine ID.
func ResourceName(projectID, location, engine string) (string, error) {
	if engine == "" {
		return "", errors.New("agent engine resource is required")
	}
	if strings.HasPrefix(engine, "projects/") {
		parts := strings.Split(engine, "/")
		if len(parts) != 6 || parts[2] != "locations" || parts[4] != "reasoningEngines" {
			return "", fmt.Errorf("malformed reasoning engine name %q", engine)
		}
		return engine, nil
	}
	if projectID == "" {
		return "", errors.New("projectID is required")
	}
	if location == "" {
		return "", errors.New("location is required")
	}
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", projectID, location, engine), nil
}

// locationOf returns the location segment of a reasoning engine resource name.
func locationOf(resource string) string {
	return strings.Split(resource, "/")[3]
}

// NewClient creates a new [Client] for the reasoning engine engine.
//
// Requests go to the regional endpoint of the engine location. Application Default
// Credentials are used unless opts carry credentials.
func NewClient(ctx context.Context, projectID, location, engine string, opts ...option.ClientOption) (*Client, error) {
	resource, err := ResourceName(projectID, location, engine)
	if err != nil {
		return nil, err
	}

	if len(opts) == 0 {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{cloudPlatformScope},
		})
		if err != nil {
			return nil, fmt.Errorf("get credentials for agent engine: %w", err)
		}
		opts = append(opts, option.WithAuthCredentials(creds))
	}
	endpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", locationOf(resource))
	opts = append([]option.ClientOption{option.WithEndpoint(endpoint)}, opts...)

	client, err := aiplatform.NewReasoningEngineExecutionClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning engine execution client: %w", err)
	}

	c := newClient(gapicExecutor{client: client}, resource, logging.FromContext(ctx))
	c.logger.InfoContext(ctx, "Agent engine client initialized",
		slog.String("resource", resource),
		slog.String("endpoint", endpoint),
	)

	return c, nil
}

func newClient(exec executor, resource string, logger *slog.Logger) *Client {
	return &Client{
		exec:     exec,
		resource: resource,
		logger:   logger,
	}
}

// Resource returns the reasoning engine resource name.
func (c *Client) Resource() string {
	return c.resource
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if err := c.exec.Close(); err != nil {
		return fmt.Errorf("failed to close reasoning engine execution client: %w", err)
	}
	return nil
}

// Query calls classMethod with input and returns its output as a Go value.
func (c *Client) Query(ctx context.Context, classMethod string, input map[string]any) (any, error) {
	in, err := structpb.NewStruct(input)
	if err != nil {
		return nil, fmt.Errorf("encode %s input: %w", classMethod, err)
	}

	resp, err := c.exec.query(ctx, &aiplatformpb.QueryReasoningEngineRequest{
		Name:        c.resource,
		Input:       in,
		ClassMethod: classMethod,
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", classMethod, err)
	}

	return resp.GetOutput().AsInterface(), nil
}

// CreateSession creates a session for userID and returns its ID.
//
// Agent Engine assigns session IDs itself, so sessionID is only a hint recorded in the
// session state.
func (c *Client) CreateSession(ctx context.Context, userID, sessionID string) (string, error) {
	input := map[string]any{
		"user_id": userID,
	}
	if sessionID != "" {
		input["state"] = map[string]any{"client_session_id": sessionID}
	}

	out, err := c.Query(ctx, MethodCreateSession, input)
	if err != nil {
		return "", err
	}

	sess, _ := out.(map[string]any)
	id, _ := sess["id"].(string)
	if id == "" {
		return "", fmt.Errorf("%s returned no session id", MethodCreateSession)
	}

	c.logger.InfoContext(ctx, "Session created",
		slog.String("user_id", userID),
		slog.String("session_id", id),
	)

	return id, nil
}

// Run sends message as the next user turn of the session and returns every event
// of the agent turn once the stream ends.
func (c *Client) Run(ctx context.Context, userID, sessionID, message string) ([]normalize.Event, error) {
	in, err := structpb.NewStruct(map[string]any{
		"message":    message,
		"user_id":    userID,
		"session_id": sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s input: %w", MethodStreamQuery, err)
	}

	start := time.Now()
	stream, err := c.exec.streamQuery(ctx, &aiplatformpb.StreamQueryReasoningEngineRequest{
		Name:        c.resource,
		Input:       in,
		ClassMethod: MethodStreamQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("stream query: %w", err)
	}

	var dec eventDecoder
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("receive stream query chunk: %w", err)
		}
		dec.Write(chunk.GetData())
	}
	dec.Flush()

	for _, line := range dec.Skipped() {
		c.logger.WarnContext(ctx, "Skipped undecodable stream line",
			slog.String("session_id", sessionID),
			slog.String("line", line),
		)
	}
	c.logger.DebugContext(ctx, "Stream query completed",
		slog.String("session_id", sessionID),
		slog.Int("events", len(dec.Events())),
		slog.Duration("elapsed", time.Since(start)),
	)

	return dec.Events(), nil
}
