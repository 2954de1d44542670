// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adkapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"

	"github.com/go-a2a/adkchat/internal/pool"
	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/types"
)

// DefaultTimeout bounds one request, which for /run spans the whole agent turn.
const DefaultTimeout = 5 * time.Minute

// maxErrorBody bounds the response body kept in a [types.StatusError].
const maxErrorBody = 512

// Client talks to one application of an ADK API server.
type Client struct {
	baseURL     string
	appName     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	logger      *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource authorizes every request with tokens from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithLogger sets the logger for the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a [Client] for the application appName served at baseURL.
func NewClient(baseURL, appName string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("adkapi: base URL is required")
	}
	if appName == "" {
		return nil, errors.New("adkapi: app name is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("adkapi: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("adkapi: unsupported URL scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appName: appName,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.tokenSource != nil {
		hc := *c.httpClient
		hc.Transport = &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, c.tokenSource),
			Base:   c.httpClient.Transport,
		}
		c.httpClient = &hc
	}

	return c, nil
}

// NewIDTokenClient returns a [Client] authenticating with Google-signed ID tokens,
// as required by Cloud Run services that do not allow unauthenticated access.
//
// An empty audience defaults to baseURL.
func NewIDTokenClient(ctx context.Context, baseURL, appName, audience string, opts ...Option) (*Client, error) {
	if audience == "" {
		audience = baseURL
	}
	ts, err := idtoken.NewTokenSource(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("adkapi: create ID token source: %w", err)
	}
	return NewClient(baseURL, appName, append(opts, WithTokenSource(ts))...)
}

// AppName returns the application the client talks to.
func (c *Client) AppName() string {
	return c.appName
}

type sessionResponse struct {
	ID string `json:"id"`
}

// CreateSession creates the session sessionID for userID and returns the ID the
// server assigned to it.
func (c *Client) CreateSession(ctx context.Context, userID, sessionID string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.sessionPath(userID, sessionID), []byte("{}"))
	if err != nil {
		return "", err
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("adkapi: decode session: %w", err)
	}
	if resp.ID == "" {
		resp.ID = sessionID
	}

	c.logger.InfoContext(ctx, "Session created",
		slog.String("user_id", userID),
		slog.String("session_id", resp.ID),
	)

	return resp.ID, nil
}

type textPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string     `json:"role"`
	Parts []textPart `json:"parts"`
}

type runRequest struct {
	AppName    string  `json:"app_name"`
	UserID     string  `json:"user_id"`
	SessionID  string  `json:"session_id"`
	NewMessage content `json:"new_message"`
	Streaming  bool    `json:"streaming"`
}

// Run sends message as the next user turn of the session and returns every event
// of the agent turn.
func (c *Client) Run(ctx context.Context, userID, sessionID, message string) ([]normalize.Event, error) {
	req, err := json.Marshal(runRequest{
		AppName:   c.appName,
		UserID:    userID,
		SessionID: sessionID,
		NewMessage: content{
			Role:  "user",
			Parts: []textPart{{Text: message}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("adkapi: encode run request: %w", err)
	}

	start := time.Now()
	body, err := c.do(ctx, http.MethodPost, "/run", req)
	if err != nil {
		return nil, err
	}

	events, err := normalize.DecodeEvents(body)
	if err != nil {
		return nil, fmt.Errorf("adkapi: %w", err)
	}

	c.logger.DebugContext(ctx, "Run completed",
		slog.String("session_id", sessionID),
		slog.Int("events", len(events)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return events, nil
}

// LoadArtifact returns the latest version of the session artifact filename, or nil
// if the server has no such artifact.
func (c *Client) LoadArtifact(ctx context.Context, userID, sessionID, filename string) (*normalize.Part, error) {
	path := c.sessionPath(userID, sessionID) + "/artifacts/" + url.PathEscape(filename)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		var se *types.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("adkapi: decode artifact %q: %w", filename, err)
	}
	if m == nil {
		return nil, nil
	}

	part := normalize.PartFromMap(m)
	if part.IsZero() {
		return nil, nil
	}
	if part.InlineData != nil && part.InlineData.DisplayName == "" {
		part.InlineData.DisplayName = filename
	}
	return &part, nil
}

// ListArtifacts returns the artifacts of the session with their versions, sorted by
// name.
func (c *Client) ListArtifacts(ctx context.Context, userID, sessionID string) ([]types.ArtifactInfo, error) {
	path := c.sessionPath(userID, sessionID) + "/artifacts"

	var names []string
	if err := c.getJSON(ctx, path, &names); err != nil {
		var se *types.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return []types.ArtifactInfo{}, nil
		}
		return nil, err
	}
	slices.Sort(names)

	infos := make([]types.ArtifactInfo, 0, len(names))
	for _, name := range names {
		var versions []int
		if err := c.getJSON(ctx, path+"/"+url.PathEscape(name)+"/versions", &versions); err != nil {
			return nil, err
		}
		slices.Sort(versions)
		infos = append(infos, types.ArtifactInfo{Name: name, Versions: versions})
	}
	return infos, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("adkapi: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) sessionPath(userID, sessionID string) string {
	return fmt.Sprintf("/apps/%s/users/%s/sessions/%s",
		url.PathEscape(c.appName), url.PathEscape(userID), url.PathEscape(sessionID))
}

// do sends a request and returns the response body of a successful reply.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("adkapi: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adkapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	buf := pool.Buffer.Get()
	defer pool.Buffer.Put(buf)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("adkapi: read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(buf.String())
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &types.StatusError{
			Method:     method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       msg,
		}
	}

	return bytes.Clone(buf.Bytes()), nil
}
