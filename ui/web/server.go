// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/yuin/goldmark"

	"github.com/go-a2a/adkchat/chat"
	"github.com/go-a2a/adkchat/normalize"
	"github.com/go-a2a/adkchat/session"
	"github.com/go-a2a/adkchat/types"
)

// CookieName is the name of the cookie carrying the browser session key.
const CookieName = "adkchat_session"

// maxRequestBody bounds the size of a chat request.
const maxRequestBody = 1 << 20

// Turner runs one chat turn.
type Turner interface {
	Turn(ctx context.Context, c *session.Chat, text string) []normalize.Item
}

// ArtifactLister lists the artifacts of a chat. A [Turner] implementing it serves
// GET /api/artifacts.
type ArtifactLister interface {
	Artifacts(ctx context.Context, c *session.Chat) ([]types.ArtifactInfo, error)
}

// Server is the web chat.
type Server struct {
	turner  Turner
	chats   *session.Store
	router  *mux.Router
	md      goldmark.Markdown
	title   string
	origins []string
	logger  *slog.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithAllowedOrigins allows cross-origin API requests from origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithLogger sets the logger for the [Server].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New returns a [Server] running turns with turner and keeping chats in chats.
func New(turner Turner, chats *session.Store, opts ...Option) *Server {
	s := &Server{
		turner: turner,
		chats:  chats,
		router: mux.NewRouter(),
		md:     goldmark.New(),
		title:  "Data Agent",
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	api.HandleFunc("/transcript", s.handleTranscript).Methods(http.MethodGet)
	api.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/artifacts", s.handleArtifacts).Methods(http.MethodGet)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	if len(s.origins) == 0 {
		return s.router
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// ListenAndServe serves the chat on addr until ctx is done, pruning chats idle for
// longer than idle.
func (s *Server) ListenAndServe(ctx context.Context, addr string, idle time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.pruneLoop(ctx, idle)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shut down web server", slog.String("error", err.Error()))
		}
	}()

	s.logger.InfoContext(ctx, "Web chat listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) pruneLoop(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.chats.Prune(ctx, now.Add(-idle))
		}
	}
}

// chatFor returns the chat of the requesting browser, setting the session cookie
// when a new key was issued.
func (s *Server) chatFor(w http.ResponseWriter, r *http.Request) (string, *session.Chat) {
	var key string
	if ck, err := r.Cookie(CookieName); err == nil {
		key = ck.Value
	}

	newKey, c := s.chats.GetOrCreate(r.Context(), key)
	if newKey != key {
		s.setCookie(w, newKey)
	}
	return newKey, c
}

func (s *Server) setCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	_, c := s.chatFor(w, r)
	s.renderPage(w, r, c, nil)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, c *session.Chat, pending []normalize.Item) {
	data := pageData{
		Title:     s.title,
		UserID:    c.UserID,
		SessionID: c.SessionID,
		Pending:   pending,
	}
	for _, turn := range c.Transcript() {
		data.Turns = append(data.Turns, pageTurn{Role: turn.Role, Items: s.pageItems(turn.Items())})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render page", slog.String("error", err.Error()))
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	Items     []normalize.Item `json:"items"`
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req chatRequest
	if isJSON(r) {
		if err := json.UnmarshalRead(r.Body, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		req.Message = r.PostForm.Get("message")
	}
	req.Message = strings.TrimSpace(req.Message)

	_, c := s.chatFor(w, r)
	if req.Message == "" {
		if !isJSON(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	items := s.turner.Turn(r.Context(), c, req.Message)

	if !isJSON(r) {
		var pending []normalize.Item
		for _, it := range items {
			if it.Kind == normalize.KindNotice || it.Kind == normalize.KindError {
				pending = append(pending, it)
			}
		}
		s.renderPage(w, r, c, pending)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		UserID:    c.UserID,
		SessionID: c.SessionID,
		Items:     items,
	})
}

type transcriptTurn struct {
	Role  session.Role     `json:"role"`
	Items []normalize.Item `json:"items"`
}

type transcriptResponse struct {
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	Turns     []transcriptTurn `json:"turns"`
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	_, c := s.chatFor(w, r)

	resp := transcriptResponse{
		UserID:    c.UserID,
		SessionID: c.SessionID,
		Turns:     []transcriptTurn{},
	}
	for _, turn := range c.Transcript() {
		resp.Turns = append(resp.Turns, transcriptTurn{Role: turn.Role, Items: turn.Items()})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type resetResponse struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	key, _ := s.chatFor(w, r)
	c := s.chats.Reset(r.Context(), key)

	if !isJSON(r) && r.Header.Get("Accept") != "application/json" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.writeJSON(w, http.StatusOK, resetResponse{UserID: c.UserID, SessionID: c.SessionID})
}

type artifactsResponse struct {
	SessionID string               `json:"session_id"`
	Artifacts []types.ArtifactInfo `json:"artifacts"`
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.turner.(ArtifactLister)
	if !ok {
		s.writeError(w, http.StatusNotFound, "artifacts are not available")
		return
	}

	_, c := s.chatFor(w, r)
	infos, err := lister.Artifacts(r.Context(), c)
	switch {
	case errors.Is(err, chat.ErrNoArtifacts):
		s.writeError(w, http.StatusNotFound, "artifacts are not available")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Failed to list artifacts", slog.String("error", err.Error()))
		s.writeError(w, http.StatusBadGateway, "failed to list artifacts")
		return
	}
	if infos == nil {
		infos = []types.ArtifactInfo{}
	}

	s.writeJSON(w, http.StatusOK, artifactsResponse{SessionID: c.SessionID, Artifacts: infos})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v); err != nil {
		s.logger.Error("Failed to write response", slog.String("error", err.Error()))
	}
}
