// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the saldo relay: the HTTP boundary that fronts
// the model providers so the chat client never holds an API key.
//
// Endpoints:
//   - POST /api/chat           - Stream a chat response as plain text
//   - POST /api/generate-title - Summarize a conversation into a title
//   - GET  /health             - Health check
//   - GET  /stats              - Usage statistics
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"github.com/morganforge/saldo-tui/internal/relay"
	"github.com/morganforge/saldo-tui/internal/search"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultPort is the default relay port.
	DefaultPort = 8790

	// MaxMessageCount bounds the conversation length per request.
	MaxMessageCount = 100

	// MaxRequestBodySize bounds the request body. Attachments travel as
	// base64 data URLs, so this must comfortably hold a 5MB image.
	MaxRequestBodySize = 16 * 1024 * 1024

	// chatModel answers conversations.
	chatModel = "gemini-2.5-flash"

	// Version is the relay version.
	Version = "0.1.0"
)

// validRoles is the accepted role whitelist for incoming messages.
var validRoles = map[string]bool{
	"user":      true,
	"assistant": true,
	"system":    true,
}

// validateMessages enforces the role whitelist and per-request bounds.
func validateMessages(messages []relay.Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("no messages provided")
	}
	if len(messages) > MaxMessageCount {
		return fmt.Errorf("too many messages: %d (max %d)", len(messages), MaxMessageCount)
	}
	for i, msg := range messages {
		if !validRoles[msg.Role] {
			return fmt.Errorf("invalid role %q at message %d", msg.Role, i)
		}
	}
	return nil
}

// =============================================================================
// SERVER STATS
// =============================================================================

// ServerStats tracks relay usage.
type ServerStats struct {
	ChatRequests   int64
	TitleRequests  int64
	SearchesRun    int64
	FailedRequests int64
	StartTime      time.Time
}

// StatsResponse is the GET /stats body.
type StatsResponse struct {
	ChatRequests   int64 `json:"chat_requests"`
	TitleRequests  int64 `json:"title_requests"`
	SearchesRun    int64 `json:"searches_run"`
	FailedRequests int64 `json:"failed_requests"`
	UptimeSeconds  int64 `json:"uptime_seconds"`
}

// =============================================================================
// SERVER
// =============================================================================

// Config holds relay configuration.
type Config struct {
	// Port to listen on; 0 means DefaultPort.
	Port int

	// GeminiAPIKey is required; the chat endpoint cannot run without it.
	GeminiAPIKey string

	// OpenAIAPIKey is optional; without it the title endpoint returns 503.
	OpenAIAPIKey string

	// EnableSearch turns on the retrieval step for chat requests.
	EnableSearch bool
}

// Server is the relay HTTP server.
type Server struct {
	port         int
	enableSearch bool

	router chi.Router
	server *http.Server

	genaiClient  *genai.Client
	openaiClient *openai.Client
	searcher     *search.Searcher

	stats ServerStats
}

// New creates a relay server and connects the provider clients.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	s := &Server{
		port:         port,
		enableSearch: cfg.EnableSearch,
		genaiClient:  genaiClient,
		searcher:     search.New(genaiClient),
		stats:        ServerStats{StartTime: time.Now()},
	}
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		s.openaiClient = &client
	}

	s.router = s.routes()
	return s, nil
}

// routes builds the chi router with the middleware chain.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(rateLimitMiddleware(newIPRateLimiter()))

	r.Post("/api/chat", s.handleChat)
	r.Post("/api/generate-title", s.handleGenerateTitle)
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	return r
}

// Handler exposes the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// =============================================================================
// HEALTH AND STATS
// =============================================================================

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	TitleBackend string `json:"title_backend"`
	Search       bool   `json:"search"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:  "ok",
		Version: Version,
		Search:  s.enableSearch,
	}
	if s.openaiClient != nil {
		health.TitleBackend = "configured"
	} else {
		health.TitleBackend = "not_configured"
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, StatsResponse{
		ChatRequests:   atomic.LoadInt64(&s.stats.ChatRequests),
		TitleRequests:  atomic.LoadInt64(&s.stats.TitleRequests),
		SearchesRun:    atomic.LoadInt64(&s.stats.SearchesRun),
		FailedRequests: atomic.LoadInt64(&s.stats.FailedRequests),
		UptimeSeconds:  int64(time.Since(s.stats.StartTime).Seconds()),
	})
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// No write timeout: chat responses stream for as long as the
		// model talks.
		IdleTimeout: 120 * time.Second,
	}

	log.Info("relay listening", "addr", addr, "version", Version, "search", s.enableSearch)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info("relay shutting down")
	return s.server.Shutdown(ctx)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	atomic.AddInt64(&s.stats.FailedRequests, 1)
	s.writeJSON(w, status, map[string]string{"error": message})
}
