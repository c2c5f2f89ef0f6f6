// Package server exposes the chat core over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/edi/docchat/internal/metrics"
	"github.com/edi/docchat/pkg/chat"
)

// Server is the HTTP API server
type Server struct {
	options   Options
	server    *http.Server
	orch      *chat.Orchestrator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	startTime time.Time
}

// New creates a new API server
func New(options Options, orch *chat.Orchestrator, m *metrics.Metrics, logger zerolog.Logger) (*Server, error) {
	if options.Port == 0 {
		options.Port = 8080
	}
	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if options.MaxUploadMB == 0 {
		options.MaxUploadMB = 20
	}

	if orch == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}

	return &Server{
		options:   options,
		orch:      orch,
		metrics:   m,
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// Handler builds the full HTTP handler, including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/chat/{sessionID}", s.handleSendMessage)
	mux.HandleFunc("GET /api/chat/{sessionID}/ws", s.handleChatSocket)
	mux.HandleFunc("GET /api/chat/session/{sessionID}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/chat/session/{sessionID}", s.handleDeleteSession)

	return s.withRequestID(s.withCORS(mux))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: s.Handler(),
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Msg("Starting API server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}

	s.logger.Info().Msg("API server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Seconds(),
		"timestamp": time.Now().UnixMilli(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
