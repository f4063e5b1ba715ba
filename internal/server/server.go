// Package server exposes the HTTP facade: health checks, text/voice question
// answering, usage queries and generated-audio downloads.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"eco-assistant/internal/application"
	"eco-assistant/internal/domain"
)

// UsageStore serves the read-only usage endpoints.
type UsageStore interface {
	UsageForDay(userID string, day time.Time) (*domain.ElectricityUsage, error)
	CommunityStatsForDay(day time.Time) (*domain.CommunityStats, error)
}

// AskService answers text and voice questions.
type AskService interface {
	Ask(ctx context.Context, text, userID string) (application.Answer, error)
	AskAudio(ctx context.Context, upload io.Reader, filename, userID string) (string, application.Answer, error)
}

// BaseURLFunc derives the public base URL for audio links from the incoming
// request (hosted deployments) or ignores it (static local URL).
type BaseURLFunc func(r *http.Request) string

type Server struct {
	addr     string
	server   *http.Server
	router   *mux.Router
	svc      AskService
	usage    UsageStore
	audioDir string
	baseURL  BaseURLFunc
	limiter  *RateLimiter
	logger   *slog.Logger
	mu       sync.Mutex
	running  bool
}

func New(addr string, svc AskService, usage UsageStore, audioDir string, baseURL BaseURLFunc, logger *slog.Logger) *Server {
	s := &Server{
		addr:     addr,
		svc:      svc,
		usage:    usage,
		audioDir: audioDir,
		baseURL:  baseURL,
		limiter:  NewRateLimiter(30, time.Minute),
		logger:   logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/text_ask", s.limiter.Middleware(s.handleTextAsk)).Methods(http.MethodPost)
	api.HandleFunc("/transcribe", s.limiter.Middleware(s.handleTranscribe)).Methods(http.MethodPost)
	api.HandleFunc("/usage/community/today", s.handleCommunityToday).Methods(http.MethodGet)
	api.HandleFunc("/usage/user/{user_id}/today", s.handleUserUsageToday).Methods(http.MethodGet)

	// Catch-all for generated answer audio; registered last so the routes
	// above win.
	r.HandleFunc("/{filename}", s.handleAudioFile).Methods(http.MethodGet)

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("HTTP server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}

	s.running = false
	return nil
}
