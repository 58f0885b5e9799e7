// Package api provides the operations HTTP server of PetDiary.
//
// It exposes a health check and store statistics. The bot itself talks to
// users through the messaging transport, not through this API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BTreeMap/PetDiary/internal/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server timeouts
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Server serves the operations endpoints.
type Server struct {
	st      store.Store
	started time.Time
	http    *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, st store.Store) *Server {
	s := &Server{st: st, started: time.Now()}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Get("/stats", s.statsHandler)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusNotFound, Error("Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusMethodNotAllowed, Error("Method not allowed"))
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server.Run shutdown failed", "error", err)
		return err
	}
	slog.Info("API server stopped")
	return nil
}
