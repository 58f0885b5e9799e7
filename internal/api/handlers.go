package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const storeTimeout = 5 * time.Second

// healthHandler reports liveness and whether the store answers (GET /health).
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}
	statusCode := http.StatusOK
	if _, err := s.st.Stats(ctx); err != nil {
		slog.Warn("Health check: store unavailable", "error", err)
		healthData["status"] = "degraded"
		healthData["error"] = "Store unavailable"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, statusCode, healthData)
}

// statsHandler returns entity totals and the pending reminder count (GET /stats).
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("statsHandler invoked", "method", r.Method, "path", r.URL.Path)
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	stats, err := s.st.Stats(ctx)
	if err != nil {
		slog.Error("Error fetching stats in statsHandler", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, Error("Failed to fetch stats"))
		return
	}
	writeJSONResponse(w, http.StatusOK, Success(stats))
}
