package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/seralt/spamtutor/internal/chat"
	"github.com/seralt/spamtutor/internal/config"
	"github.com/seralt/spamtutor/internal/store"
)

// HealthHandler reports API, database, and completion upstream health. The
// client polls it to drive the status indicator.
type HealthHandler struct {
	repo store.Repository
	chat *chat.Service
	cfg  *config.Config
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo store.Repository, chatSvc *chat.Service, cfg *config.Config) *HealthHandler {
	return &HealthHandler{repo: repo, chat: chatSvc, cfg: cfg}
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	healthCheckTimeout := 5 * time.Second
	if h.cfg != nil && h.cfg.HealthCheckTimeout > 0 {
		healthCheckTimeout = h.cfg.HealthCheckTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	checks := status["checks"].(map[string]string)
	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	// Upstream status is informational: fallback replies keep the chat flow
	// working, so an erroring upstream does not degrade overall health.
	checks["upstream"] = string(h.chat.Status())

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/api/health", h.Health)
}
