// Package api provides HTTP handlers for the spamtutor API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seralt/spamtutor/internal/chat"
	"github.com/seralt/spamtutor/internal/identity"
	"github.com/seralt/spamtutor/internal/quiz"
	"github.com/seralt/spamtutor/internal/store"
	"github.com/seralt/spamtutor/internal/tutorial"
)

// Handler provides common handler utilities and dependencies.
type Handler struct {
	repo           store.Repository
	catalog        *tutorial.Catalog
	bank           *quiz.Bank
	chat           *chat.Service
	chatConfigured bool
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, catalog *tutorial.Catalog, bank *quiz.Bank, chatSvc *chat.Service) *Handler {
	return &Handler{
		repo:           repo,
		catalog:        catalog,
		bank:           bank,
		chat:           chatSvc,
		chatConfigured: chatSvc.Configured(),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Post("/chat/new", h.HandleNewChat)
		r.Post("/checkpoint", h.HandleCheckpoint)
		r.Post("/checkpoint/submit", h.HandleCheckpointSubmit)
		r.Get("/sections", h.HandleListSections)
		r.Post("/sections/{id}/goto", h.HandleGoTo)
	})
}

// tracker builds the progress tracker for the request's learner, loading
// persisted completion state.
func (h *Handler) tracker(r *http.Request) (*tutorial.Tracker, error) {
	learnerID := identity.LearnerIDFromContext(r.Context())
	return tutorial.NewTracker(r.Context(), h.catalog, learnerID, h.repo)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
