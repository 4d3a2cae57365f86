package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/seralt/spamtutor/internal/chat"
	"github.com/seralt/spamtutor/internal/config"
	"github.com/seralt/spamtutor/internal/store"
)

func TestHealthHealthy(t *testing.T) {
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	h := NewHealthHandler(repo, chat.NewService(nil, nil), &config.Config{HealthCheckTimeout: 0})

	r := chi.NewRouter()
	h.RegisterHealth(r)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var got struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.Status != "healthy" {
		t.Errorf("Expected status=healthy, got %q", got.Status)
	}
	if got.Checks["database"] != "ok" {
		t.Errorf("Expected database=ok, got %q", got.Checks["database"])
	}
	if got.Checks["upstream"] != "unknown" {
		t.Errorf("Expected upstream=unknown before any send, got %q", got.Checks["upstream"])
	}
}

func TestHealthDegradedWhenDatabaseClosed(t *testing.T) {
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	_ = repo.Close()

	h := NewHealthHandler(repo, chat.NewService(nil, nil), nil)

	r := chi.NewRouter()
	h.RegisterHealth(r)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
}
