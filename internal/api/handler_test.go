package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/seralt/spamtutor/internal/chat"
	"github.com/seralt/spamtutor/internal/identity"
	"github.com/seralt/spamtutor/internal/quiz"
	"github.com/seralt/spamtutor/internal/store"
	"github.com/seralt/spamtutor/internal/tutorial"
)

const testLearnerID = "0b2f1e64-0000-4000-8000-000000000001"

// newTestRouter builds the API with a real SQLite store in a temp dir and a
// fixed learner identity.
func newTestRouter(t *testing.T, completer chat.Completer) (chi.Router, *chat.Service) {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	chatSvc := chat.NewService(completer, repo)
	h := NewHandler(repo, tutorial.NewCatalog(), quiz.NewBank(), chatSvc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(identity.WithLearnerID(req.Context(), testLearnerID)))
		})
	})
	h.RegisterRoutes(r)
	return r, chatSvc
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, "nope")

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["error"] != "nope" {
		t.Errorf("Expected error=nope, got %v", got["error"])
	}
}
