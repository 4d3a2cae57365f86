package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seralt/spamtutor/internal/tutorial"
)

type sectionView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Parent     string `json:"parent,omitempty"`
	Order      int    `json:"order"`
	Accessible bool   `json:"accessible"`
	Completed  bool   `json:"completed"`
}

// HandleListSections returns the course outline with per-learner
// accessibility and completion flags. Content is omitted here; it is served
// by the goto endpoint once a section is unlocked.
func (h *Handler) HandleListSections(w http.ResponseWriter, r *http.Request) {
	tracker, err := h.tracker(r)
	if err != nil {
		slog.Error("Failed to load progress", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	var views []sectionView
	for _, ch := range h.catalog.Chapters() {
		views = append(views, sectionView{
			ID:         ch.ID,
			Title:      ch.Title,
			Order:      ch.Order,
			Accessible: tracker.Accessible(ch.ID),
		})
		for _, sec := range h.catalog.Children(ch.ID) {
			views = append(views, sectionView{
				ID:         sec.ID,
				Title:      sec.Title,
				Parent:     sec.Parent,
				Order:      sec.Order,
				Accessible: tracker.Accessible(sec.ID),
				Completed:  tracker.Completed(sec.ID),
			})
		}
	}

	JSON(w, http.StatusOK, map[string]any{"sections": views})
}

// HandleGoTo validates a navigation request and returns the section body
// when the learner may enter it. Rejections change no state.
func (h *Handler) HandleGoTo(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "id")

	tracker, err := h.tracker(r)
	if err != nil {
		slog.Error("Failed to load progress", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	sec, err := tracker.GoTo(sectionID)
	if err != nil {
		switch {
		case errors.Is(err, tutorial.ErrUnknownSection):
			Error(w, http.StatusNotFound, "unknown section")
		case errors.Is(err, tutorial.ErrSectionLocked):
			Error(w, http.StatusForbidden, "complete the previous section")
		default:
			Error(w, http.StatusInternalServerError, "navigation failed")
		}
		return
	}

	JSON(w, http.StatusOK, map[string]any{"section": sec})
}
