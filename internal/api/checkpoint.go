package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/seralt/spamtutor/internal/chat"
	"github.com/seralt/spamtutor/internal/domain"
	"github.com/seralt/spamtutor/internal/identity"
	"github.com/seralt/spamtutor/internal/quiz"
)

type checkpointRequest struct {
	SectionID string `json:"sectionId"`
}

type submitRequest struct {
	SectionID        string `json:"sectionId"`
	SelectedOptionID string `json:"selectedOptionId"`
	SessionID        string `json:"sessionId,omitempty"`
}

type submitResponse struct {
	Correct      bool   `json:"correct"`
	Question     string `json:"question"`
	SelectedText string `json:"selectedText"`
	CorrectText  string `json:"correctText"`
	NextSection  string `json:"nextSection,omitempty"`
}

// HandleCheckpoint returns the checkpoint question for a section. Unknown
// section ids get the default question; this endpoint never fails past
// request validation.
func (h *Handler) HandleCheckpoint(w http.ResponseWriter, r *http.Request) {
	var req checkpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SectionID == "" {
		Error(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	JSON(w, http.StatusOK, h.bank.Lookup(req.SectionID))
}

// HandleCheckpointSubmit grades an answer, updates the learner's progress,
// and on an incorrect answer queues a remediation message for the chat
// assistant. An incorrect answer re-locks the section, uniformly for all
// sections.
func (h *Handler) HandleCheckpointSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SectionID == "" {
		Error(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	ev := quiz.NewEvaluator(quiz.NewBankSource(h.bank), h.bank)
	ev.Load(r.Context(), req.SectionID)

	res, err := ev.Submit(req.SelectedOptionID)
	if err != nil {
		if errors.Is(err, quiz.ErrNoSelection) {
			Error(w, http.StatusBadRequest, "Selected option ID is required")
			return
		}
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tracker, err := h.tracker(r)
	if err != nil {
		slog.Error("Failed to load progress", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	if err := tracker.MarkCompleted(r.Context(), req.SectionID, res.Correct); err != nil {
		slog.Error("Failed to update progress", "section_id", req.SectionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to update progress")
		return
	}

	learnerID := identity.LearnerIDFromContext(r.Context())
	choice := &domain.Choice{
		SectionID:  req.SectionID,
		Question:   res.Question,
		SelectedID: res.SelectedID,
		Correct:    res.Correct,
		CreatedAt:  time.Now(),
	}
	if err := h.repo.SaveChoice(r.Context(), learnerID, choice); err != nil {
		// Answer history is ancillary; the grading result still stands.
		slog.Warn("Failed to record choice", "section_id", req.SectionID, "error", err)
	}

	resp := submitResponse{
		Correct:      res.Correct,
		Question:     res.Question,
		SelectedText: res.SelectedText,
		CorrectText:  res.CorrectText,
	}
	if res.Correct {
		if next, ok := tracker.NextSection(req.SectionID); ok {
			resp.NextSection = next
		}
	} else if req.SessionID != "" {
		h.chat.Enqueue(req.SessionID, remediationMessage(res), chat.Context{
			CurrentSection:         req.SectionID,
			LastCheckpointQuestion: res.Question,
		})
	}

	JSON(w, http.StatusOK, resp)
}

// remediationMessage builds the auto-generated chat prompt sent on behalf
// of the learner after a wrong answer.
func remediationMessage(res quiz.Result) string {
	return fmt.Sprintf(
		"I answered the checkpoint question for section %s incorrectly. The question was: %q. "+
			"I chose %q but the correct answer is %q. Can you help me understand why?",
		res.SectionID, res.Question, res.SelectedText, res.CorrectText,
	)
}
