package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/seralt/spamtutor/internal/chat"
)

type chatRequest struct {
	Message                string         `json:"message"`
	SessionID              string         `json:"sessionId"`
	CurrentSection         string         `json:"currentSection,omitempty"`
	SectionContent         string         `json:"sectionContent,omitempty"`
	LastCheckpointQuestion string         `json:"lastCheckpointQuestion,omitempty"`
	UserChoices            map[string]any `json:"userChoices,omitempty"`
}

type newChatRequest struct {
	SessionID string `json:"sessionId"`
}

// HandleChat relays a learner message to the completion upstream. Upstream
// failures degrade to a fallback reply and still return 200; only a missing
// server credential is a per-request configuration error.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "Message is required")
		return
	}

	if !h.chatConfigured {
		slog.Error("Server configuration error: API key is missing")
		Error(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = chat.NewSessionID()
	}

	reply, _ := h.chat.Send(r.Context(), sessionID, req.Message, chat.Context{
		CurrentSection:         req.CurrentSection,
		SectionContent:         req.SectionContent,
		LastCheckpointQuestion: req.LastCheckpointQuestion,
		UserChoices:            req.UserChoices,
	})

	JSON(w, http.StatusOK, map[string]string{"response": reply})
}

// HandleNewChat resets the transcript for a session id.
func (h *Handler) HandleNewChat(w http.ResponseWriter, r *http.Request) {
	var req newChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	h.chat.ResetSession(r.Context(), req.SessionID)
	slog.Info("New chat session created", "session_id", req.SessionID)

	JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": req.SessionID,
		"message":   "New chat session created successfully",
	})
}
