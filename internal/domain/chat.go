package domain

import "time"

// Author identifies who wrote a chat message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ChatMessage is a single entry in a chat session transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession holds the transcript of one assistant conversation.
// Messages are append-only during a session; a "new chat" resets the
// transcript under a fresh session id.
type ChatSession struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

// Choice records one checkpoint answer a learner submitted.
type Choice struct {
	SectionID  string    `json:"section_id"`
	Question   string    `json:"question"`
	SelectedID string    `json:"selected_id"`
	Correct    bool      `json:"correct"`
	CreatedAt  time.Time `json:"created_at"`
}
