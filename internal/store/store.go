// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/seralt/spamtutor/internal/domain"
)

// Repository defines the interface for persisting learner progress, answer
// history, and chat transcripts.
type Repository interface {
	// LoadCompleted returns the completion state for a learner: a map of
	// section id to completed flag. Sections never marked are absent.
	LoadCompleted(ctx context.Context, learnerID string) (map[string]bool, error)

	// SaveCompleted upserts one section's completion flag for a learner.
	SaveCompleted(ctx context.Context, learnerID, sectionID string, completed bool) error

	// SaveChoice appends one checkpoint answer to the learner's history.
	SaveChoice(ctx context.Context, learnerID string, choice *domain.Choice) error

	// ListChoices returns a learner's answer history, oldest first.
	ListChoices(ctx context.Context, learnerID string) ([]*domain.Choice, error)

	// SaveTranscript upserts a chat session transcript.
	SaveTranscript(ctx context.Context, session *domain.ChatSession) error

	// DeleteTranscript removes a chat session transcript.
	DeleteTranscript(ctx context.Context, sessionID string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
