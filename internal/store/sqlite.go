package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/seralt/spamtutor/internal/domain"
	"github.com/seralt/spamtutor/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db           *sql.DB
	transcriptMu sync.Mutex // Serializes transcript upserts to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS progress (
		learner_id TEXT NOT NULL,
		section_id TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (learner_id, section_id)
	);

	CREATE TABLE IF NOT EXISTS choices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		learner_id TEXT NOT NULL,
		section_id TEXT NOT NULL,
		question TEXT NOT NULL,
		selected_id TEXT NOT NULL,
		correct INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_choices_learner ON choices(learner_id, created_at);

	CREATE TABLE IF NOT EXISTS chat_sessions (
		session_id TEXT PRIMARY KEY,
		messages_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadCompleted returns the completion state for a learner.
func (s *SQLiteStore) LoadCompleted(ctx context.Context, learnerID string) (map[string]bool, error) {
	query := `SELECT section_id, completed FROM progress WHERE learner_id = ?`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var sectionID string
		var done int
		if err := rows.Scan(&sectionID, &done); err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		completed[sectionID] = done != 0
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress rows: %w", err)
	}
	return completed, nil
}

// SaveCompleted upserts one section's completion flag for a learner.
func (s *SQLiteStore) SaveCompleted(ctx context.Context, learnerID, sectionID string, completed bool) error {
	query := `
	INSERT INTO progress (learner_id, section_id, completed, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(learner_id, section_id) DO UPDATE SET
		completed = excluded.completed,
		updated_at = excluded.updated_at`

	done := 0
	if completed {
		done = 1
	}
	_, err := s.db.ExecContext(ctx, query, learnerID, sectionID, done, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// SaveChoice appends one checkpoint answer to the learner's history.
func (s *SQLiteStore) SaveChoice(ctx context.Context, learnerID string, choice *domain.Choice) error {
	query := `
	INSERT INTO choices (learner_id, section_id, question, selected_id, correct, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	correct := 0
	if choice.Correct {
		correct = 1
	}
	createdAt := choice.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		learnerID, choice.SectionID, choice.Question,
		choice.SelectedID, correct, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert choice: %w", err)
	}
	return nil
}

// ListChoices returns a learner's answer history, oldest first.
func (s *SQLiteStore) ListChoices(ctx context.Context, learnerID string) ([]*domain.Choice, error) {
	query := `
	SELECT section_id, question, selected_id, correct, created_at
	FROM choices WHERE learner_id = ? ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("query choices: %w", err)
	}
	defer rows.Close()

	var choices []*domain.Choice
	for rows.Next() {
		var c domain.Choice
		var correct int
		var createdAt int64
		if err := rows.Scan(&c.SectionID, &c.Question, &c.SelectedID, &correct, &createdAt); err != nil {
			return nil, fmt.Errorf("scan choice row: %w", err)
		}
		c.Correct = correct != 0
		c.CreatedAt = time.Unix(createdAt, 0)
		choices = append(choices, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate choice rows: %w", err)
	}
	return choices, nil
}

// SaveTranscript upserts a chat session transcript.
func (s *SQLiteStore) SaveTranscript(ctx context.Context, session *domain.ChatSession) error {
	s.transcriptMu.Lock()
	defer s.transcriptMu.Unlock()

	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	query := `
	INSERT INTO chat_sessions (session_id, messages_json, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		messages_json = excluded.messages_json,
		updated_at = excluded.updated_at`

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, query, session.SessionID, string(messages), now, now)
	if shared.IsSQLiteConflictError(err) {
		// One retry after the busy timeout has had a chance to clear.
		_, err = s.db.ExecContext(ctx, query, session.SessionID, string(messages), now, now)
	}
	if err != nil {
		return fmt.Errorf("upsert transcript: %w", err)
	}
	return nil
}

// DeleteTranscript removes a chat session transcript.
func (s *SQLiteStore) DeleteTranscript(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

// LoadTranscript returns a persisted chat session, or nil when absent.
func (s *SQLiteStore) LoadTranscript(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	var messagesJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT messages_json FROM chat_sessions WHERE session_id = ?`, sessionID,
	).Scan(&messagesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}

	sess := &domain.ChatSession{SessionID: sessionID}
	if err := json.Unmarshal([]byte(messagesJSON), &sess.Messages); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	return sess, nil
}
