package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/seralt/spamtutor/internal/domain"
)

// Status reflects the health of the completion upstream as observed by the
// most recent send.
type Status string

const (
	StatusUnknown   Status = "unknown"
	StatusConnected Status = "connected"
	StatusError     Status = "error"
)

// TranscriptStore persists chat session transcripts. The service treats
// persistence as best-effort: a store failure never blocks the chat flow.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, session *domain.ChatSession) error
	DeleteTranscript(ctx context.Context, sessionID string) error
}

type queuedMessage struct {
	sessionID string
	message   string
	tc        Context
}

// Service relays chat messages to the completion upstream, owns the session
// transcripts, and drains the auto-message queue. All outbound calls (user
// or auto) serialize on a one-slot gate so at most one is in flight.
type Service struct {
	completer Completer       // nil when the upstream is unconfigured
	store     TranscriptStore // optional

	gate chan struct{}

	mu       sync.Mutex
	sessions map[string]*domain.ChatSession
	queue    []queuedMessage
	draining bool
	status   Status
}

// NewService creates a chat service. completer may be nil, in which case
// every send resolves to a fallback reply. store may be nil to disable
// transcript persistence.
func NewService(completer Completer, store TranscriptStore) *Service {
	return &Service{
		completer: completer,
		store:     store,
		gate:      make(chan struct{}, 1),
		sessions:  make(map[string]*domain.ChatSession),
		status:    StatusUnknown,
	}
}

// Configured reports whether a completion upstream is available.
func (s *Service) Configured() bool {
	return s.completer != nil
}

// Status returns the upstream status observed by the most recent send.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// NewSessionID generates a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Send relays one message and returns the assistant's reply. On any
// upstream failure it returns a deterministic fallback reply instead, so it
// never fails; the second return value reports whether the reply came from
// the local fallback.
func (s *Service) Send(ctx context.Context, sessionID, message string, tc Context) (string, bool) {
	select {
	case s.gate <- struct{}{}:
	case <-ctx.Done():
		return fallbackReply(message, tc.CurrentSection), true
	}
	defer func() { <-s.gate }()

	s.append(sessionID, domain.AuthorUser, message)

	reply, fromFallback := s.complete(ctx, message, tc)

	s.append(sessionID, domain.AuthorAssistant, reply)
	s.persist(ctx, sessionID)
	return reply, fromFallback
}

func (s *Service) complete(ctx context.Context, message string, tc Context) (string, bool) {
	if s.completer == nil {
		s.setStatus(StatusError)
		return fallbackReply(message, tc.CurrentSection), true
	}

	reply, err := s.completer.Complete(ctx, buildMessages(message, tc))
	if err != nil {
		slog.Warn("Completion call failed, using fallback reply", "error", err)
		s.setStatus(StatusError)
		return fallbackReply(message, tc.CurrentSection), true
	}

	s.setStatus(StatusConnected)
	return reply, false
}

// Enqueue appends a system-generated message (e.g. a remediation prompt
// after a wrong answer) to the auto-message queue. Queued messages are sent
// in FIFO order behind any in-flight send.
func (s *Service) Enqueue(sessionID, message string, tc Context) {
	s.mu.Lock()
	s.queue = append(s.queue, queuedMessage{sessionID: sessionID, message: message, tc: tc})
	startDrain := !s.draining
	if startDrain {
		s.draining = true
	}
	s.mu.Unlock()

	if startDrain {
		go s.drain()
	}
}

// QueueLen returns the number of auto-messages awaiting delivery.
func (s *Service) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Service) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		qm := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.Send(context.Background(), qm.sessionID, qm.message, qm.tc)
	}
}

// ResetSession clears the transcript for sessionID. Failure to delete the
// persisted transcript is logged but does not block the reset.
func (s *Service) ResetSession(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.DeleteTranscript(ctx, sessionID); err != nil {
			slog.Warn("Failed to delete persisted transcript", "session_id", sessionID, "error", err)
		}
	}
}

// History returns a copy of the transcript for sessionID.
func (s *Service) History(sessionID string) []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]domain.ChatMessage, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

func (s *Service) append(sessionID string, author domain.Author, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &domain.ChatSession{SessionID: sessionID}
		s.sessions[sessionID] = sess
	}
	sess.Messages = append(sess.Messages, domain.ChatMessage{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (s *Service) persist(ctx context.Context, sessionID string) {
	if s.store == nil {
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	var snapshot domain.ChatSession
	if ok {
		snapshot = domain.ChatSession{SessionID: sess.SessionID}
		snapshot.Messages = append(snapshot.Messages, sess.Messages...)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.store.SaveTranscript(ctx, &snapshot); err != nil {
		slog.Warn("Failed to persist transcript", "session_id", sessionID, "error", err)
	}
}

func (s *Service) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}
