package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/seralt/spamtutor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompleter records calls and can block to simulate a slow upstream.
type stubCompleter struct {
	mu       sync.Mutex
	calls    []string
	reply    string
	err      error
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	block    chan struct{} // when non-nil, Complete waits for a signal
}

func (s *stubCompleter) Complete(_ context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		max := s.maxSeen.Load()
		if n <= max || s.maxSeen.CompareAndSwap(max, n) {
			break
		}
	}

	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	s.calls = append(s.calls, messages[len(messages)-1].Content)
	s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompleter) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func TestSendReturnsUpstreamReply(t *testing.T) {
	stub := &stubCompleter{reply: "Think about word order first."}
	svc := NewService(stub, nil)

	reply, fromFallback := svc.Send(context.Background(), "s1", "what does BOW ignore?", Context{})

	assert.Equal(t, "Think about word order first.", reply)
	assert.False(t, fromFallback)
	assert.Equal(t, StatusConnected, svc.Status())

	history := svc.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.AuthorUser, history[0].Author)
	assert.Equal(t, domain.AuthorAssistant, history[1].Author)
	assert.Equal(t, reply, history[1].Text)
}

func TestSendFallsBackOnUpstreamError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("upstream down")}
	svc := NewService(stub, nil)

	reply, fromFallback := svc.Send(context.Background(), "s1", "hello", Context{})

	assert.True(t, fromFallback)
	assert.Equal(t, replyGreeting, reply)
	assert.Equal(t, StatusError, svc.Status())
}

func TestSendFallsBackWhenUnconfigured(t *testing.T) {
	svc := NewService(nil, nil)
	assert.False(t, svc.Configured())

	reply, fromFallback := svc.Send(context.Background(), "s1", "hello", Context{})
	assert.True(t, fromFallback)
	assert.Equal(t, replyGreeting, reply)

	// The transcript still records both sides of the exchange.
	assert.Len(t, svc.History("s1"), 2)
}

func TestResetSessionClearsHistory(t *testing.T) {
	svc := NewService(nil, nil)
	svc.Send(context.Background(), "s1", "hello", Context{})
	require.NotEmpty(t, svc.History("s1"))

	svc.ResetSession(context.Background(), "s1")
	assert.Empty(t, svc.History("s1"))
}

func TestNewSessionIDsAreUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestAutoMessagesDrainFIFOWithoutOverlap(t *testing.T) {
	stub := &stubCompleter{reply: "ok", block: make(chan struct{})}
	svc := NewService(stub, nil)

	// One user send in flight, holding the gate.
	userDone := make(chan struct{})
	go func() {
		svc.Send(context.Background(), "s1", "user message", Context{})
		close(userDone)
	}()

	// Wait until the user send has reached the upstream.
	require.Eventually(t, func() bool { return stub.inFlight.Load() == 1 }, time.Second, time.Millisecond)

	svc.Enqueue("s1", "auto one", Context{})
	svc.Enqueue("s1", "auto two", Context{})

	// Release all three sends.
	close(stub.block)
	<-userDone
	require.Eventually(t, func() bool { return svc.QueueLen() == 0 && len(stub.callLog()) == 3 },
		time.Second, time.Millisecond)

	calls := stub.callLog()
	assert.Equal(t, []string{"user message", "auto one", "auto two"}, calls)
	assert.Equal(t, int32(1), stub.maxSeen.Load(), "no two outbound calls may overlap")
}
