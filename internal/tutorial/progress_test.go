package tutorial

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory CompletionStore for tests.
type memStore struct {
	saved map[string]map[string]bool
	fail  error
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]map[string]bool)}
}

func (m *memStore) LoadCompleted(_ context.Context, learnerID string) (map[string]bool, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	out := make(map[string]bool)
	for id, done := range m.saved[learnerID] {
		out[id] = done
	}
	return out, nil
}

func (m *memStore) SaveCompleted(_ context.Context, learnerID, sectionID string, completed bool) error {
	if m.fail != nil {
		return m.fail
	}
	if m.saved[learnerID] == nil {
		m.saved[learnerID] = make(map[string]bool)
	}
	m.saved[learnerID][sectionID] = completed
	return nil
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(context.Background(), NewCatalog(), "learner", nil)
	require.NoError(t, err)
	return tr
}

func TestFirstLeafAlwaysAccessible(t *testing.T) {
	tr := newTestTracker(t)

	assert.True(t, tr.Accessible("1.1"))

	// Even after re-locking everything else, and even after 1.1 itself is
	// marked incomplete again.
	require.NoError(t, tr.MarkCompleted(context.Background(), "1.1", true))
	require.NoError(t, tr.MarkCompleted(context.Background(), "1.1", false))
	assert.True(t, tr.Accessible("1.1"))
}

func TestSiblingGating(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	assert.False(t, tr.Accessible("1.2"))
	assert.False(t, tr.Accessible("1.3"))

	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	assert.True(t, tr.Accessible("1.2"))
	assert.False(t, tr.Accessible("1.3"))

	// 1.3 depends only on its immediately preceding sibling.
	require.NoError(t, tr.MarkCompleted(ctx, "1.1", false))
	require.NoError(t, tr.MarkCompleted(ctx, "1.2", true))
	assert.True(t, tr.Accessible("1.3"))
	assert.False(t, tr.Accessible("1.2"))
}

func TestChapterBoundaryGating(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	// 2.1 unlocks only once the last child of chapter 1 is completed.
	assert.False(t, tr.Accessible("2.1"))
	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	require.NoError(t, tr.MarkCompleted(ctx, "1.2", true))
	assert.False(t, tr.Accessible("2.1"))
	require.NoError(t, tr.MarkCompleted(ctx, "1.3", true))
	assert.True(t, tr.Accessible("2.1"))
}

func TestChapterAccessibleIffAnyChildIs(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	assert.True(t, tr.Accessible("1"), "chapter 1 contains the always-open first leaf")
	assert.False(t, tr.Accessible("2"))

	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	require.NoError(t, tr.MarkCompleted(ctx, "1.2", true))
	require.NoError(t, tr.MarkCompleted(ctx, "1.3", true))
	assert.True(t, tr.Accessible("2"))
}

func TestNextSectionVisitsEveryLeafOnce(t *testing.T) {
	tr := newTestTracker(t)

	visited := []string{"1.1"}
	current := "1.1"
	for {
		next, ok := tr.NextSection(current)
		if !ok {
			break
		}
		visited = append(visited, next)
		current = next
		require.LessOrEqual(t, len(visited), 11, "traversal must terminate")
	}

	assert.Equal(t,
		[]string{"1.1", "1.2", "1.3", "2.1", "2.2", "2.3", "3.1", "3.2", "3.3", "4.1", "4.2"},
		visited)

	_, ok := tr.NextSection("4.2")
	assert.False(t, ok)
	_, ok = tr.NextSection("bogus")
	assert.False(t, ok)
}

func TestMarkCompletedIsIdempotentAndPure(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	assert.True(t, tr.Completed("1.1"))
	assert.True(t, tr.Accessible("1.2"))

	// Accessibility is derived from current state only: re-locking 1.1
	// immediately re-locks 1.2.
	require.NoError(t, tr.MarkCompleted(ctx, "1.1", false))
	assert.False(t, tr.Accessible("1.2"))
}

func TestMarkCompletedRejectsUnknownSection(t *testing.T) {
	tr := newTestTracker(t)
	err := tr.MarkCompleted(context.Background(), "9.9", true)
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestGoTo(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	sec, err := tr.GoTo("1.1")
	require.NoError(t, err)
	assert.Equal(t, "What is Spam Classification", sec.Title)

	_, err = tr.GoTo("1.2")
	assert.ErrorIs(t, err, ErrSectionLocked)

	_, err = tr.GoTo("9.9")
	assert.ErrorIs(t, err, ErrUnknownSection)

	// Rejection changes no state.
	assert.False(t, tr.Completed("1.2"))

	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	_, err = tr.GoTo("1.2")
	assert.NoError(t, err)
}

func TestTrackerPersistsThroughStore(t *testing.T) {
	ms := newMemStore()
	ctx := context.Background()

	tr, err := NewTracker(ctx, NewCatalog(), "learner-1", ms)
	require.NoError(t, err)
	require.NoError(t, tr.MarkCompleted(ctx, "1.1", true))
	require.NoError(t, tr.MarkCompleted(ctx, "1.2", true))

	// A fresh tracker for the same learner sees the saved state.
	tr2, err := NewTracker(ctx, NewCatalog(), "learner-1", ms)
	require.NoError(t, err)
	assert.True(t, tr2.Completed("1.1"))
	assert.True(t, tr2.Accessible("1.3"))

	// Other learners are unaffected.
	tr3, err := NewTracker(ctx, NewCatalog(), "learner-2", ms)
	require.NoError(t, err)
	assert.False(t, tr3.Completed("1.1"))
}

func TestTrackerSurfacesStoreErrors(t *testing.T) {
	ms := newMemStore()
	ms.fail = errors.New("disk on fire")

	_, err := NewTracker(context.Background(), NewCatalog(), "learner", ms)
	assert.Error(t, err)

	ms.fail = nil
	tr, err := NewTracker(context.Background(), NewCatalog(), "learner", ms)
	require.NoError(t, err)
	ms.fail = fmt.Errorf("still on fire")
	assert.Error(t, tr.MarkCompleted(context.Background(), "1.1", true))
}
