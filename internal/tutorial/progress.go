package tutorial

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/seralt/spamtutor/internal/domain"
)

var (
	// ErrUnknownSection is returned when a section id is not in the catalog.
	ErrUnknownSection = errors.New("tutorial: unknown section")

	// ErrSectionLocked is returned when navigation is requested to a section
	// whose predecessor has not been completed.
	ErrSectionLocked = errors.New("tutorial: complete the previous section first")
)

// CompletionStore persists per-learner completion state. The tracker never
// touches storage directly; persistence is delegated to this collaborator.
type CompletionStore interface {
	LoadCompleted(ctx context.Context, learnerID string) (map[string]bool, error)
	SaveCompleted(ctx context.Context, learnerID, sectionID string, completed bool) error
}

// Tracker owns the completion state of one learner and derives section
// accessibility from it. Accessibility is recomputed on every call, so
// results are a pure function of the current completion state.
type Tracker struct {
	catalog   *Catalog
	learnerID string
	store     CompletionStore

	mu        sync.RWMutex
	completed map[string]bool
}

// NewTracker creates a tracker for learnerID, loading any previously
// persisted completion state. store may be nil for ephemeral tracking.
func NewTracker(ctx context.Context, catalog *Catalog, learnerID string, store CompletionStore) (*Tracker, error) {
	t := &Tracker{
		catalog:   catalog,
		learnerID: learnerID,
		store:     store,
		completed: make(map[string]bool),
	}
	if store != nil {
		saved, err := store.LoadCompleted(ctx, learnerID)
		if err != nil {
			return nil, fmt.Errorf("load completion state: %w", err)
		}
		for id, done := range saved {
			t.completed[id] = done
		}
	}
	return t, nil
}

// Completed reports whether the learner has passed the section's checkpoint.
func (t *Tracker) Completed(sectionID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.completed[sectionID]
}

// CompletedSections returns a copy of the completion map.
func (t *Tracker) CompletedSections() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]bool, len(t.completed))
	for id, done := range t.completed {
		out[id] = done
	}
	return out
}

// MarkCompleted sets the completion flag for a section and persists it.
// No gating is computed here; accessibility is re-derived lazily.
func (t *Tracker) MarkCompleted(ctx context.Context, sectionID string, completed bool) error {
	if _, ok := t.catalog.Get(sectionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
	}

	t.mu.Lock()
	t.completed[sectionID] = completed
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.SaveCompleted(ctx, t.learnerID, sectionID, completed); err != nil {
			return fmt.Errorf("persist completion state: %w", err)
		}
	}
	return nil
}

// Accessible reports whether the learner may navigate to the section.
//
// Rules: the first leaf in global order is always accessible. A chapter is
// accessible iff any of its children is. A non-first child is accessible
// iff its immediately preceding sibling is completed. The first child of a
// non-first chapter is accessible iff the last child of the preceding
// chapter is completed.
func (t *Tracker) Accessible(sectionID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.accessible(sectionID)
}

func (t *Tracker) accessible(sectionID string) bool {
	sec, ok := t.catalog.Get(sectionID)
	if !ok {
		return false
	}

	if sec.IsChapter() {
		for _, child := range t.catalog.Children(sec.ID) {
			if t.accessible(child.ID) {
				return true
			}
		}
		return false
	}

	siblings := t.catalog.Children(sec.Parent)
	idx := -1
	for i, s := range siblings {
		if s.ID == sec.ID {
			idx = i
			break
		}
	}
	if idx > 0 {
		return t.completed[siblings[idx-1].ID]
	}

	// First child of its chapter: gate on the last child of the
	// preceding chapter, or unconditionally open for the first chapter.
	chapters := t.catalog.Chapters()
	cidx := -1
	for i, ch := range chapters {
		if ch.ID == sec.Parent {
			cidx = i
			break
		}
	}
	if cidx <= 0 {
		return true
	}
	prev := t.catalog.Children(chapters[cidx-1].ID)
	if len(prev) == 0 {
		return false
	}
	return t.completed[prev[len(prev)-1].ID]
}

// NextSection returns the id of the leaf section immediately following
// currentID in (chapter order, sibling order), or false if currentID is
// the last leaf or unknown.
func (t *Tracker) NextSection(currentID string) (string, bool) {
	leaves := t.catalog.Leaves()
	for i, s := range leaves {
		if s.ID == currentID && i+1 < len(leaves) {
			return leaves[i+1].ID, true
		}
	}
	return "", false
}

// GoTo validates a navigation request. It returns the target section when
// accessible and a typed error otherwise; no state changes on rejection.
func (t *Tracker) GoTo(sectionID string) (domain.Section, error) {
	sec, ok := t.catalog.Get(sectionID)
	if !ok {
		return domain.Section{}, fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
	}
	if !t.Accessible(sectionID) {
		return domain.Section{}, fmt.Errorf("%w: %s", ErrSectionLocked, sectionID)
	}
	return sec, nil
}
