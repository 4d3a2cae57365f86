package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/seralt/spamtutor/internal/domain"
)

// State is the lifecycle phase of one evaluator instance.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned when Submit is called before a question is loaded
	// or after an answer was already submitted.
	ErrNotReady = errors.New("quiz: no question ready for submission")

	// ErrNoSelection is returned when Submit is called with an empty option id.
	ErrNoSelection = errors.New("quiz: no option selected")
)

// Source retrieves the checkpoint question for a section. Implementations
// may fail; the evaluator falls back to the bank on any error.
type Source interface {
	Question(ctx context.Context, sectionID string) (domain.Question, error)
}

// BankSource serves questions directly from the bank. It never fails.
type BankSource struct {
	bank *Bank
}

// NewBankSource returns a Source backed by the given bank.
func NewBankSource(bank *Bank) *BankSource {
	return &BankSource{bank: bank}
}

func (s *BankSource) Question(_ context.Context, sectionID string) (domain.Question, error) {
	return s.bank.Lookup(sectionID), nil
}

// HTTPSource fetches questions from a checkpoint endpoint with a single
// POST per call. No retry or backoff: any transport or non-2xx failure is
// returned to the caller, which falls back to the local bank.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource returns a Source that posts {"sectionId": ...} to url.
// If client is nil, http.DefaultClient is used.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Question(ctx context.Context, sectionID string) (domain.Question, error) {
	body, err := json.Marshal(map[string]string{"sectionId": sectionID})
	if err != nil {
		return domain.Question{}, fmt.Errorf("encode checkpoint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return domain.Question{}, fmt.Errorf("build checkpoint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Question{}, fmt.Errorf("fetch checkpoint question: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Question{}, fmt.Errorf("checkpoint endpoint returned status %d", resp.StatusCode)
	}

	var q domain.Question
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return domain.Question{}, fmt.Errorf("decode checkpoint question: %w", err)
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, fmt.Errorf("invalid checkpoint question: %w", err)
	}
	return q, nil
}

// Result reports the outcome of one answer submission. It carries everything
// the caller needs to update progress and to compose a remediation chat
// message, so the evaluator itself never mutates parent state.
type Result struct {
	SectionID    string          `json:"sectionId"`
	Correct      bool            `json:"correct"`
	Question     string          `json:"question"`
	Options      []domain.Option `json:"options"`
	SelectedID   string          `json:"selectedId"`
	SelectedText string          `json:"selectedText"`
	CorrectID    string          `json:"correctId"`
	CorrectText  string          `json:"correctText"`
}

// Evaluator grades a learner's answer to one section's checkpoint question.
// Lifecycle: Loading -> Ready -> Submitted. Load always resolves to a
// displayable question; a Source failure silently falls back to the bank.
type Evaluator struct {
	source Source
	bank   *Bank

	state     State
	sectionID string
	question  domain.Question
}

// NewEvaluator creates an evaluator reading questions from source, with
// bank as the local fallback.
func NewEvaluator(source Source, bank *Bank) *Evaluator {
	return &Evaluator{source: source, bank: bank, state: StateLoading}
}

// Load fetches the question for sectionID and resets any prior selection
// and submission. It makes a single attempt against the source and falls
// back to the bank on any error, so it never fails outward.
func (e *Evaluator) Load(ctx context.Context, sectionID string) domain.Question {
	e.state = StateLoading
	e.sectionID = sectionID

	q, err := e.source.Question(ctx, sectionID)
	if err != nil {
		q = e.bank.Lookup(sectionID)
	}

	e.question = q
	e.state = StateReady
	return q
}

// Refresh re-runs Load for the current section, discarding any prior
// selection and result.
func (e *Evaluator) Refresh(ctx context.Context) domain.Question {
	return e.Load(ctx, e.sectionID)
}

// Submit grades selectedOptionID against the loaded question and
// transitions to Submitted. The evaluator must be Ready and the selection
// non-empty.
func (e *Evaluator) Submit(selectedOptionID string) (Result, error) {
	if selectedOptionID == "" {
		return Result{}, ErrNoSelection
	}
	if e.state != StateReady {
		return Result{}, fmt.Errorf("%w (state: %s)", ErrNotReady, e.state)
	}

	e.state = StateSubmitted
	return Result{
		SectionID:    e.sectionID,
		Correct:      selectedOptionID == e.question.CorrectAnswerID,
		Question:     e.question.Question,
		Options:      e.question.Options,
		SelectedID:   selectedOptionID,
		SelectedText: e.question.OptionText(selectedOptionID),
		CorrectID:    e.question.CorrectAnswerID,
		CorrectText:  e.question.OptionText(e.question.CorrectAnswerID),
	}, nil
}

// State returns the current lifecycle phase.
func (e *Evaluator) State() State {
	return e.state
}

// Question returns the currently loaded question.
func (e *Evaluator) Question() domain.Question {
	return e.question
}
