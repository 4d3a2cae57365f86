package domain

import "fmt"

// Option is a single answer choice of a checkpoint question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice checkpoint question. Records are static:
// looked up, never mutated. Exactly one option id equals CorrectAnswerID.
type Question struct {
	Question        string   `json:"question"`
	Options         []Option `json:"options"`
	CorrectAnswerID string   `json:"correctAnswerId"`
}

// OptionText returns the human-readable text of the option with the given
// id, or an empty string if no such option exists.
func (q *Question) OptionText(id string) string {
	for _, o := range q.Options {
		if o.ID == id {
			return o.Text
		}
	}
	return ""
}

// Validate checks the structural invariants of the record: options are
// non-empty, option ids are unique, and exactly one option id equals
// CorrectAnswerID.
func (q *Question) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("question %q has no options", q.Question)
	}
	seen := make(map[string]bool, len(q.Options))
	matches := 0
	for _, o := range q.Options {
		if seen[o.ID] {
			return fmt.Errorf("question %q has duplicate option id %q", q.Question, o.ID)
		}
		seen[o.ID] = true
		if o.ID == q.CorrectAnswerID {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("question %q has %d options matching correct answer id %q", q.Question, matches, q.CorrectAnswerID)
	}
	return nil
}
