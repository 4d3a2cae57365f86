// Package domain contains core domain types for the spamtutor application.
package domain

// Section is one addressable unit of tutorial content, identified by a
// dotted chapter.subchapter string (e.g. "2.3"). Chapters have an empty
// Parent. Sections are defined once at process start and never mutated.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Parent  string `json:"parent,omitempty"`
	Order   int    `json:"order"`
	Content string `json:"content,omitempty"`
}

// IsChapter returns true if the section is a top-level chapter.
func (s *Section) IsChapter() bool {
	return s.Parent == ""
}
