// Package tutorial owns the section catalog and per-learner progress
// gating for the spam-classification course.
package tutorial

import (
	"sort"

	"github.com/seralt/spamtutor/internal/domain"
)

// sections is the static course outline: four chapters, eleven leaf
// sections. Defined once at process start, never mutated.
var sections = []domain.Section{
	{ID: "1", Title: "Project Overview", Order: 1},
	{ID: "1.1", Title: "What is Spam Classification", Parent: "1", Order: 1,
		Content: "Spam classification is the task of automatically separating unwanted messages from legitimate ones. In this project you will build a classifier that reads a short text message and decides whether it is spam or ham."},
	{ID: "1.2", Title: "The Classification Pipeline", Parent: "1", Order: 2,
		Content: "A text classification pipeline has four key steps: data collection, text preprocessing, feature extraction, and model training. Each step feeds the next, and weaknesses early in the pipeline limit everything downstream."},
	{ID: "1.3", Title: "What You Will Build", Parent: "1", Order: 3,
		Content: "By the end of this project you will have built a complete spam classification system: a preprocessing stage, a vectorizer, and a trained model you can evaluate on held-out messages."},
	{ID: "2", Title: "Data Processing", Order: 2},
	{ID: "2.1", Title: "Why Data Processing Matters", Parent: "2", Order: 1,
		Content: "Raw text is messy. Data processing prepares text for machine learning algorithms: without it, the model sees punctuation noise, casing variants, and filler words instead of signal."},
	{ID: "2.2", Title: "Exploring the Dataset", Parent: "2", Order: 2,
		Content: "The sample dataset contains labeled SMS messages. Spam messages frequently mention urgency or offers (\"WINNER!\", \"claim now\"), while ham messages read like ordinary conversation."},
	{ID: "2.3", Title: "Text Preprocessing", Parent: "2", Order: 3,
		Content: "Typical preprocessing steps are lowercasing, tokenization, and removing stop words. Each step reduces vocabulary size and normalizes surface variation before vectorization."},
	{ID: "3", Title: "Text Vectorization", Order: 3},
	{ID: "3.1", Title: "Why Vectorization", Parent: "3", Order: 1,
		Content: "Machine learning algorithms operate on numbers, not strings. Vectorization converts text into numerical vectors so that a classifier can learn from it."},
	{ID: "3.2", Title: "Vectorization Techniques", Parent: "3", Order: 2,
		Content: "The three main techniques covered here are Bag of Words (BOW), TF-IDF, and Word Embeddings. BOW counts words, TF-IDF reweights them by rarity, and embeddings map words into dense semantic vectors."},
	{ID: "3.3", Title: "Bag of Words", Parent: "3", Order: 3,
		Content: "The Bag of Words model represents a document by the counts of its words, disregarding grammar and word order entirely. Despite its simplicity it is a strong baseline for spam detection."},
	{ID: "4", Title: "Model Training", Order: 4},
	{ID: "4.1", Title: "Choosing an Algorithm", Parent: "4", Order: 1,
		Content: "Naive Bayes is particularly effective for text classification: it is fast, handles high-dimensional sparse vectors well, and needs little data to produce a usable spam filter."},
	{ID: "4.2", Title: "Evaluating the Model", Parent: "4", Order: 2,
		Content: "Classification models are evaluated with accuracy, precision, recall, and F1-score. Mean Squared Error belongs to regression and is not used here."},
}

// Catalog provides ordered access to the static section table.
type Catalog struct {
	byID     map[string]domain.Section
	chapters []domain.Section
	children map[string][]domain.Section
	leaves   []domain.Section
}

// NewCatalog builds the catalog from the static section table.
func NewCatalog() *Catalog {
	c := &Catalog{
		byID:     make(map[string]domain.Section, len(sections)),
		children: make(map[string][]domain.Section),
	}
	for _, s := range sections {
		c.byID[s.ID] = s
		if s.IsChapter() {
			c.chapters = append(c.chapters, s)
		} else {
			c.children[s.Parent] = append(c.children[s.Parent], s)
		}
	}
	sort.Slice(c.chapters, func(i, j int) bool { return c.chapters[i].Order < c.chapters[j].Order })
	for id := range c.children {
		kids := c.children[id]
		sort.Slice(kids, func(i, j int) bool { return kids[i].Order < kids[j].Order })
	}
	// Leaves in (chapter order, sibling order) is the global traversal order.
	for _, ch := range c.chapters {
		c.leaves = append(c.leaves, c.children[ch.ID]...)
	}
	return c
}

// Get returns the section with the given id.
func (c *Catalog) Get(id string) (domain.Section, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Chapters returns the top-level chapters in order.
func (c *Catalog) Chapters() []domain.Section {
	return c.chapters
}

// Children returns the leaf sections of a chapter in sibling order.
func (c *Catalog) Children(chapterID string) []domain.Section {
	return c.children[chapterID]
}

// Leaves returns all leaf sections in (chapter order, sibling order).
func (c *Catalog) Leaves() []domain.Section {
	return c.leaves
}
