// Package quiz provides the checkpoint question bank and the evaluator
// that grades a learner's answer to a section's checkpoint question.
package quiz

import "github.com/seralt/spamtutor/internal/domain"

// defaultQuestion is served for section ids with no bank entry.
var defaultQuestion = domain.Question{
	Question: "What are the three main text vectorization techniques discussed in this course?",
	Options: []domain.Option{
		{ID: "a", Text: "Bag of Words, TF-IDF, Word Embeddings"},
		{ID: "b", Text: "Word2Vec, GloVe, FastText"},
		{ID: "c", Text: "Tokenization, Stemming, Lemmatization"},
		{ID: "d", Text: "CNN, RNN, Transformer"},
	},
	CorrectAnswerID: "a",
}

var bankQuestions = map[string]domain.Question{
	"1.1": {
		Question: "What is the main purpose of spam classification in the context of this project?",
		Options: []domain.Option{
			{ID: "a", Text: "To categorize emails by their sender"},
			{ID: "b", Text: "To filter unwanted messages from legitimate ones"},
			{ID: "c", Text: "To analyze the writing style of different authors"},
			{ID: "d", Text: "To compress text data for efficient storage"},
		},
		CorrectAnswerID: "b",
	},
	"1.2": {
		Question: "Which of the following is NOT one of the key steps in the spam classification process?",
		Options: []domain.Option{
			{ID: "a", Text: "Data Collection"},
			{ID: "b", Text: "Text Preprocessing"},
			{ID: "c", Text: "Feature Extraction"},
			{ID: "d", Text: "Image Recognition"},
		},
		CorrectAnswerID: "d",
	},
	"1.3": {
		Question: "By the end of this project, what will you have built?",
		Options: []domain.Option{
			{ID: "a", Text: "A language translation system"},
			{ID: "b", Text: "A spam classification system"},
			{ID: "c", Text: "A text summarization tool"},
			{ID: "d", Text: "A sentiment analysis model"},
		},
		CorrectAnswerID: "b",
	},
	"2.1": {
		Question: "Why is data processing crucial in an NLP pipeline?",
		Options: []domain.Option{
			{ID: "a", Text: "It makes the text more readable for humans"},
			{ID: "b", Text: "It prepares text data for machine learning algorithms"},
			{ID: "c", Text: "It increases the size of the dataset"},
			{ID: "d", Text: "It translates text into different languages"},
		},
		CorrectAnswerID: "b",
	},
	"2.2": {
		Question: "Which of the following is a characteristic of spam messages based on the sample data?",
		Options: []domain.Option{
			{ID: "a", Text: "They are always written in all caps"},
			{ID: "b", Text: "They often contain personal information"},
			{ID: "c", Text: "They frequently mention urgency or offers"},
			{ID: "d", Text: "They are always shorter than ham messages"},
		},
		CorrectAnswerID: "c",
	},
	"2.3": {
		Question: "Which of the following is NOT a typical text preprocessing step?",
		Options: []domain.Option{
			{ID: "a", Text: "Lowercasing"},
			{ID: "b", Text: "Tokenization"},
			{ID: "c", Text: "Encryption"},
			{ID: "d", Text: "Removing Stop Words"},
		},
		CorrectAnswerID: "c",
	},
	"3.1": {
		Question: "Why is text vectorization necessary in NLP?",
		Options: []domain.Option{
			{ID: "a", Text: "To make text more readable"},
			{ID: "b", Text: "To convert text into a format that machine learning algorithms can understand"},
			{ID: "c", Text: "To reduce the size of the text data"},
			{ID: "d", Text: "To translate text into different languages"},
		},
		CorrectAnswerID: "b",
	},
	"3.2": {
		Question: "Which of the following is NOT one of the three main text vectorization techniques discussed?",
		Options: []domain.Option{
			{ID: "a", Text: "Bag of Words (BOW)"},
			{ID: "b", Text: "TF-IDF"},
			{ID: "c", Text: "Word Embeddings"},
			{ID: "d", Text: "Binary Encoding"},
		},
		CorrectAnswerID: "d",
	},
	"3.3": {
		Question: "What does the Bag of Words model disregard when representing text?",
		Options: []domain.Option{
			{ID: "a", Text: "Word frequency"},
			{ID: "b", Text: "Grammar and word order"},
			{ID: "c", Text: "The presence of words"},
			{ID: "d", Text: "All of the above"},
		},
		CorrectAnswerID: "b",
	},
	"4.1": {
		Question: "Which of the following algorithms is particularly effective for text classification?",
		Options: []domain.Option{
			{ID: "a", Text: "K-means clustering"},
			{ID: "b", Text: "Principal Component Analysis (PCA)"},
			{ID: "c", Text: "Naive Bayes"},
			{ID: "d", Text: "Linear Regression"},
		},
		CorrectAnswerID: "c",
	},
	"4.2": {
		Question: "Which of the following is NOT a common metric for evaluating classification models?",
		Options: []domain.Option{
			{ID: "a", Text: "Accuracy"},
			{ID: "b", Text: "Precision"},
			{ID: "c", Text: "Mean Squared Error (MSE)"},
			{ID: "d", Text: "F1-score"},
		},
		CorrectAnswerID: "c",
	},
}

// Bank is the single authoritative store of checkpoint questions. Both the
// HTTP endpoint and the evaluator fallback read from it, so the question
// data cannot drift between copies.
type Bank struct {
	questions map[string]domain.Question
	fallback  domain.Question
}

// NewBank returns the built-in question bank.
func NewBank() *Bank {
	return &Bank{questions: bankQuestions, fallback: defaultQuestion}
}

// Lookup returns the question for sectionID, or the fixed default question
// when the section has no entry. It never fails.
func (b *Bank) Lookup(sectionID string) domain.Question {
	if q, ok := b.questions[sectionID]; ok {
		return q
	}
	return b.fallback
}

// Has reports whether the bank holds a dedicated question for sectionID.
func (b *Bank) Has(sectionID string) bool {
	_, ok := b.questions[sectionID]
	return ok
}

// SectionIDs returns the ids of all sections with a dedicated question.
func (b *Bank) SectionIDs() []string {
	ids := make([]string, 0, len(b.questions))
	for id := range b.questions {
		ids = append(ids, id)
	}
	return ids
}
