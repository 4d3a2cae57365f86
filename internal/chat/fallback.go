package chat

import "strings"

// Canned replies used when the completion upstream is unavailable. Keyword
// rules are checked in order; the last entry is the catch-all default, so
// the generator never fails to produce a reply.
const (
	replyGreeting = "Hi! I'm your tutor for this spam classification project. " +
		"Ask me anything about the current section and I'll help you work through it."
	replyVectorization = "Text vectorization is the process of converting text into numerical vectors " +
		"that can be used by machine learning algorithms. The three main approaches are " +
		"Bag of Words (BOW), TF-IDF, and Word Embeddings."
	replyTFIDF = "TF-IDF (Term Frequency-Inverse Document Frequency) is a numerical statistic that " +
		"reflects how important a word is to a document in a collection. It weighs terms based on how " +
		"frequently they appear in a document and how rarely they appear across all documents."
	replyBOW = "The Bag of Words model represents a document by the counts of its words, disregarding " +
		"grammar and word order. It is a simple but surprisingly strong baseline for spam detection."
	replySpam = "Spam classification separates unwanted messages from legitimate ones. The pipeline is: " +
		"collect labeled data, preprocess the text, vectorize it, then train and evaluate a classifier."
	replyPreprocessing = "Text preprocessing normalizes raw text before vectorization: lowercasing, " +
		"tokenization, and stop-word removal are the typical steps."
	replyTraining = "For text classification, Naive Bayes is a great starting algorithm. Evaluate it with " +
		"accuracy, precision, recall, and F1-score on held-out data."
	replyDefault = "I'm here to help with your questions about text vectorization and spam classification. " +
		"What would you like to know?"
)

var greetings = map[string]bool{"hello": true, "hi": true, "hey": true}

// fallbackReply computes a deterministic canned response from keyword
// matching on the message and, when present, the current section id.
func fallbackReply(message, currentSection string) string {
	lower := strings.ToLower(message)

	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	}) {
		if greetings[word] {
			return replyGreeting
		}
	}

	switch {
	case strings.Contains(lower, "tf-idf") || strings.Contains(lower, "tfidf"):
		return replyTFIDF
	case strings.Contains(lower, "bag of words") || strings.Contains(lower, "bow"):
		return replyBOW
	case strings.Contains(lower, "vector"):
		return replyVectorization
	case strings.Contains(lower, "preprocess") || strings.Contains(lower, "tokeniz") || strings.Contains(lower, "stop word"):
		return replyPreprocessing
	case strings.Contains(lower, "spam"):
		return replySpam
	}

	// Flavor the reply by the chapter the learner is reading.
	switch {
	case strings.HasPrefix(currentSection, "2"):
		return replyPreprocessing
	case strings.HasPrefix(currentSection, "3"):
		return replyVectorization
	case strings.HasPrefix(currentSection, "4"):
		return replyTraining
	}

	return replyDefault
}
