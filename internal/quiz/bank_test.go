package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUnknownSectionReturnsDefault(t *testing.T) {
	bank := NewBank()

	for _, id := range []string{"", "9.9", "nope", "4.3"} {
		q := bank.Lookup(id)
		assert.Equal(t, defaultQuestion.Question, q.Question, "section %q", id)
		assert.Equal(t, "a", q.CorrectAnswerID)
	}
}

func TestDefaultQuestionIsValid(t *testing.T) {
	require.NoError(t, defaultQuestion.Validate())
	assert.NotEmpty(t, defaultQuestion.OptionText(defaultQuestion.CorrectAnswerID))
}

func TestAllBankRecordsAreValid(t *testing.T) {
	bank := NewBank()

	for _, id := range bank.SectionIDs() {
		q := bank.Lookup(id)
		require.NoErrorf(t, q.Validate(), "section %s", id)
		assert.NotEmpty(t, q.Options, "section %s", id)
	}
}

func TestLookupKnownSection(t *testing.T) {
	bank := NewBank()

	q := bank.Lookup("1.2")
	assert.Contains(t, q.Question, "spam classification process")
	assert.Equal(t, "d", q.CorrectAnswerID)
	assert.True(t, bank.Has("1.2"))
	assert.False(t, bank.Has("5.1"))
}
