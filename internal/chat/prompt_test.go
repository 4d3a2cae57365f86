package chat

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessagesWithoutContext(t *testing.T) {
	msgs := buildMessages("hello", Context{})

	require.Len(t, msgs, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, systemPrompt, msgs[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestBuildMessagesWithContext(t *testing.T) {
	msgs := buildMessages("why is this wrong?", Context{
		CurrentSection:         "3.2",
		SectionContent:         "The three main techniques are BOW, TF-IDF, and embeddings.",
		LastCheckpointQuestion: "Which technique is NOT discussed?",
		UserChoices:            map[string]any{"3.2": "d"},
	})

	require.Len(t, msgs, 2)
	user := msgs[1].Content
	assert.Contains(t, user, "section 3.2")
	assert.Contains(t, user, "The three main techniques")
	assert.Contains(t, user, "Which technique is NOT discussed?")
	assert.Contains(t, user, `"3.2":"d"`)
	assert.Contains(t, user, "Learner message: why is this wrong?")
}
