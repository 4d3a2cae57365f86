// Package chat relays tutorial conversations to an OpenAI-compatible
// completion endpoint and degrades to deterministic local replies when the
// upstream is unavailable.
package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// systemPrompt is the fixed tutor persona sent with every completion call.
const systemPrompt = "You are an expert in project-based learning. You specialize in teaching AI and deep learning through projects. " +
	"Task: The learner wants to discuss some content in the tutorial with you. You will be given the framework of the tutorial, " +
	"a summary of the learner's current progress, and the content they have questions about. " +
	"Requirements: " +
	"1. Be engaging, helpful, and ready to answer questions as long as they relate to the tutorial. Do not give away " +
	"the full answer to a complex question right away. Guide the learner to think first. Progressively provide more " +
	"assistance if the learner has trouble figuring out the problem on their own. " +
	"2. If the learner deviates too much from the tutorial, remind them to stay on track. " +
	"3. Encourage the learner when needed, such as when they have trouble fixing a bug. " +
	"4. All math formulas should be written in LaTex format and surrounded by dollar signs ($ or $$). " +
	"5. All hyperlinks should be written in markdown format like this: [link text](link URL)."

// Context carries the optional tutorial state sent alongside a message.
type Context struct {
	CurrentSection         string
	SectionContent         string
	LastCheckpointQuestion string
	UserChoices            map[string]any
}

// buildMessages assembles the completion request: the fixed system prompt
// plus one user message with the tutorial context prepended.
func buildMessages(message string, tc Context) []openai.ChatCompletionMessage {
	var b strings.Builder

	if tc.CurrentSection != "" {
		fmt.Fprintf(&b, "The learner is currently reading section %s.\n", tc.CurrentSection)
	}
	if tc.SectionContent != "" {
		fmt.Fprintf(&b, "Section content:\n%s\n", tc.SectionContent)
	}
	if tc.LastCheckpointQuestion != "" {
		fmt.Fprintf(&b, "The last checkpoint question was: %s\n", tc.LastCheckpointQuestion)
	}
	if len(tc.UserChoices) > 0 {
		if choices, err := json.Marshal(tc.UserChoices); err == nil {
			fmt.Fprintf(&b, "The learner's previous checkpoint answers: %s\n", choices)
		}
	}
	if b.Len() > 0 {
		b.WriteString("\nLearner message: ")
	}
	b.WriteString(message)

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	}
}
