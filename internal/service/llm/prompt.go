package llm

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"shopchat/internal/models"
)

// RefusalText is the fixed sentence the model is instructed to answer with
// whenever the store knowledge does not cover a question.
const RefusalText = "I'm not sure about that. Please contact support."

const systemPromptTemplate = `You are a helpful customer support agent for a small e-commerce store.

Rules:
- You may respond to greetings (e.g., "hi", "hello") with a short polite greeting.
- For all other questions, use ONLY the provided store knowledge.
- Answer clearly and concisely.
- Use ONLY the provided context.
- You are not allowed to guess, assume, or generalize.
- Do NOT hallucinate or invent policies.
- If the answer is not present in the knowledge, respond with:
  "%s"

You MUST NOT answer questions outside the store knowledge.

Store Knowledge:
%s
`

// BuildPrompt assembles the bounded model request: the grounding system turn,
// the supplied history window oldest-first, and the new user turn last. The
// history must already exclude the new turn; it is appended here exactly once.
func BuildPrompt(knowledge []models.KnowledgeEntry, history []models.Message, userText string) []*schema.Message {
	contents := make([]string, 0, len(knowledge))
	for _, entry := range knowledge {
		contents = append(contents, entry.Content)
	}
	systemPrompt := fmt.Sprintf(systemPromptTemplate, RefusalText, strings.Join(contents, "\n"))

	prompt := make([]*schema.Message, 0, len(history)+2)
	prompt = append(prompt, &schema.Message{Role: schema.System, Content: systemPrompt})
	for _, msg := range history {
		role := schema.Assistant
		if msg.Sender == models.SenderUser {
			role = schema.User
		}
		prompt = append(prompt, &schema.Message{Role: role, Content: msg.Text})
	}
	prompt = append(prompt, &schema.Message{Role: schema.User, Content: userText})
	return prompt
}
