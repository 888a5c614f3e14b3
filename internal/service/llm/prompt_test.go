package llm

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"shopchat/internal/models"
)

func TestBuildPromptShape(t *testing.T) {
	knowledge := []models.KnowledgeEntry{
		{Title: "Shipping", Content: "Ships in 5-7 days."},
		{Title: "Returns", Content: "Returns within 7 days."},
	}
	history := []models.Message{
		{Sender: models.SenderUser, Text: "hi"},
		{Sender: models.SenderAI, Text: "hello"},
	}

	prompt := BuildPrompt(knowledge, history, "when will my order arrive?")
	if len(prompt) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(prompt))
	}

	system := prompt[0]
	if system.Role != schema.System {
		t.Fatalf("expected system turn first, got %s", system.Role)
	}
	for _, entry := range knowledge {
		if !strings.Contains(system.Content, entry.Content) {
			t.Fatalf("system turn missing %q:\n%s", entry.Content, system.Content)
		}
	}
	if !strings.Contains(system.Content, RefusalText) {
		t.Fatalf("system turn missing refusal sentence:\n%s", system.Content)
	}

	if prompt[1].Role != schema.User || prompt[1].Content != "hi" {
		t.Fatalf("unexpected history turn %+v", prompt[1])
	}
	if prompt[2].Role != schema.Assistant || prompt[2].Content != "hello" {
		t.Fatalf("unexpected history turn %+v", prompt[2])
	}

	last := prompt[len(prompt)-1]
	if last.Role != schema.User || last.Content != "when will my order arrive?" {
		t.Fatalf("expected new user turn last, got %+v", last)
	}
}

func TestBuildPromptMapsUnknownSendersToAssistant(t *testing.T) {
	history := []models.Message{
		{Sender: "system", Text: "odd row"},
		{Sender: models.SenderUser, Text: "hi"},
		{Sender: models.SenderUser, Text: "anyone there?"},
	}

	prompt := BuildPrompt(nil, history, "hello?")
	if prompt[1].Role != schema.Assistant {
		t.Fatalf("unknown sender should map to assistant, got %s", prompt[1].Role)
	}
	// Consecutive same-role turns pass through unchanged.
	if prompt[2].Role != schema.User || prompt[3].Role != schema.User {
		t.Fatalf("expected consecutive user turns preserved, got %s then %s", prompt[2].Role, prompt[3].Role)
	}
}

func TestBuildPromptWithEmptyKnowledgeAndHistory(t *testing.T) {
	prompt := BuildPrompt(nil, nil, "hi")
	if len(prompt) != 2 {
		t.Fatalf("expected system turn plus user turn, got %d", len(prompt))
	}
	if prompt[0].Role != schema.System || prompt[1].Role != schema.User {
		t.Fatalf("unexpected roles %s, %s", prompt[0].Role, prompt[1].Role)
	}
}
