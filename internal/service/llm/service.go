package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"shopchat/internal/config"
)

// Generation parameters: near-deterministic sampling, bounded reply size.
const (
	replyTemperature float32 = 0.2
	replyMaxTokens           = 300
)

// User-facing fallback sentences. Provider failures never leave this package
// as errors; callers always receive one of these or real model output.
const (
	FallbackEmpty      = "Sorry, I couldn't generate a response."
	FallbackRateLimit  = "I'm getting too many requests right now. Please try again in a moment."
	FallbackCredential = "Service configuration issue. Please contact support."
	FallbackTimeout    = "The response took too long. Please try again."
	FallbackGeneric    = "Sorry, I'm having trouble right now. Please try again later."
)

// Service calls the configured chat-completion provider.
type Service struct {
	chatModel model.BaseChatModel
}

// NewService builds the provider client named by cfg.BasicConfig.Provider.
func NewService(cfg *config.Config) (*Service, error) {
	provider := cfg.BasicConfig.Provider
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	temp := replyTemperature
	maxTokens := replyMaxTokens

	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			BaseURL:     provCfg.BaseURL,
			Model:       provCfg.Model,
			APIKey:      provCfg.APIKey,
			Temperature: &temp,
			MaxTokens:   &maxTokens,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(context.Background(), &gemini.Config{
			Client:      client,
			Model:       provCfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temp,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(context.Background(), &claude.Config{
			APIKey:      provCfg.APIKey,
			Model:       provCfg.Model,
			BaseURL:     baseURLPtr,
			MaxTokens:   replyMaxTokens,
			Temperature: &temp,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &Service{chatModel: chatModel}, nil
}

// Reply invokes the provider with the assembled prompt. This is a terminal
// boundary: any provider failure is logged and mapped to fallback text, so the
// caller always gets a usable string.
func (s *Service) Reply(ctx context.Context, prompt []*schema.Message) string {
	resp, err := s.chatModel.Generate(ctx, prompt,
		model.WithTemperature(replyTemperature),
		model.WithMaxTokens(replyMaxTokens),
	)
	if err != nil {
		log.Printf("llm generate failed: %v", err)
		return fallbackFor(err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return FallbackEmpty
	}
	return text
}

// fallbackFor classifies a provider failure into one of the fixed user-safe
// sentences. Provider SDKs do not share an error taxonomy, so classification
// leans on status codes and well-known phrases in the error text.
func fallbackFor(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return FallbackTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429"):
		return FallbackRateLimit
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "401"):
		return FallbackCredential
	case strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded"):
		return FallbackTimeout
	default:
		return FallbackGeneric
	}
}
