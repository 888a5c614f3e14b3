package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cloudwego/eino/schema"
)

const (
	// DefaultHistoryWindow is the number of recent transcript messages included
	// in each prompt when no override is configured.
	DefaultHistoryWindow = 10
	// MaxMessageLen bounds an inbound user message, in characters.
	MaxMessageLen = 200
)

// Client-input and lookup failures, mapped to HTTP statuses by the API layer.
var (
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrMessageTooLong  = errors.New("message too long")
	ErrInvalidSession  = errors.New("invalid session id")
	ErrSessionNotFound = errors.New("session not found")
)

// ReplyGenerator produces the assistant turn for an assembled prompt. It must
// not fail: provider errors are absorbed and mapped to user-safe fallback text
// before reaching this interface.
type ReplyGenerator interface {
	Reply(ctx context.Context, prompt []*schema.Message) string
}

// Service orchestrates conversations: session resolution, transcript
// persistence, grounded prompt assembly and reply generation. It holds no
// state across requests beyond the injected handles.
type Service struct {
	db            *sql.DB
	generator     ReplyGenerator
	historyWindow int
}

// NewService constructs the conversation service.
func NewService(db *sql.DB, generator ReplyGenerator, historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &Service{
		db:            db,
		generator:     generator,
		historyWindow: historyWindow,
	}
}
