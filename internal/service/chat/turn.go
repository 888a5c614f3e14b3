package chat

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shopchat/internal/models"
	"shopchat/internal/service/llm"
)

// TurnResult carries the generated reply and the session token the turn
// landed in.
type TurnResult struct {
	Reply      string
	SessionID  string
	NewSession bool
}

// HandleTurn runs one conversation turn: validate the message, resolve the
// session, then inside one transaction persist the user turn, assemble a
// grounded prompt from the recent history, generate the reply and persist it.
// Either both new messages commit or neither does.
func (s *Service) HandleTurn(ctx context.Context, rawMessage, clientToken string) (*TurnResult, error) {
	if strings.TrimSpace(rawMessage) == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(rawMessage) > MaxMessageLen {
		return nil, ErrMessageTooLong
	}

	token, created, err := s.ResolveSession(ctx, clientToken)
	if err != nil {
		return nil, err
	}

	knowledge, err := s.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin turn: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	userMsgID, err := appendMessage(ctx, tx, token, models.SenderUser, rawMessage)
	if err != nil {
		return nil, err
	}
	// The window stops short of the row just written; the assembler appends the
	// new user turn itself, so the model sees the latest text exactly once.
	history, err := recentMessages(ctx, tx, token, userMsgID, s.historyWindow)
	if err != nil {
		return nil, err
	}

	prompt := llm.BuildPrompt(knowledge, history, rawMessage)
	reply := s.generator.Reply(ctx, prompt)

	if _, err = appendMessage(ctx, tx, token, models.SenderAI, reply); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit turn: %w", err)
	}

	return &TurnResult{Reply: reply, SessionID: token, NewSession: created}, nil
}
