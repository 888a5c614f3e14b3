package chat

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shopchat/internal/models"
)

// Transcript returns the full ordered message list for a session token.
// A blank token is rejected before any storage access.
func (s *Service) Transcript(ctx context.Context, token string) ([]models.Message, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSession
	}
	exists, err := s.sessionExists(ctx, token)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, created_at FROM messages WHERE conversation_id = ? ORDER BY id ASC`,
		token,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// appendMessage inserts one transcript entry inside the turn transaction and
// returns its row id.
func appendMessage(ctx context.Context, tx *sql.Tx, conversationID string, sender models.Sender, text string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, sender, text, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, sender, text, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s message: %w", sender, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message id: %w", err)
	}
	return id, nil
}

// recentMessages returns up to limit messages with id below beforeID, oldest
// first. Reading inside the turn transaction keeps the window consistent with
// the writes of the same turn.
func recentMessages(ctx context.Context, tx *sql.Tx, conversationID string, beforeID int64, limit int) ([]models.Message, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, created_at FROM messages
		 WHERE conversation_id = ? AND id < ? ORDER BY id DESC LIMIT ?`,
		conversationID, beforeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer rows.Close()

	var newestFirst []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent message: %w", err)
		}
		newestFirst = append(newestFirst, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	history := make([]models.Message, len(newestFirst))
	for i, m := range newestFirst {
		history[len(newestFirst)-1-i] = m
	}
	return history, nil
}
