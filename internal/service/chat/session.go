package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResolveSession turns an optional client-supplied token into a token that is
// guaranteed to reference an existing conversation. A blank or unknown token
// silently gets a fresh conversation instead of an error; the stale token the
// client cached simply orphans its old transcript. The second return reports
// whether a new conversation was created.
func (s *Service) ResolveSession(ctx context.Context, token string) (string, bool, error) {
	token = strings.TrimSpace(token)
	if token != "" {
		exists, err := s.sessionExists(ctx, token)
		if err != nil {
			return "", false, err
		}
		if exists {
			return token, false, nil
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, created_at) VALUES (?, ?)`,
		id, now,
	); err != nil {
		return "", false, fmt.Errorf("create conversation: %w", err)
	}
	return id, true, nil
}

func (s *Service) sessionExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM conversations WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check conversation: %w", err)
	}
	return true, nil
}
