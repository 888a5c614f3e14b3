package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"

	"shopchat/internal/models"
)

// ListKnowledge returns every knowledge snippet in storage order.
func (s *Service) ListKnowledge(ctx context.Context) ([]models.KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, content FROM knowledge_base ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}
	defer rows.Close()

	var entries []models.KnowledgeEntry
	for rows.Next() {
		var e models.KnowledgeEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Content); err != nil {
			return nil, fmt.Errorf("scan knowledge entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ImportKnowledgeDir loads every .txt/.md file beneath dir into the knowledge
// base, one entry per file titled by its base name. Titles already present are
// left untouched, so re-importing on startup is safe. Returns the number of
// entries added.
func (s *Service) ImportKnowledgeDir(ctx context.Context, dir string) (int, error) {
	parserExt, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return 0, fmt.Errorf("init knowledge parser: %w", err)
	}
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      parserExt,
	})
	if err != nil {
		return 0, fmt.Errorf("init knowledge loader: %w", err)
	}

	added := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		docs, err := loader.Load(ctx, document.Source{URI: path})
		if err != nil {
			return fmt.Errorf("load knowledge file %s: %w", path, err)
		}
		var builder strings.Builder
		for _, doc := range docs {
			content := strings.TrimSpace(doc.Content)
			if content == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n\n")
			}
			builder.WriteString(content)
		}
		content := builder.String()
		if content == "" {
			return nil
		}

		title := strings.TrimSuffix(filepath.Base(path), ext)
		inserted, err := s.addKnowledgeEntry(ctx, title, content)
		if err != nil {
			return err
		}
		if inserted {
			added++
		}
		return nil
	})
	if err != nil {
		return added, err
	}
	return added, nil
}

// addKnowledgeEntry inserts a snippet unless its title already exists.
func (s *Service) addKnowledgeEntry(ctx context.Context, title, content string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM knowledge_base WHERE title = ?`, title).Scan(&one)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check knowledge title: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_base (title, content) VALUES (?, ?)`,
		title, content,
	); err != nil {
		return false, fmt.Errorf("insert knowledge %q: %w", title, err)
	}
	return true, nil
}
