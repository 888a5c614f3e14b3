package chat

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestImportKnowledgeDir(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	svc := NewService(db, &stubGenerator{reply: "ok"}, 0)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Warranty Policy.txt"), "All products carry a 1-year warranty.")
	writeFile(t, filepath.Join(dir, "faq.md"), "Orders can be cancelled within 24 hours.")
	writeFile(t, filepath.Join(dir, "ignored.json"), `{"not": "knowledge"}`)

	added, err := svc.ImportKnowledgeDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 entries added, got %d", added)
	}

	entries, err := svc.ListKnowledge(context.Background())
	if err != nil {
		t.Fatalf("list knowledge: %v", err)
	}
	byTitle := make(map[string]string, len(entries))
	for _, e := range entries {
		byTitle[e.Title] = e.Content
	}
	if byTitle["Warranty Policy"] != "All products carry a 1-year warranty." {
		t.Fatalf("warranty entry missing or wrong: %q", byTitle["Warranty Policy"])
	}
	if byTitle["faq"] != "Orders can be cancelled within 24 hours." {
		t.Fatalf("faq entry missing or wrong: %q", byTitle["faq"])
	}
	if _, ok := byTitle["ignored"]; ok {
		t.Fatalf("non-text file should not be imported")
	}

	// Re-importing the same directory must not duplicate entries.
	added, err = svc.ImportKnowledgeDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected no new entries on re-import, got %d", added)
	}
	if n := countRows(t, db, "knowledge_base"); n != 2 {
		t.Fatalf("expected 2 knowledge rows, got %d", n)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
