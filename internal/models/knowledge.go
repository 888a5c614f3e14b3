package models

// KnowledgeEntry is one titled snippet of store knowledge. Entries are seeded
// at startup and read-only afterwards; every prompt embeds all of them.
type KnowledgeEntry struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
