package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"shopchat/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database selected by dbType using the matching entry of
// cfg.Databases.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		// One pooled connection: sqlite allows a single writer and the
		// foreign_keys pragma is per-connection.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS conversations (
				id TEXT PRIMARY KEY,
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS messages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id TEXT NOT NULL,
				sender TEXT NOT NULL CHECK (sender IN ('user', 'ai')),
				text TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)`,
			`CREATE TABLE IF NOT EXISTS knowledge_base (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL UNIQUE,
				content TEXT NOT NULL
			)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS conversations (
				id VARCHAR(36) NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS messages (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				conversation_id VARCHAR(36) NOT NULL,
				sender ENUM('user', 'ai') NOT NULL,
				text TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_messages_conversation (conversation_id),
				CONSTRAINT fk_messages_conversation FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS knowledge_base (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				title VARCHAR(255) NOT NULL UNIQUE,
				content TEXT NOT NULL,
				PRIMARY KEY (id)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}

// seedEntries is the fixed knowledge base every deployment starts with.
var seedEntries = [][2]string{
	{"Shipping Policy", "We ship within India and USA. Delivery takes 5-7 business days."},
	{"Return Policy", "Returns are accepted within 7 days of delivery if the product is unused."},
	{"Support Hours", "Customer Support is available Monday to Friday, 9am to 6pm IST."},
}

// SeedKnowledge inserts the default knowledge snippets, skipping titles that
// already exist so repeated startups are safe.
func SeedKnowledge(db *sql.DB, driver string) error {
	var stmt string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmt = `INSERT OR IGNORE INTO knowledge_base (title, content) VALUES (?, ?)`
	case "mysql":
		stmt = `INSERT IGNORE INTO knowledge_base (title, content) VALUES (?, ?)`
	default:
		return fmt.Errorf("unsupported driver for seeding: %s", driver)
	}
	for _, entry := range seedEntries {
		if _, err := db.Exec(stmt, entry[0], entry[1]); err != nil {
			return fmt.Errorf("seed knowledge %q: %w", entry[0], err)
		}
	}
	return nil
}
