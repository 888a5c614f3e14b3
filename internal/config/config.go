package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       *RedisConfig              `json:"redis,omitempty"`
	Providers   map[string]ProviderConfig `json:"providers"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	// Provider selects the Providers entry used for reply generation.
	Provider string `json:"provider"`
	// HistoryWindow is the number of recent transcript messages included in a prompt.
	HistoryWindow int `json:"history_window"`
	// KnowledgeDir optionally points at a directory of .txt/.md snippets imported
	// into the knowledge base at startup.
	KnowledgeDir string `json:"knowledge_dir"`
	FrontendURL  string `json:"frontend_url"`
	// RateLimitPerMinute caps /chat requests per client IP. Zero disables limiting.
	RateLimitPerMinute int `json:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(cfg.Databases) == 0 {
		return nil, fmt.Errorf("at least one database must be configured")
	}
	if cfg.BasicConfig.Provider == "" {
		cfg.BasicConfig.Provider = "openai"
	}
	if cfg.BasicConfig.HistoryWindow <= 0 {
		cfg.BasicConfig.HistoryWindow = 10
	}

	return &cfg, nil
}
