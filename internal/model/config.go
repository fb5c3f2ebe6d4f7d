package model

import "time"

// Config holds process-wide configuration. Read-only after initialization;
// shared freely across concurrent requests.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Cache  CacheConfig  `yaml:"cache"`
	LLM    LLMConfig    `yaml:"llm"`
	Server ServerConfig `yaml:"server"`
}

// HTTPConfig controls document fetching.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// CacheConfig controls the document/embedding cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"` // Empty disables the disk layer
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// LLMConfig selects and tunes the embedding/completion provider.
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // "openai" or "ollama"
	Model             string  `yaml:"model"`
	EmbeddingModel    string  `yaml:"embedding_model"`
	APIKey            string  `yaml:"api_key,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	Timeout           int     `yaml:"timeout"` // seconds, per external call
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	BearerToken     string `yaml:"bearer_token,omitempty"`
	QuestionWorkers int    `yaml:"question_workers"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "insurance-llm/1.0 (+https://github.com/harshith-ashok/insurance-llm)",
			MaxBodyBytes:  20_000_000,
			RespectRobots: false,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:          "openai",
			Model:             "gpt-4",
			EmbeddingModel:    "text-embedding-ada-002",
			Timeout:           30,
			MaxTokens:         1000,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Server: ServerConfig{
			Addr:            ":8000",
			QuestionWorkers: 4,
		},
	}
}
