package model

import "time"

// Config holds all runtime settings for the service and the CLI
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Vocab       VocabConfig       `yaml:"vocab" mapstructure:"vocab"`
	Mapping     MappingConfig     `yaml:"mapping" mapstructure:"mapping"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// HTTPConfig controls upstream fetches
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-fetch timeout, expiry counts as not found
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxAttempts   int           `yaml:"max_attempts" mapstructure:"max_attempts"` // Attempts per fetch for transient failures
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"` // Honour robots.txt of the vocabulary host
}

// CacheConfig controls the raw-text and normalized-record tiers
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir         string        `yaml:"dir" mapstructure:"dir"`               // Optional disk tier for raw text; empty disables it
	MemoryTTL   time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"` // 0 keeps raw text until evicted by max_raw
	DiskTTL     time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	MaxRaw      int           `yaml:"max_raw" mapstructure:"max_raw"`           // LRU bound on raw documents held in memory
	MaxRecords  int           `yaml:"max_records" mapstructure:"max_records"`   // LRU bound on normalized records
	WarnRecords int           `yaml:"warn_records" mapstructure:"warn_records"` // Log a warning once the record tier grows past this
}

// RateLimitConfig throttles requests to the vocabulary host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// VocabConfig describes the source vocabulary
type VocabConfig struct {
	BaseURL     string   `yaml:"base_url" mapstructure:"base_url"`         // Prefix joined with numeric identifiers
	ContextFile string   `yaml:"context_file" mapstructure:"context_file"` // JSON-LD context; empty uses the built-in one
	Prefixes    []string `yaml:"prefixes" mapstructure:"prefixes"`         // Context aliases expanded by the resolver
}

// MappingConfig toggles optional parts of the mapping
type MappingConfig struct {
	Sources bool `yaml:"sources" mapstructure:"sources"` // Attach cited sources to names and notes
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "ulancrm/0.1 (+https://github.com/ppiankov/ulancrm)",
			MaxBodyBytes: 4_000_000,
			MaxAttempts:  3,
		},
		Cache: CacheConfig{
			Enabled:     true,
			DiskTTL:     24 * time.Hour,
			MaxRaw:      1000,
			MaxRecords:  500,
			WarnRecords: 200,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Vocab: VocabConfig{
			BaseURL:  "http://vocab.getty.edu/ulan/",
			Prefixes: []string{"aat", "ulan", "tgn"},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
