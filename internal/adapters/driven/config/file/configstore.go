package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Environment variables that override file values. API keys never belong
// in the configuration file.
const (
	envEmbeddingAPIKey  = "FAQD_EMBEDDING_API_KEY"
	envGenerationAPIKey = "FAQD_GENERATION_API_KEY"
	envAPIKey           = "FAQD_API_KEY"
)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// File values are merged over built-in defaults, so a partial file is always
// valid and a missing file yields the defaults.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configPath is empty, defaults to ~/.faqd/config.toml.
func NewConfigStore(configPath string) (*ConfigStore, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".faqd", "config.toml")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	return &ConfigStore{filePath: configPath}, nil
}

// fileConfig is the TOML file schema. Durations are written as strings
// ("30s", "5m") rather than nanosecond integers.
type fileConfig struct {
	Server struct {
		Addr            string `toml:"addr"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
	} `toml:"server"`

	Document struct {
		Path    string `toml:"path"`
		DataDir string `toml:"data_dir"`
	} `toml:"document"`

	Embedding struct {
		Provider        string `toml:"provider"`
		BaseURL         string `toml:"base_url"`
		Model           string `toml:"model"`
		Timeout         string `toml:"timeout"`
		MinQueryChars   int    `toml:"min_query_chars"`
		MinPassageChars int    `toml:"min_passage_chars"`
		MaxInputChars   int    `toml:"max_input_chars"`
		IngestDelay     string `toml:"ingest_delay"`
	} `toml:"embedding"`

	Generation struct {
		Provider    string  `toml:"provider"`
		BaseURL     string  `toml:"base_url"`
		Model       string  `toml:"model"`
		Timeout     string  `toml:"timeout"`
		Temperature float64 `toml:"temperature"`
		MaxTokens   int     `toml:"max_tokens"`
		MaxHistory  int     `toml:"max_history"`
	} `toml:"generation"`

	Retrieval struct {
		TopN           int     `toml:"top_n"`
		MinScore       float64 `toml:"min_score"`
		MinWords       int     `toml:"min_words"`
		Margin         float64 `toml:"margin"`
		RequireMargin  bool    `toml:"require_margin"`
		RequireKeyword bool    `toml:"require_keyword"`
	} `toml:"retrieval"`

	Validation struct {
		AcceptThreshold float64 `toml:"accept_threshold"`
		BlockThreshold  float64 `toml:"block_threshold"`
		LexicalAccept   float64 `toml:"lexical_accept"`
		LexicalBlock    float64 `toml:"lexical_block"`
		MaxPassages     int     `toml:"max_passages"`
	} `toml:"validation"`

	Session struct {
		TTL           string `toml:"ttl"`
		SweepInterval string `toml:"sweep_interval"`
	} `toml:"session"`
}

// Load returns the effective configuration: defaults, overlaid with file
// values, overlaid with API keys from the environment.
func (s *ConfigStore) Load() (domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return domain.Config{}, fmt.Errorf("read config file: %w", err)
		}
		// No file yet: defaults plus environment.
		applyEnv(&cfg)
		return cfg, nil
	}

	fc := toFileConfig(cfg)
	if err := toml.Unmarshal(data, &fc); err != nil {
		return domain.Config{}, fmt.Errorf("parse config file %s: %w", s.filePath, err)
	}

	cfg, err = fromFileConfig(fc)
	if err != nil {
		return domain.Config{}, fmt.Errorf("config file %s: %w", s.filePath, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save persists the configuration to disk. API keys are never written.
func (s *ConfigStore) Save(cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFileConfig(cfg))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyEnv overlays API keys from the environment. FAQD_API_KEY applies to
// both backends; the per-backend variables win over it.
func applyEnv(cfg *domain.Config) {
	if key := os.Getenv(envAPIKey); key != "" {
		cfg.Embedding.APIKey = key
		cfg.Generation.APIKey = key
	}
	if key := os.Getenv(envEmbeddingAPIKey); key != "" {
		cfg.Embedding.APIKey = key
	}
	if key := os.Getenv(envGenerationAPIKey); key != "" {
		cfg.Generation.APIKey = key
	}
}

// toFileConfig converts a domain config into the file schema.
func toFileConfig(cfg domain.Config) fileConfig {
	var fc fileConfig

	fc.Server.Addr = cfg.Server.Addr
	fc.Server.ShutdownTimeout = cfg.Server.ShutdownTimeout.String()

	fc.Document.Path = cfg.Document.Path
	fc.Document.DataDir = cfg.Document.DataDir

	fc.Embedding.Provider = string(cfg.Embedding.Provider)
	fc.Embedding.BaseURL = cfg.Embedding.BaseURL
	fc.Embedding.Model = cfg.Embedding.Model
	fc.Embedding.Timeout = cfg.Embedding.Timeout.String()
	fc.Embedding.MinQueryChars = cfg.Embedding.MinQueryChars
	fc.Embedding.MinPassageChars = cfg.Embedding.MinPassageChars
	fc.Embedding.MaxInputChars = cfg.Embedding.MaxInputChars
	fc.Embedding.IngestDelay = cfg.Embedding.IngestDelay.String()

	fc.Generation.Provider = string(cfg.Generation.Provider)
	fc.Generation.BaseURL = cfg.Generation.BaseURL
	fc.Generation.Model = cfg.Generation.Model
	fc.Generation.Timeout = cfg.Generation.Timeout.String()
	fc.Generation.Temperature = cfg.Generation.Temperature
	fc.Generation.MaxTokens = cfg.Generation.MaxTokens
	fc.Generation.MaxHistory = cfg.Generation.MaxHistory

	fc.Retrieval.TopN = cfg.Retrieval.TopN
	fc.Retrieval.MinScore = cfg.Retrieval.MinScore
	fc.Retrieval.MinWords = cfg.Retrieval.MinWords
	fc.Retrieval.Margin = cfg.Retrieval.Margin
	fc.Retrieval.RequireMargin = cfg.Retrieval.RequireMargin
	fc.Retrieval.RequireKeyword = cfg.Retrieval.RequireKeyword

	fc.Validation.AcceptThreshold = cfg.Validation.AcceptThreshold
	fc.Validation.BlockThreshold = cfg.Validation.BlockThreshold
	fc.Validation.LexicalAccept = cfg.Validation.LexicalAccept
	fc.Validation.LexicalBlock = cfg.Validation.LexicalBlock
	fc.Validation.MaxPassages = cfg.Validation.MaxPassages

	fc.Session.TTL = cfg.Session.TTL.String()
	fc.Session.SweepInterval = cfg.Session.SweepInterval.String()

	return fc
}

// fromFileConfig converts the file schema back into a domain config.
func fromFileConfig(fc fileConfig) (domain.Config, error) {
	var cfg domain.Config
	var err error

	cfg.Server.Addr = fc.Server.Addr
	if cfg.Server.ShutdownTimeout, err = parseDuration("server.shutdown_timeout", fc.Server.ShutdownTimeout); err != nil {
		return domain.Config{}, err
	}

	cfg.Document.Path = fc.Document.Path
	cfg.Document.DataDir = fc.Document.DataDir

	cfg.Embedding.Provider = domain.AIProvider(fc.Embedding.Provider)
	cfg.Embedding.BaseURL = fc.Embedding.BaseURL
	cfg.Embedding.Model = fc.Embedding.Model
	if cfg.Embedding.Timeout, err = parseDuration("embedding.timeout", fc.Embedding.Timeout); err != nil {
		return domain.Config{}, err
	}
	cfg.Embedding.MinQueryChars = fc.Embedding.MinQueryChars
	cfg.Embedding.MinPassageChars = fc.Embedding.MinPassageChars
	cfg.Embedding.MaxInputChars = fc.Embedding.MaxInputChars
	if cfg.Embedding.IngestDelay, err = parseDuration("embedding.ingest_delay", fc.Embedding.IngestDelay); err != nil {
		return domain.Config{}, err
	}

	cfg.Generation.Provider = domain.AIProvider(fc.Generation.Provider)
	cfg.Generation.BaseURL = fc.Generation.BaseURL
	cfg.Generation.Model = fc.Generation.Model
	if cfg.Generation.Timeout, err = parseDuration("generation.timeout", fc.Generation.Timeout); err != nil {
		return domain.Config{}, err
	}
	cfg.Generation.Temperature = fc.Generation.Temperature
	cfg.Generation.MaxTokens = fc.Generation.MaxTokens
	cfg.Generation.MaxHistory = fc.Generation.MaxHistory

	cfg.Retrieval.TopN = fc.Retrieval.TopN
	cfg.Retrieval.MinScore = fc.Retrieval.MinScore
	cfg.Retrieval.MinWords = fc.Retrieval.MinWords
	cfg.Retrieval.Margin = fc.Retrieval.Margin
	cfg.Retrieval.RequireMargin = fc.Retrieval.RequireMargin
	cfg.Retrieval.RequireKeyword = fc.Retrieval.RequireKeyword

	cfg.Validation.AcceptThreshold = fc.Validation.AcceptThreshold
	cfg.Validation.BlockThreshold = fc.Validation.BlockThreshold
	cfg.Validation.LexicalAccept = fc.Validation.LexicalAccept
	cfg.Validation.LexicalBlock = fc.Validation.LexicalBlock
	cfg.Validation.MaxPassages = fc.Validation.MaxPassages

	if cfg.Session.TTL, err = parseDuration("session.ttl", fc.Session.TTL); err != nil {
		return domain.Config{}, err
	}
	if cfg.Session.SweepInterval, err = parseDuration("session.sweep_interval", fc.Session.SweepInterval); err != nil {
		return domain.Config{}, err
	}

	return cfg, nil
}

// parseDuration parses a duration string, treating empty as zero.
func parseDuration(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}
