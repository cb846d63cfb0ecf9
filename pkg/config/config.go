package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zpam/nbeval/pkg/classifier"
	"github.com/zpam/nbeval/pkg/learning"
)

// Config represents nbeval configuration
type Config struct {
	// Frequency table storage
	Storage StorageConfig `yaml:"storage"`

	// Scoring pass settings
	Evaluation EvaluationConfig `yaml:"evaluation"`

	// Top terms report
	Reporting ReportingConfig `yaml:"reporting"`

	// Vocabulary filtering
	Vocabulary VocabularyConfig `yaml:"vocabulary"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where frequency tables are kept
type StorageConfig struct {
	// Backend selection: "file" or "redis"
	Backend string `yaml:"backend"`

	File  FileBackendConfig  `yaml:"file"`
	Redis RedisBackendConfig `yaml:"redis"`
}

// FileBackendConfig contains CSV table settings
type FileBackendConfig struct {
	// Directory holding tf.csv and df.csv
	Dir string `yaml:"dir"`
}

// RedisBackendConfig contains Redis table settings
type RedisBackendConfig struct {
	RedisURL    string `yaml:"redis_url"`
	KeyPrefix   string `yaml:"key_prefix"`
	DatabaseNum int    `yaml:"database_num"`
	TableTTL    string `yaml:"table_ttl"` // Duration string like "720h", empty = no expiry
	BatchSize   int    `yaml:"batch_size"`
}

// EvaluationConfig contains scoring settings
type EvaluationConfig struct {
	Workers   int    `yaml:"workers"`    // 1 = sequential
	ScoreMode string `yaml:"score_mode"` // log, product
}

// ReportingConfig contains report settings
type ReportingConfig struct {
	TopK int `yaml:"top_k"`
}

// VocabularyConfig contains term filter settings
type VocabularyConfig struct {
	ExcludeHyphenated bool `yaml:"exclude_hyphenated"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
			File: FileBackendConfig{
				Dir: ".",
			},
			Redis: RedisBackendConfig{
				RedisURL:    "redis://localhost:6379",
				KeyPrefix:   "nbeval",
				DatabaseNum: 0,
				TableTTL:    "",
				BatchSize:   1000,
			},
		},
		Evaluation: EvaluationConfig{
			Workers:   1,
			ScoreMode: "log",
		},
		Reporting: ReportingConfig{
			TopK: 5,
		},
		Vocabulary: VocabularyConfig{
			ExcludeHyphenated: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config file specified, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return config, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.File.Dir == "" {
			return errors.New("storage file dir cannot be empty")
		}
	case "redis":
		if c.Storage.Redis.RedisURL == "" {
			return errors.New("storage redis_url cannot be empty")
		}
		if c.Storage.Redis.KeyPrefix == "" {
			return errors.New("storage redis key_prefix cannot be empty")
		}
		if _, err := c.RedisTableTTL(); err != nil {
			return err
		}
	default:
		return errors.Errorf("storage backend must be 'file' or 'redis', got %q", c.Storage.Backend)
	}

	if c.Evaluation.Workers < 1 {
		return errors.New("evaluation workers must be >= 1")
	}

	if _, err := c.ScoreMode(); err != nil {
		return err
	}

	if c.Reporting.TopK < 1 {
		return errors.New("reporting top_k must be >= 1")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return errors.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}

// ScoreMode converts evaluation.score_mode
func (c *Config) ScoreMode() (classifier.ScoreMode, error) {
	switch c.Evaluation.ScoreMode {
	case "log", "":
		return classifier.LogSpace, nil
	case "product":
		return classifier.RawProduct, nil
	default:
		return 0, errors.Errorf("evaluation score_mode must be 'log' or 'product', got %q", c.Evaluation.ScoreMode)
	}
}

// RedisTableTTL parses storage.redis.table_ttl
func (c *Config) RedisTableTTL() (time.Duration, error) {
	if c.Storage.Redis.TableTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Storage.Redis.TableTTL)
	if err != nil {
		return 0, errors.Wrap(err, "invalid storage redis table_ttl")
	}
	return ttl, nil
}

// RedisConfig converts the Redis backend settings for the table store
func (c *Config) RedisConfig() (*learning.RedisConfig, error) {
	ttl, err := c.RedisTableTTL()
	if err != nil {
		return nil, err
	}
	return &learning.RedisConfig{
		RedisURL:    c.Storage.Redis.RedisURL,
		KeyPrefix:   c.Storage.Redis.KeyPrefix,
		DatabaseNum: c.Storage.Redis.DatabaseNum,
		TableTTL:    ttl,
		BatchSize:   c.Storage.Redis.BatchSize,
	}, nil
}

// TermFilter returns the vocabulary filter, nil when every term is kept
func (c *Config) TermFilter() learning.TermFilter {
	if c.Vocabulary.ExcludeHyphenated {
		return learning.ExcludeHyphenated
	}
	return nil
}

// IsDebug reports whether debug output is enabled
func (c *Config) IsDebug() bool {
	return c.Logging.Level == "debug"
}
