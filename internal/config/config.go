// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest):
//  1. Environment variables (prefix ZONDA_, e.g. ZONDA_MODEL_NAME)
//  2. Config file (~/.zonda-intel/config.yaml or ./config.yaml)
//  3. Default values
//
// Validation is fail-fast: Load returns a typed error before any component
// sees an invalid value. Confidence thresholds live here because they are
// contract values the answer tests assert on.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation, checked with errors.Is().
var (
	// ErrInvalidModelName indicates an empty generation model name.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates an empty embedder model name.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidDimension indicates a non-positive embedding dimension.
	ErrInvalidDimension = errors.New("invalid embedding dimension")

	// ErrInvalidTopK indicates a retrieval top-k outside [1, 50].
	ErrInvalidTopK = errors.New("invalid top-k")

	// ErrInvalidTimeout indicates a non-positive upstream timeout.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidThresholds indicates confidence cut points that are not
	// ordered 0 < medium < high <= 1.
	ErrInvalidThresholds = errors.New("invalid confidence thresholds")

	// ErrInvalidSnapshotPath indicates an empty index snapshot path.
	ErrInvalidSnapshotPath = errors.New("invalid snapshot path")
)

const (
	// DefaultEmbedderModel is the Gemini embedding model.
	// gemini-embedding-001 outputs 3072 dimensions by default.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultDimension matches DefaultEmbedderModel's output width.
	DefaultDimension = 3072

	// DefaultModelName is the generation model.
	DefaultModelName = "gemini-2.0-flash"

	// DefaultTopK is the number of candidates retrieved per question.
	DefaultTopK = 3
)

// Config stores application configuration.
type Config struct {
	// Generation model configuration
	ModelName string `mapstructure:"model_name"`

	// Embedding configuration
	EmbedderModel string `mapstructure:"embedder_model"`
	Dimension     int    `mapstructure:"dimension"`

	// Retrieval configuration
	TopK int `mapstructure:"top_k"`

	// Upstream call deadlines
	EmbedTimeout    time.Duration `mapstructure:"embed_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`

	// Index snapshot location
	SnapshotPath string `mapstructure:"snapshot_path"`

	// Confidence cut points applied to the top candidate score.
	// Part of the answer contract; see internal/answer.
	HighThreshold   float64 `mapstructure:"high_threshold"`
	MediumThreshold float64 `mapstructure:"medium_threshold"`

	// Logging
	LogJSON bool `mapstructure:"log_json"`
}

// Load loads configuration with env > file > defaults priority.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".zonda-intel")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)

	v.SetEnvPrefix("ZONDA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("dimension", DefaultDimension)
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("embed_timeout", 15*time.Second)
	v.SetDefault("generate_timeout", 60*time.Second)
	v.SetDefault("snapshot_path", filepath.Join(configDir, "index.snapshot"))
	v.SetDefault("high_threshold", 0.75)
	v.SetDefault("medium_threshold", 0.50)
	v.SetDefault("log_json", false)
}

// Validate checks all configuration values and returns the first violation.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidEmbedderModel)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDimension, c.Dimension)
	}
	if c.TopK < 1 || c.TopK > 50 {
		return fmt.Errorf("%w: got %d, want 1-50", ErrInvalidTopK, c.TopK)
	}
	if c.EmbedTimeout <= 0 {
		return fmt.Errorf("%w: embed_timeout %v", ErrInvalidTimeout, c.EmbedTimeout)
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("%w: generate_timeout %v", ErrInvalidTimeout, c.GenerateTimeout)
	}
	if c.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot path must not be empty", ErrInvalidSnapshotPath)
	}
	if c.MediumThreshold <= 0 || c.HighThreshold <= c.MediumThreshold || c.HighThreshold > 1 {
		return fmt.Errorf("%w: medium=%v high=%v", ErrInvalidThresholds,
			c.MediumThreshold, c.HighThreshold)
	}
	return nil
}
