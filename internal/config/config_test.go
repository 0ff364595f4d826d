package config

import (
	"errors"
	"testing"
	"time"
)

// validConfig returns a Config that passes Validate.
func validConfig() Config {
	return Config{
		ModelName:       DefaultModelName,
		EmbedderModel:   DefaultEmbedderModel,
		Dimension:       DefaultDimension,
		TopK:            DefaultTopK,
		EmbedTimeout:    15 * time.Second,
		GenerateTimeout: 60 * time.Second,
		SnapshotPath:    "/tmp/index.snapshot",
		HighThreshold:   0.75,
		MediumThreshold: 0.50,
	}
}

func TestValidateOK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on valid config: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty embedder model",
			mutate:  func(c *Config) { c.EmbedderModel = "" },
			wantErr: ErrInvalidEmbedderModel,
		},
		{
			name:    "zero dimension",
			mutate:  func(c *Config) { c.Dimension = 0 },
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "negative dimension",
			mutate:  func(c *Config) { c.Dimension = -3072 },
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "top-k zero",
			mutate:  func(c *Config) { c.TopK = 0 },
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "top-k too large",
			mutate:  func(c *Config) { c.TopK = 51 },
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "zero embed timeout",
			mutate:  func(c *Config) { c.EmbedTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero generate timeout",
			mutate:  func(c *Config) { c.GenerateTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "empty snapshot path",
			mutate:  func(c *Config) { c.SnapshotPath = "" },
			wantErr: ErrInvalidSnapshotPath,
		},
		{
			name:    "thresholds inverted",
			mutate:  func(c *Config) { c.HighThreshold = 0.4 },
			wantErr: ErrInvalidThresholds,
		},
		{
			name:    "high threshold above one",
			mutate:  func(c *Config) { c.HighThreshold = 1.5 },
			wantErr: ErrInvalidThresholds,
		},
		{
			name:    "medium threshold zero",
			mutate:  func(c *Config) { c.MediumThreshold = 0 },
			wantErr: ErrInvalidThresholds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults: %v", err)
	}
	if cfg.Dimension != DefaultDimension {
		t.Errorf("Dimension = %d, want %d", cfg.Dimension, DefaultDimension)
	}
	if cfg.TopK != DefaultTopK {
		t.Errorf("TopK = %d, want %d", cfg.TopK, DefaultTopK)
	}
	if cfg.HighThreshold <= cfg.MediumThreshold {
		t.Errorf("default thresholds not ordered: medium=%v high=%v",
			cfg.MediumThreshold, cfg.HighThreshold)
	}
}
