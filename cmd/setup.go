package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/joho/godotenv"

	"github.com/modenalabs/zonda-intel/internal/answer"
	"github.com/modenalabs/zonda-intel/internal/assistant"
	"github.com/modenalabs/zonda-intel/internal/config"
	"github.com/modenalabs/zonda-intel/internal/embed"
	"github.com/modenalabs/zonda-intel/internal/log"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg       *config.Config
	logger    log.Logger
	assistant *assistant.Assistant
}

// newApp loads configuration and wires the full answer pipeline. The
// index itself is brought up separately so reindex can skip the restore.
func newApp(ctx context.Context) (*app, error) {
	// Local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.NewWithWriter(os.Stderr, log.Config{
		Level: logLevel(),
		JSON:  cfg.LogJSON,
	})

	if err := checkRequiredEnv(); err != nil {
		return nil, err
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	gateway := embed.NewGateway(embedder, cfg.Dimension, cfg.EmbedTimeout, logger)

	thresholds := answer.Thresholds{
		High:   float32(cfg.HighThreshold),
		Medium: float32(cfg.MediumThreshold),
	}
	generator := answer.NewGenerator(g, "googleai/"+cfg.ModelName, cfg.GenerateTimeout, thresholds, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		assistant: assistant.New(gateway, generator, cfg.TopK, cfg.SnapshotPath, logger),
	}, nil
}

func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func checkRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "zonda-intel requires a Gemini API key.")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get your API key at: https://ai.google.dev/")
		return fmt.Errorf("GEMINI_API_KEY not set")
	}
	return nil
}
