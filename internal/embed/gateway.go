// Package embed wraps an external embedding provider behind a fixed-dimension
// gateway.
//
// The gateway is the only component that talks to the embedding model. It
// enforces a single vector dimension for the whole deployment: a provider
// that suddenly returns a different width is a configuration fault, not a
// transient failure, and gets its own error so callers do not retry it.
package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/firebase/genkit/go/ai"
)

// Sentinel errors checked with errors.Is().
var (
	// ErrUnavailable indicates the provider is unreachable or returned
	// malformed output (empty or non-numeric vectors).
	ErrUnavailable = errors.New("embedding provider unavailable")

	// ErrTimeout indicates the embedding call exceeded its deadline.
	ErrTimeout = errors.New("embedding timed out")

	// ErrDimension indicates the provider returned a vector whose length
	// disagrees with the configured dimension. Fatal configuration error,
	// never retryable.
	ErrDimension = errors.New("unexpected embedding dimension")
)

// Gateway converts text to fixed-dimension vectors via a genkit embedder.
// Safe for concurrent use.
type Gateway struct {
	embedder  ai.Embedder
	dimension int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewGateway creates a Gateway producing vectors of the given dimension.
// Calls are bounded by timeout; on expiry they fail with ErrTimeout.
func NewGateway(embedder ai.Embedder, dimension int, timeout time.Duration, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		embedder:  embedder,
		dimension: dimension,
		timeout:   timeout,
		logger:    logger,
	}
}

// Dimension returns the configured vector width.
func (g *Gateway) Dimension() int {
	return g.dimension
}

// Embed converts a single text to its embedding vector.
// The returned vector is not normalized; normalization is the index's job.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch converts multiple texts in one provider round trip.
// All vectors are validated against the configured dimension.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no input texts", ErrUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	input := make([]*ai.Document, len(texts))
	for i, text := range texts {
		input[i] = ai.DocumentFromText(text, nil)
	}

	resp, err := g.embedder.Embed(callCtx, &ai.EmbedRequest{Input: input})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			ErrUnavailable, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		vec := emb.Embedding
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: empty vector at position %d", ErrUnavailable, i)
		}
		if len(vec) != g.dimension {
			return nil, fmt.Errorf("%w: got %d, configured %d",
				ErrDimension, len(vec), g.dimension)
		}
		for _, v := range vec {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return nil, fmt.Errorf("%w: non-finite value at position %d", ErrUnavailable, i)
			}
		}
		vectors[i] = vec
	}

	g.logger.Debug("embedded texts", "count", len(texts), "dimension", g.dimension)
	return vectors, nil
}
