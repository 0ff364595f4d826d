// Package retrieve orchestrates query embedding, role-filtered index
// search, and candidate ranking.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/modenalabs/zonda-intel/internal/access"
	"github.com/modenalabs/zonda-intel/internal/corpus"
	"github.com/modenalabs/zonda-intel/internal/index"
)

// ErrUnavailable indicates retrieval could not run because the embedding
// upstream failed. It is surfaced instead of an empty result set: an empty
// set means "no relevant documents" and would lead the generator to decline
// when it should have retried.
var ErrUnavailable = errors.New("retrieval unavailable")

// Candidate is one ranked retrieval result, consumed by the generator and
// discarded after the answer is produced.
type Candidate struct {
	Document corpus.Document
	Score    float32 // Cosine similarity in [-1, 1]
	Rank     int     // 1-based position in the result
}

// Embedder converts a query to its embedding vector.
// Implemented by *embed.Gateway; defined here so tests can substitute.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher answers similarity searches over the corpus.
// Implemented by *index.Index.
type Searcher interface {
	Search(query []float32, k int, allowed func(corpus.Document) bool) ([]index.Hit, error)
}

// Retriever produces ranked, role-filtered candidates for a question.
// Safe for concurrent use.
type Retriever struct {
	embedder Embedder
	searcher Searcher
	logger   *slog.Logger
}

// New creates a Retriever over the given embedder and index.
func New(embedder Embedder, searcher Searcher, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		logger:   logger,
	}
}

// Retrieve embeds the question, searches the index restricted to documents
// the caller's role covers, and returns candidates in descending score
// order. An empty slice means no eligible documents matched, which is a
// valid outcome; upstream failures surface as ErrUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, question string, role access.Role, topK int) ([]Candidate, error) {
	queryID := uuid.NewString()

	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		r.logger.Error("query embedding failed", "query_id", queryID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	hits, err := r.searcher.Search(vec, topK, func(d corpus.Document) bool {
		return role.Covers(d.Required)
	})
	if err != nil {
		r.logger.Error("index search failed", "query_id", queryID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	candidates := make([]Candidate, len(hits))
	for i, hit := range hits {
		candidates[i] = Candidate{
			Document: hit.Document,
			Score:    hit.Score,
			Rank:     i + 1,
		}
	}

	r.logger.Info("retrieved candidates",
		"query_id", queryID,
		"role", role.String(),
		"count", len(candidates))
	return candidates, nil
}
