// Package index implements the in-memory vector index over the corpus.
//
// Vectors are L2-normalized once at insertion, so cosine similarity
// degenerates to a plain inner product at query time; only the query vector
// itself is normalized per search. Documents and vectors are parallel
// slices kept in lock-step: position i in one always corresponds to
// position i in the other.
//
// The index is read-mostly. Searches take a read lock and run in parallel;
// Add and snapshot installation are exclusive.
package index

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/modenalabs/zonda-intel/internal/corpus"
)

// Sentinel errors checked with errors.Is().
var (
	// ErrDimensionMismatch indicates a vector whose length disagrees with
	// the index's configured dimension. Fatal for the offending call only;
	// the rest of the index stays intact.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidTopK indicates a search with k < 1.
	ErrInvalidTopK = errors.New("top-k must be at least 1")

	// ErrCorruptSnapshot indicates a persisted snapshot that fails
	// integrity checks on restore. Callers recover by rebuilding.
	ErrCorruptSnapshot = errors.New("corrupt index snapshot")

	// ErrIncompatibleDimension indicates a snapshot persisted under a
	// different embedding dimension. Callers recover by rebuilding.
	ErrIncompatibleDimension = errors.New("incompatible snapshot dimension")
)

// unitNormTolerance bounds the allowed drift from unit length for stored
// vectors, both at insertion and on snapshot restore.
const unitNormTolerance = 1e-6

// Hit is one search result: a document and its cosine similarity to the
// query.
type Hit struct {
	Document corpus.Document
	Score    float32
}

// Index stores documents with their unit-norm embedding vectors and
// answers role-filtered similarity searches. Safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	dimension int
	docs      []corpus.Document
	vectors   [][]float32
	logger    *slog.Logger
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		dimension: dimension,
		logger:    logger,
	}
}

// Dimension returns the configured vector width.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Len returns the number of stored documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// DocumentIDs returns the stored document identifiers in insertion order.
func (ix *Index) DocumentIDs() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	ids := make([]string, len(ix.docs))
	for i, doc := range ix.docs {
		ids[i] = doc.ID
	}
	return ids
}

// Add appends one document with its embedding vector. The vector is
// normalized to unit length before storage; the caller's slice is not
// modified. Fails with ErrDimensionMismatch if the vector length disagrees
// with the index dimension.
func (ix *Index) Add(doc corpus.Document, vec []float32) error {
	if len(vec) != ix.dimension {
		return fmt.Errorf("%w: document %q has %d, index wants %d",
			ErrDimensionMismatch, doc.ID, len(vec), ix.dimension)
	}

	normalized, err := normalize(vec)
	if err != nil {
		return fmt.Errorf("document %q: %w", doc.ID, err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.docs = append(ix.docs, doc)
	ix.vectors = append(ix.vectors, normalized)

	ix.logger.Debug("indexed document", "id", doc.ID, "position", len(ix.docs)-1)
	return nil
}

// Search returns the top-k documents by descending cosine similarity among
// those satisfying allowed, ties broken by insertion order. If fewer than k
// documents qualify, all of them are returned; the result is never padded.
// The query vector is normalized internally.
func (ix *Index) Search(query []float32, k int, allowed func(corpus.Document) bool) ([]Hit, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d, index wants %d",
			ErrDimensionMismatch, len(query), ix.dimension)
	}

	q, err := normalize(query)
	if err != nil {
		return nil, fmt.Errorf("query vector: %w", err)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit, 0, len(ix.docs))
	for i, doc := range ix.docs {
		if allowed != nil && !allowed(doc) {
			continue
		}
		hits = append(hits, Hit{Document: doc, Score: dot(q, ix.vectors[i])})
	}

	// SliceStable keeps insertion order for equal scores.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// normalize returns a unit-length copy of vec.
func normalize(vec []float32) ([]float32, error) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, errors.New("zero-norm vector")
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

// dot computes the inner product with float64 accumulation.
func dot(a, b []float32) float32 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum)
}
