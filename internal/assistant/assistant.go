// Package assistant is the process-wide facade: it owns index lifecycle
// (restore-or-rebuild at startup) and answers questions by combining
// retrieval and generation.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/modenalabs/zonda-intel/internal/access"
	"github.com/modenalabs/zonda-intel/internal/answer"
	"github.com/modenalabs/zonda-intel/internal/corpus"
	"github.com/modenalabs/zonda-intel/internal/embed"
	"github.com/modenalabs/zonda-intel/internal/index"
	"github.com/modenalabs/zonda-intel/internal/log"
	"github.com/modenalabs/zonda-intel/internal/retrieve"
)

// ErrNotReady indicates Ask was called before initialization completed.
var ErrNotReady = errors.New("assistant: not initialized")

// State describes where the assistant is in its lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
)

// Status is a point-in-time health snapshot.
type Status struct {
	State     State
	Documents int
	Dimension int
}

// Generator produces answers from retrieval candidates.
// Implemented by *answer.Generator.
type Generator interface {
	Generate(ctx context.Context, question string, candidates []retrieve.Candidate) (*answer.Result, error)
	GenerateStream(ctx context.Context, question string, candidates []retrieve.Candidate) <-chan answer.Event
}

// Assistant wires retrieval and generation behind a single entry point.
// Initialize must complete before Ask or AskStream; concurrent early
// callers block until the first initialization finishes.
type Assistant struct {
	gateway      *embed.Gateway
	generator    Generator
	topK         int
	snapshotPath string
	logger       log.Logger

	mu        sync.Mutex
	state     State
	idx       *index.Index
	retriever *retrieve.Retriever
}

// New creates an uninitialized Assistant. Call Initialize before asking.
func New(gateway *embed.Gateway, generator Generator, topK int, snapshotPath string, logger log.Logger) *Assistant {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Assistant{
		gateway:      gateway,
		generator:    generator,
		topK:         topK,
		snapshotPath: snapshotPath,
		logger:       logger,
		state:        StateUninitialized,
	}
}

// Initialize brings the index up, restoring the snapshot when it is intact
// and matches the compiled-in corpus, rebuilding from scratch otherwise.
// Restore problems are logged and recovered from, never surfaced; only a
// rebuild that cannot embed the corpus fails. Safe to call concurrently;
// after the first success subsequent calls are no-ops.
func (a *Assistant) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateReady {
		return nil
	}
	a.state = StateLoading

	docs := corpus.Documents()

	if idx := a.tryRestore(docs); idx != nil {
		a.install(idx)
		return nil
	}

	idx, err := a.rebuild(ctx, docs)
	if err != nil {
		a.state = StateUninitialized
		return err
	}
	a.install(idx)
	return nil
}

// Reindex discards any snapshot state and rebuilds the index from the
// corpus unconditionally, then persists the fresh snapshot.
func (a *Assistant) Reindex(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = StateLoading
	idx, err := a.rebuild(ctx, corpus.Documents())
	if err != nil {
		a.state = StateUninitialized
		return err
	}
	a.install(idx)
	return nil
}

// tryRestore loads the snapshot and verifies it covers exactly the current
// corpus. Returns nil when a rebuild is needed.
func (a *Assistant) tryRestore(docs []corpus.Document) *index.Index {
	idx, err := index.Restore(a.snapshotPath, a.gateway.Dimension(), a.logger)
	if err != nil {
		a.logger.Warn("snapshot restore failed, rebuilding", "path", a.snapshotPath, "error", err)
		return nil
	}

	ids := idx.DocumentIDs()
	if len(ids) != len(docs) {
		a.logger.Warn("snapshot corpus size mismatch, rebuilding",
			"snapshot", len(ids), "corpus", len(docs))
		return nil
	}
	for i, doc := range docs {
		if ids[i] != doc.ID {
			a.logger.Warn("snapshot corpus content mismatch, rebuilding",
				"position", i, "snapshot_id", ids[i], "corpus_id", doc.ID)
			return nil
		}
	}

	return idx
}

// rebuild embeds the whole corpus and persists the resulting index.
// Persist failures are logged only: a working in-memory index is worth
// more than a snapshot.
func (a *Assistant) rebuild(ctx context.Context, docs []corpus.Document) (*index.Index, error) {
	a.logger.Info("rebuilding index", "documents", len(docs))

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := a.gateway.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding corpus: %w", err)
	}

	idx := index.New(a.gateway.Dimension(), a.logger)
	for i, doc := range docs {
		if err := idx.Add(doc, vectors[i]); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", doc.ID, err)
		}
	}

	if err := idx.Persist(a.snapshotPath); err != nil {
		a.logger.Warn("snapshot persist failed", "path", a.snapshotPath, "error", err)
	}

	return idx, nil
}

// install must be called with a.mu held.
func (a *Assistant) install(idx *index.Index) {
	a.idx = idx
	a.retriever = retrieve.New(a.gateway, idx, a.logger)
	a.state = StateReady
	a.logger.Info("assistant ready", "documents", idx.Len(), "dimension", idx.Dimension())
}

// ready returns the current retriever, or ErrNotReady.
func (a *Assistant) ready() (*retrieve.Retriever, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateReady {
		return nil, ErrNotReady
	}
	return a.retriever, nil
}

// Ask answers a question for the given caller, blocking until complete.
func (a *Assistant) Ask(ctx context.Context, question string, caller access.Identity) (*answer.Result, error) {
	r, err := a.ready()
	if err != nil {
		return nil, err
	}

	candidates, err := r.Retrieve(ctx, question, caller.Role, a.topK)
	if err != nil {
		return nil, err
	}

	return a.generator.Generate(ctx, question, candidates)
}

// AskStream answers a question as a stream of events. Retrieval errors are
// delivered on the returned channel as the terminal event so callers have
// a single consumption path.
func (a *Assistant) AskStream(ctx context.Context, question string, caller access.Identity) <-chan answer.Event {
	r, err := a.ready()
	if err != nil {
		return failedStream(err)
	}

	candidates, err := r.Retrieve(ctx, question, caller.Role, a.topK)
	if err != nil {
		return failedStream(err)
	}

	return a.generator.GenerateStream(ctx, question, candidates)
}

// Status reports lifecycle state and index shape.
func (a *Assistant) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Status{State: a.state, Dimension: a.gateway.Dimension()}
	if a.idx != nil {
		s.Documents = a.idx.Len()
	}
	return s
}

func failedStream(err error) <-chan answer.Event {
	events := make(chan answer.Event, 1)
	events <- answer.Event{Err: err}
	close(events)
	return events
}
