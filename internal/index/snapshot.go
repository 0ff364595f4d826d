package index

// snapshot.go persists the index to a single gob file and restores it.
//
// Writes go to a temporary file in the same directory followed by an atomic
// rename, so a crash mid-write never leaves a truncated snapshot in place.
// A flock guards against two processes writing the same path.

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/modenalabs/zonda-intel/internal/access"
	"github.com/modenalabs/zonda-intel/internal/corpus"
)

// snapshot is the on-disk layout. Dimension and Count are integrity tags
// verified on restore before any vector is trusted.
type snapshot struct {
	Dimension int
	Count     int
	Docs      []snapshotDoc
	Vectors   [][]float32
}

type snapshotDoc struct {
	ID     string
	Text   string
	Source string
	Role   string
}

// Persist writes the index to path. The write is atomic: either the full
// snapshot lands at path or the previous content stays untouched.
func (ix *Index) Persist(path string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking snapshot: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			ix.logger.Warn("failed to release snapshot lock", "path", path, "error", err)
		}
	}()

	ix.mu.RLock()
	snap := snapshot{
		Dimension: ix.dimension,
		Count:     len(ix.docs),
		Docs:      make([]snapshotDoc, len(ix.docs)),
		Vectors:   make([][]float32, len(ix.docs)),
	}
	for i, doc := range ix.docs {
		snap.Docs[i] = snapshotDoc{
			ID:     doc.ID,
			Text:   doc.Text,
			Source: doc.Source,
			Role:   doc.Required.String(),
		}
		snap.Vectors[i] = ix.vectors[i]
	}
	ix.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("installing snapshot: %w", err)
	}

	ix.logger.Info("index persisted", "path", path, "documents", snap.Count, "dimension", snap.Dimension)
	return nil
}

// Restore loads an index from path, verifying the snapshot's integrity
// tags. Fails with ErrIncompatibleDimension when the stored dimension
// disagrees with dimension, and ErrCorruptSnapshot when counts, vector
// widths, norms, or role names are inconsistent. Callers must fall back to
// a full rebuild on either error; a partial index is never returned.
func Restore(path string, dimension int, logger *slog.Logger) (*Index, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking snapshot: %w", err)
	}
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	if snap.Dimension != dimension {
		return nil, fmt.Errorf("%w: stored %d, current %d",
			ErrIncompatibleDimension, snap.Dimension, dimension)
	}
	if snap.Count != len(snap.Docs) || snap.Count != len(snap.Vectors) {
		return nil, fmt.Errorf("%w: count tag %d, %d documents, %d vectors",
			ErrCorruptSnapshot, snap.Count, len(snap.Docs), len(snap.Vectors))
	}

	ix := New(dimension, logger)
	for i, sd := range snap.Docs {
		vec := snap.Vectors[i]
		if len(vec) != dimension {
			return nil, fmt.Errorf("%w: vector %d has width %d",
				ErrCorruptSnapshot, i, len(vec))
		}
		if err := checkUnitNorm(vec); err != nil {
			return nil, fmt.Errorf("%w: vector %d: %v", ErrCorruptSnapshot, i, err)
		}
		role, err := access.ParseRole(sd.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: document %q: %v", ErrCorruptSnapshot, sd.ID, err)
		}

		ix.docs = append(ix.docs, corpus.Document{
			ID:       sd.ID,
			Text:     sd.Text,
			Source:   sd.Source,
			Required: role,
		})
		ix.vectors = append(ix.vectors, vec)
	}

	ix.logger.Info("index restored", "path", path, "documents", snap.Count, "dimension", dimension)
	return ix, nil
}

// checkUnitNorm verifies a stored vector still has unit length.
func checkUnitNorm(vec []float32) error {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1) > unitNormTolerance {
		return errors.New("not unit-normalized")
	}
	return nil
}
