package index

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/modenalabs/zonda-intel/internal/access"
	"github.com/modenalabs/zonda-intel/internal/corpus"
	"github.com/modenalabs/zonda-intel/internal/log"
)

// doc builds a corpus document for index tests.
func doc(id string, required access.Role) corpus.Document {
	return corpus.Document{ID: id, Text: "text for " + id, Source: id + " source", Required: required}
}

// allowRole returns the role predicate used by the retriever.
func allowRole(caller access.Role) func(corpus.Document) bool {
	return func(d corpus.Document) bool { return caller.Covers(d.Required) }
}

func TestAddNormalizesVectors(t *testing.T) {
	ix := New(3, log.NewNop())

	// Deliberately non-unit input
	if err := ix.Add(doc("d1", access.RoleViewer), []float32{3, 4, 0}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	var sum float64
	for _, v := range ix.vectors[0] {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1) > unitNormTolerance {
		t.Errorf("stored vector norm = %v, want 1 within %v", math.Sqrt(sum), unitNormTolerance)
	}
}

func TestAddDoesNotMutateCallerSlice(t *testing.T) {
	ix := New(2, log.NewNop())
	in := []float32{2, 0}
	if err := ix.Add(doc("d1", access.RoleViewer), in); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if in[0] != 2 {
		t.Error("Add() mutated the caller's vector")
	}
}

func TestAddDimensionMismatch(t *testing.T) {
	ix := New(3, log.NewNop())

	err := ix.Add(doc("bad", access.RoleViewer), []float32{1, 0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}

	// Offending add must not corrupt the index.
	if ix.Len() != 0 {
		t.Errorf("index length = %d after failed add, want 0", ix.Len())
	}
	if err := ix.Add(doc("good", access.RoleViewer), []float32{1, 0, 0}); err != nil {
		t.Errorf("Add() after failed add: %v", err)
	}
}

func TestAddZeroVector(t *testing.T) {
	ix := New(2, log.NewNop())
	if err := ix.Add(doc("zero", access.RoleViewer), []float32{0, 0}); err == nil {
		t.Fatal("Add() with zero-norm vector expected error, got nil")
	}
}

func TestSearchScoresNonIncreasing(t *testing.T) {
	ix := New(2, log.NewNop())
	vecs := [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}, {0.5, 0.5}}
	for i, v := range vecs {
		if err := ix.Add(doc(string(rune('a'+i)), access.RoleViewer), v); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}

	hits, err := ix.Search([]float32{1, 0}, 4, nil)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("scores increase at position %d: %v then %v", i, hits[i-1].Score, hits[i].Score)
		}
	}
}

func TestSearchStableTies(t *testing.T) {
	ix := New(2, log.NewNop())
	// Identical vectors: scores tie exactly, insertion order must win.
	for _, id := range []string{"first", "second", "third"} {
		if err := ix.Add(doc(id, access.RoleViewer), []float32{1, 0}); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}

	hits, err := ix.Search([]float32{1, 0}, 3, nil)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	want := []string{"first", "second", "third"}
	for i, hit := range hits {
		if hit.Document.ID != want[i] {
			t.Errorf("position %d = %q, want %q", i, hit.Document.ID, want[i])
		}
	}
}

func TestSearchRoleFilter(t *testing.T) {
	ix := New(2, log.NewNop())
	if err := ix.Add(doc("public", access.RoleViewer), []float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(doc("engineering", access.RoleEngineer), []float32{1, 0.01}); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(doc("restricted", access.RoleAdmin), []float32{1, 0.02}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		role    access.Role
		wantIDs map[string]bool
	}{
		{access.RoleViewer, map[string]bool{"public": true}},
		{access.RoleEngineer, map[string]bool{"public": true, "engineering": true}},
		{access.RoleAdmin, map[string]bool{"public": true, "engineering": true, "restricted": true}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			hits, err := ix.Search([]float32{1, 0}, 10, allowRole(tt.role))
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if len(hits) != len(tt.wantIDs) {
				t.Fatalf("got %d hits, want %d", len(hits), len(tt.wantIDs))
			}
			for _, hit := range hits {
				if !tt.wantIDs[hit.Document.ID] {
					t.Errorf("role %v received document %q outside its tier",
						tt.role, hit.Document.ID)
				}
			}
		})
	}
}

func TestSearchKLargerThanEligible(t *testing.T) {
	ix := New(2, log.NewNop())
	if err := ix.Add(doc("only", access.RoleViewer), []float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(doc("hidden", access.RoleAdmin), []float32{0, 1}); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search([]float32{1, 0}, 50, allowRole(access.RoleViewer))
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want exactly the 1 eligible document", len(hits))
	}
	if hits[0].Document.ID != "only" {
		t.Errorf("hit = %q, want %q", hits[0].Document.ID, "only")
	}
}

func TestSearchZeroEligible(t *testing.T) {
	ix := New(2, log.NewNop())
	if err := ix.Add(doc("restricted", access.RoleAdmin), []float32{1, 0}); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search([]float32{1, 0}, 3, allowRole(access.RoleViewer))
	if err != nil {
		t.Fatalf("Search() with zero eligible docs should not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestSearchInvalidK(t *testing.T) {
	ix := New(2, log.NewNop())
	if _, err := ix.Search([]float32{1, 0}, 0, nil); !errors.Is(err, ErrInvalidTopK) {
		t.Errorf("k=0 error = %v, want ErrInvalidTopK", err)
	}
	if _, err := ix.Search([]float32{1, 0}, -1, nil); !errors.Is(err, ErrInvalidTopK) {
		t.Errorf("k=-1 error = %v, want ErrInvalidTopK", err)
	}
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	ix := New(3, log.NewNop())
	if _, err := ix.Search([]float32{1, 0}, 1, nil); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestSearchNormalizesQuery(t *testing.T) {
	ix := New(2, log.NewNop())
	if err := ix.Add(doc("d1", access.RoleViewer), []float32{1, 0}); err != nil {
		t.Fatal(err)
	}

	// A scaled query must produce the same cosine score.
	small, err := ix.Search([]float32{1, 0}, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	large, err := ix.Search([]float32{100, 0}, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(small[0].Score-large[0].Score)) > unitNormTolerance {
		t.Errorf("scaled query changed score: %v vs %v", small[0].Score, large[0].Score)
	}
	if math.Abs(float64(small[0].Score)-1) > unitNormTolerance {
		t.Errorf("identical direction score = %v, want 1", small[0].Score)
	}
}

func TestConcurrentSearches(t *testing.T) {
	ix := New(2, log.NewNop())
	for i := 0; i < 8; i++ {
		angle := float64(i) / 8 * math.Pi / 2
		vec := []float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
		if err := ix.Add(doc(string(rune('a'+i)), access.RoleViewer), vec); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := ix.Search([]float32{1, 0}, 3, nil)
			if err != nil {
				t.Errorf("concurrent Search() error: %v", err)
				return
			}
			if len(hits) != 3 {
				t.Errorf("concurrent Search() returned %d hits, want 3", len(hits))
			}
		}()
	}
	wg.Wait()
}

func TestDocumentIDsInsertionOrder(t *testing.T) {
	ix := New(2, log.NewNop())
	for _, id := range []string{"one", "two", "three"} {
		if err := ix.Add(doc(id, access.RoleViewer), []float32{1, 0}); err != nil {
			t.Fatal(err)
		}
	}

	ids := ix.DocumentIDs()
	want := []string{"one", "two", "three"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, ids[i], want[i])
		}
	}
}
