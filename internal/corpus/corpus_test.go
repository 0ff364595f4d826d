package corpus

import (
	"testing"

	"github.com/modenalabs/zonda-intel/internal/access"
)

func TestDocumentsUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, doc := range Documents() {
		if doc.ID == "" {
			t.Error("document with empty ID")
		}
		if seen[doc.ID] {
			t.Errorf("duplicate document ID %q", doc.ID)
		}
		seen[doc.ID] = true
	}
}

func TestDocumentsComplete(t *testing.T) {
	docs := Documents()
	if len(docs) != 12 {
		t.Fatalf("corpus has %d documents, want 12", len(docs))
	}

	for _, doc := range docs {
		if doc.Text == "" {
			t.Errorf("document %q has empty text", doc.ID)
		}
		if doc.Source == "" {
			t.Errorf("document %q has empty source", doc.ID)
		}
	}
}

func TestDocumentsRoleTiers(t *testing.T) {
	counts := make(map[access.Role]int)
	for _, doc := range Documents() {
		counts[doc.Required]++
	}

	// Corpus shape is contract for the role-filter tests downstream:
	// every tier must hold at least one document.
	if counts[access.RoleViewer] == 0 {
		t.Error("no viewer-tier documents")
	}
	if counts[access.RoleEngineer] == 0 {
		t.Error("no engineer-tier documents")
	}
	if counts[access.RoleAdmin] == 0 {
		t.Error("no admin-only documents")
	}
}

func TestDocumentsOrderStable(t *testing.T) {
	a := Documents()
	b := Documents()
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("corpus order not stable: position %d is %q then %q", i, a[i].ID, b[i].ID)
		}
	}
}
