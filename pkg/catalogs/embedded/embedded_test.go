package embedded

import (
	"context"
	"testing"

	"github.com/rowform/rowform/pkg/catalogs"
)

func TestEmbeddedSource(t *testing.T) {
	source, err := New()
	if err != nil {
		t.Fatalf("Failed to create embedded source: %v", err)
	}
	if source.ID() != catalogs.SourceIDEmbedded {
		t.Errorf("Expected embedded source id, got %s", source.ID())
	}

	all, err := source.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(all["color"]) == 0 {
		t.Error("Expected embedded catalog to have color entries")
	}

	// Lazy loading still serves on first read.
	lazy, err := New(WithNoAutoLoad())
	if err != nil {
		t.Fatalf("Failed to create embedded source with no auto-load: %v", err)
	}
	got, err := lazy.Entries(context.Background(), "material")
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(got["material"]) == 0 {
		t.Error("Expected material entries from lazy source")
	}
}
