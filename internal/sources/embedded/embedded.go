// Package embedded serves the sample vocabularies compiled into the
// binary. It backs the zero-configuration path: the CLI and examples
// work against these catalogs without any external storage.
package embedded

import (
	"context"
	"embed"
	"sync"

	"github.com/rowform/rowform/pkg/catalogs"
)

// FS embeds the sample namespace YAML files at build time.
//
//go:embed catalog/*.yaml
var FS embed.FS

// Source serves the embedded vocabularies. Data is parsed once on
// first read and is immutable afterwards.
type Source struct {
	once    sync.Once
	entries map[catalogs.Namespace][]catalogs.Entry
	err     error
}

// NewSource creates a source over the embedded catalog files.
func NewSource() *Source {
	return &Source{}
}

// ID identifies the source implementation.
func (s *Source) ID() catalogs.SourceID { return catalogs.SourceIDEmbedded }

// Entries returns the requested namespaces from the embedded catalog.
// Passing no namespaces returns everything.
func (s *Source) Entries(ctx context.Context, namespaces ...catalogs.Namespace) (map[catalogs.Namespace][]catalogs.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.once.Do(func() {
		s.entries, s.err = catalogs.LoadFS(FS)
	})
	if s.err != nil {
		return nil, s.err
	}

	if len(namespaces) == 0 {
		out := make(map[catalogs.Namespace][]catalogs.Entry, len(s.entries))
		for ns, list := range s.entries {
			out[ns] = list
		}
		return out, nil
	}

	out := make(map[catalogs.Namespace][]catalogs.Entry, len(namespaces))
	for _, ns := range namespaces {
		if list, ok := s.entries[ns]; ok {
			out[ns] = list
		}
	}
	return out, nil
}

// Close releases nothing; it exists to satisfy the Source contract.
func (s *Source) Close() error { return nil }
