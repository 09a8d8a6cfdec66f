// Package memory provides the in-memory catalog source, used by tests
// and by callers that assemble vocabularies in code.
package memory

import (
	"fmt"

	"github.com/rowform/rowform/internal/sources/memory"
	"github.com/rowform/rowform/pkg/catalogs"
)

// Option is a function that configures a memory source
type Option func(*config) error

// WithReadOnly configures the source to reject writes
func WithReadOnly(readOnly bool) Option {
	return func(cfg *config) error {
		cfg.readOnly = readOnly
		return nil
	}
}

// WithEntries preloads the source with typed entries
func WithEntries(entries ...catalogs.Entry) Option {
	return func(cfg *config) error {
		cfg.entries = append(cfg.entries, entries...)
		return nil
	}
}

// WithPreload preloads the source from one namespace YAML document.
// The document must declare its namespace.
func WithPreload(data []byte) Option {
	return func(cfg *config) error {
		if len(data) == 0 {
			return fmt.Errorf("preload data cannot be empty")
		}
		_, entries, err := catalogs.ParseNamespaceFile("", data)
		if err != nil {
			return err
		}
		cfg.entries = append(cfg.entries, entries...)
		return nil
	}
}

// New creates an in-memory catalog source
func New(opts ...Option) (catalogs.ReadWriteSource, error) {
	cfg := &config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying memory option: %w", err)
		}
	}

	return memory.NewSourceWithConfig(cfg.readOnly, cfg.entries)
}

// config is the configuration for a memory source
type config struct {
	readOnly bool
	entries  []catalogs.Entry
}
