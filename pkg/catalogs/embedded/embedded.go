// Package embedded provides the catalog source serving the sample
// vocabularies compiled into the binary.
package embedded

import (
	"context"
	"fmt"

	"github.com/rowform/rowform/internal/sources/embedded"
	"github.com/rowform/rowform/pkg/catalogs"
)

// Option is a function that configures an embedded source
type Option func(*config) error

// WithAutoLoad configures whether the source parses the compiled-in
// files once at construction
func WithAutoLoad(enabled bool) Option {
	return func(cfg *config) error {
		cfg.autoLoad = enabled
		return nil
	}
}

// WithNoAutoLoad configures the source to parse lazily on first read
func WithNoAutoLoad() Option {
	return WithAutoLoad(false)
}

// New creates a catalog source over the compiled-in sample vocabularies
func New(opts ...Option) (catalogs.Source, error) {
	cfg := &config{
		autoLoad: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying embedded option: %w", err)
		}
	}

	source := embedded.NewSource()

	if cfg.autoLoad {
		if _, err := source.Entries(context.Background()); err != nil {
			return nil, fmt.Errorf("loading embedded catalog: %w", err)
		}
	}

	return source, nil
}

// config is the configuration for an embedded source
type config struct {
	autoLoad bool
}
