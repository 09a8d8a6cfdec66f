// Package files provides the catalog source backed by a directory of
// namespace YAML files.
package files

import (
	"context"
	"fmt"

	"github.com/rowform/rowform/internal/sources/files"
	"github.com/rowform/rowform/pkg/catalogs"
)

// Option is a function that configures a files source
type Option func(*config) error

// WithAutoLoad configures whether the source parses the directory once
// at construction to surface broken files early
func WithAutoLoad(enabled bool) Option {
	return func(cfg *config) error {
		cfg.autoLoad = enabled
		return nil
	}
}

// WithNoAutoLoad configures the source to skip the construction-time
// parse
func WithNoAutoLoad() Option {
	return WithAutoLoad(false)
}

// New creates a file-backed catalog source rooted at path. The source
// re-reads the directory on every bulk read, so edits show up on the
// next batch.
func New(path string, opts ...Option) (catalogs.Source, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required for files catalog")
	}

	cfg := &config{
		autoLoad: true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying files option: %w", err)
		}
	}

	source, err := files.NewSource(path)
	if err != nil {
		return nil, err
	}

	if cfg.autoLoad {
		if _, err := source.Entries(context.Background()); err != nil {
			return nil, fmt.Errorf("loading files catalog from %s: %w", path, err)
		}
	}

	return source, nil
}

// config is the configuration for a files source
type config struct {
	autoLoad bool
}
