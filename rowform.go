// Package rowform turns raw, AI-extracted product rows into
// normalized records aligned with configurable catalogs. An Engine
// bundles the catalog store, the reconciler, the template engine, and
// the normalization pipeline behind one facade; functional options
// select the storage backend and tune matching behavior.
package rowform

import (
	"context"
	"fmt"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/pipeline"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/reconcile"
	"github.com/rowform/rowform/pkg/schema"
	"github.com/rowform/rowform/pkg/templates"
)

// Engine is the public face of the normalization engine.
type Engine interface {
	// Normalize runs a batch of raw rows through the pipeline under
	// the given profile.
	Normalize(ctx context.Context, profile *schema.Profile, batch []products.RawProduct) (*pipeline.Result, error)

	// NormalizeStored loads the raw rows of a batch from the product
	// store, normalizes them, and saves the records back. It requires
	// an engine built with a product store.
	NormalizeStored(ctx context.Context, profile *schema.Profile, batchID string) (*pipeline.Result, error)

	// Reconcile matches one raw value against a catalog namespace.
	Reconcile(ctx context.Context, value string, namespace catalogs.Namespace) reconcile.Result

	// EvaluateTemplate renders template text against the given
	// context. It never fails; unresolvable variables degrade to
	// empty strings.
	EvaluateTemplate(ctx context.Context, template string, tc *templates.Context) string

	// Catalog returns the engine's catalog store.
	Catalog() *catalogs.Store

	// Source returns the backing catalog source.
	Source() catalogs.Source

	// Products returns the product store, or nil when the engine was
	// built without one.
	Products() products.Store

	// Close releases the storage handles the engine holds.
	Close() error
}

var _ Engine = (*engine)(nil)

// New creates an Engine. Without options it serves the compiled-in
// sample vocabularies and keeps no product store.
func New(opts ...Option) (Engine, error) {
	cfg := newConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	return newEngine(cfg)
}
