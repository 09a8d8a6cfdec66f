package rowform

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/pipeline"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/reconcile"
	"github.com/rowform/rowform/pkg/schema"
	"github.com/rowform/rowform/pkg/templates"
)

// engine is the internal implementation of the Engine interface.
type engine struct {
	source     catalogs.Source
	store      *catalogs.Store
	products   products.Store
	reconciler reconcile.Reconciler
	templates  templates.Engine
	pipeline   pipeline.Pipeline
	logger     zerolog.Logger
}

// newEngine wires the component stack from an applied configuration.
func newEngine(cfg *config) (*engine, error) {
	source, storage, err := cfg.storage()
	if err != nil {
		return nil, err
	}

	prodStore := cfg.products
	if prodStore == nil {
		prodStore = storage
	}

	store := catalogs.NewStore(source)

	reconcileOpts := []reconcile.Option{reconcile.WithFuzzy(cfg.fuzzy)}
	if cfg.logger != nil {
		reconcileOpts = append(reconcileOpts, reconcile.WithLogger(cfg.logger))
	}
	reconciler, err := reconcile.New(reconcileOpts...)
	if err != nil {
		return nil, err
	}

	templateOpts := []templates.Option{templates.WithReconciler(reconciler)}
	if cfg.logger != nil {
		templateOpts = append(templateOpts, templates.WithLogger(cfg.logger))
	}
	tmpl, err := templates.New(store, templateOpts...)
	if err != nil {
		return nil, err
	}

	pipeOpts := []pipeline.Option{
		pipeline.WithReconciler(reconciler),
		pipeline.WithTemplateEngine(tmpl),
		pipeline.WithStrict(cfg.strict),
	}
	if cfg.enricher != nil {
		pipeOpts = append(pipeOpts, pipeline.WithEnricher(cfg.enricher))
	}
	if cfg.concurrency > 0 {
		pipeOpts = append(pipeOpts, pipeline.WithConcurrency(cfg.concurrency))
	}
	if cfg.logger != nil {
		pipeOpts = append(pipeOpts, pipeline.WithLogger(cfg.logger))
	}
	pipe, err := pipeline.New(store, pipeOpts...)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	return &engine{
		source:     source,
		store:      store,
		products:   prodStore,
		reconciler: reconciler,
		templates:  tmpl,
		pipeline:   pipe,
		logger:     logger,
	}, nil
}

// Normalize runs a batch of raw rows through the pipeline.
func (e *engine) Normalize(ctx context.Context, profile *schema.Profile, batch []products.RawProduct) (*pipeline.Result, error) {
	return e.pipeline.Normalize(ctx, profile, batch)
}

// NormalizeStored normalizes a persisted batch and saves the records
// back to the product store.
func (e *engine) NormalizeStored(ctx context.Context, profile *schema.Profile, batchID string) (*pipeline.Result, error) {
	if e.products == nil {
		return nil, errors.NewConfigError("engine", "no product store configured", nil)
	}

	batch, err := e.products.RawProducts(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, errors.NewNotFoundError("batch", batchID)
	}

	result, err := e.pipeline.Normalize(ctx, profile, batch)
	if err != nil {
		return nil, err
	}

	if err := e.products.SaveNormalized(ctx, result.Products...); err != nil {
		return nil, err
	}
	return result, nil
}

// Reconcile matches one raw value against a catalog namespace.
func (e *engine) Reconcile(ctx context.Context, value string, namespace catalogs.Namespace) reconcile.Result {
	return e.reconciler.Reconcile(value, e.store.EntriesFor(ctx, namespace))
}

// EvaluateTemplate renders template text against the given context.
func (e *engine) EvaluateTemplate(ctx context.Context, template string, tc *templates.Context) string {
	return e.templates.Evaluate(ctx, template, tc)
}

// Catalog returns the engine's catalog store.
func (e *engine) Catalog() *catalogs.Store {
	return e.store
}

// Source returns the backing catalog source.
func (e *engine) Source() catalogs.Source {
	return e.source
}

// Products returns the product store, or nil when none is configured.
func (e *engine) Products() products.Store {
	return e.products
}

// Close releases the storage handles the engine holds. When one
// database backs both the catalog and the products, it is closed once.
func (e *engine) Close() error {
	err := e.source.Close()
	if e.products != nil && any(e.products) != any(e.source) {
		if perr := e.products.Close(); err == nil {
			err = perr
		}
	}
	return err
}
