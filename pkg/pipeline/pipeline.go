// Package pipeline orchestrates batch normalization: it reconciles
// extracted values against catalogs, applies fallbacks, renders
// computed templates, merges external enrichment, and assembles typed
// output records in profile order. Items fan out across a bounded
// worker pool around a single prefetch/clear cache lifecycle.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/constants"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/logging"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/reconcile"
	"github.com/rowform/rowform/pkg/schema"
	"github.com/rowform/rowform/pkg/templates"
)

// Pipeline normalizes raw product batches against a profile.
type Pipeline interface {
	// Normalize processes a batch. In batch mode failed items are
	// reported through the Result and the run continues; in strict
	// mode the first item failure aborts the run with no output.
	// A batch-level failure (catalog unavailable, invalid profile)
	// always aborts. Caller cancellation returns the completed
	// portion alongside the context error.
	Normalize(ctx context.Context, profile *schema.Profile, batch []products.RawProduct) (*Result, error)
}

// pipeline is the default implementation of Pipeline.
type pipeline struct {
	store       *catalogs.Store
	reconciler  reconcile.Reconciler
	engine      templates.Engine
	classifier  Classifier
	enricher    Enricher
	concurrency int
	strict      bool
	logger      zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*pipeline) error

// New creates a Pipeline reading catalog data from store.
func New(store *catalogs.Store, opts ...Option) (Pipeline, error) {
	if store == nil {
		return nil, errors.NewValidationError("store", nil, "cannot be nil")
	}

	reconciler, err := reconcile.New()
	if err != nil {
		return nil, err
	}
	engine, err := templates.New(store)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		store:       store,
		reconciler:  reconciler,
		engine:      engine,
		classifier:  DefaultClassifier,
		concurrency: constants.DefaultConcurrency,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Normalize processes a batch through the four per-item steps around a
// single prefetch/clear cache lifecycle.
func (p *pipeline) Normalize(ctx context.Context, profile *schema.Profile, batch []products.RawProduct) (*Result, error) {
	start := time.Now()

	if profile == nil {
		return nil, errors.NewProfileError("", "", "profile is required", nil)
	}
	profile.ApplyDefaults()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if len(batch) > constants.MaxBatchItems {
		return nil, errors.NewValidationError("batch", len(batch), "exceeds maximum batch size")
	}

	batchID := batchIDOf(batch)
	ctx = logging.WithBatch(ctx, batchID)
	log := p.logger.With().Str("batch_id", batchID).Logger()

	// Populate once before any item starts, release once after all
	// finish. Omitting either would still be correct, just slower.
	namespaces := profile.Namespaces()
	if len(namespaces) > 0 {
		if err := p.store.Prefetch(ctx, namespaces...); err != nil {
			return nil, err
		}
	}
	defer p.store.Clear()

	log.Info().
		Str("profile", profile.Name).
		Int("items", len(batch)).
		Int("namespaces", len(namespaces)).
		Msg("Normalization started")

	outcomes := p.runItems(ctx, profile, parseTemplates(profile), batch)

	result := &Result{
		BatchID:  batchID,
		Products: make([]products.NormalizedProduct, 0, len(batch)),
	}
	var firstErr error
	for _, out := range outcomes {
		if out.skipped {
			continue
		}
		result.Statistics.ItemsProcessed++
		if out.err != nil {
			result.Statistics.ItemsFailed++
			if firstErr == nil {
				firstErr = out.err
			}
			if len(result.Errors) < constants.MaxBatchErrorMessages {
				result.Errors = append(result.Errors, out.err)
			}
			continue
		}
		result.Statistics.merge(out.stats)
		result.Products = append(result.Products, out.product)
	}
	result.Statistics.TotalTimeMs = time.Since(start).Milliseconds()

	if p.strict && firstErr != nil {
		log.Error().Err(firstErr).Msg("Strict run aborted")
		return nil, errors.NewBatchError(batchID, firstErr)
	}

	// Caller cancellation keeps completed items; uncompleted ones were
	// discarded, never rolled back.
	if err := ctx.Err(); err != nil {
		log.Warn().
			Int("completed", result.Statistics.ItemsProcessed).
			Int("discarded", len(batch)-result.Statistics.ItemsProcessed).
			Msg("Run canceled before all items completed")
		return result, err
	}

	log.Info().
		Int("processed", result.Statistics.ItemsProcessed).
		Int("failed", result.Statistics.ItemsFailed).
		Int64("duration_ms", result.Statistics.TotalTimeMs).
		Msg("Normalization finished")

	return result, nil
}

// runItems fans the batch out across the worker pool. Sequence numbers
// derive from the original index, never from completion order.
func (p *pipeline) runItems(ctx context.Context, profile *schema.Profile, parsed map[string]*templates.Template, batch []products.RawProduct) []itemOutcome {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]itemOutcome, len(batch))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i := range batch {
		if runCtx.Err() != nil {
			// Cancellation discards uncompleted items; finished ones
			// are kept.
			for j := i; j < len(batch); j++ {
				outcomes[j] = itemOutcome{skipped: true}
			}
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes[idx] = p.processItem(runCtx, profile, parsed, idx, batch[idx])
			if outcomes[idx].err != nil && p.strict {
				cancel()
			}
		}(i)
	}
	wg.Wait()

	return outcomes
}

// parseTemplates parses each template-computed field once per run so
// every item shares the parsed form.
func parseTemplates(profile *schema.Profile) map[string]*templates.Template {
	parsed := make(map[string]*templates.Template, len(profile.Fields))
	for i := range profile.Fields {
		f := &profile.Fields[i]
		if f.IsComputed() && f.LogicType == schema.LogicTemplate {
			parsed[f.Key] = templates.Parse(f.Template)
		}
	}
	return parsed
}

// batchIDOf returns the shared batch id of the items, or empty when
// the batch does not carry one.
func batchIDOf(batch []products.RawProduct) string {
	for i := range batch {
		if batch[i].BatchID != "" {
			return batch[i].BatchID
		}
	}
	return ""
}

// Option Functions
// ================

// WithReconciler replaces the catalog matcher.
func WithReconciler(r reconcile.Reconciler) Option {
	return func(p *pipeline) error {
		if r == nil {
			return errors.NewValidationError("reconciler", nil, "cannot be nil")
		}
		p.reconciler = r
		return nil
	}
}

// WithTemplateEngine replaces the template engine.
func WithTemplateEngine(e templates.Engine) Option {
	return func(p *pipeline) error {
		if e == nil {
			return errors.NewValidationError("engine", nil, "cannot be nil")
		}
		p.engine = e
		return nil
	}
}

// WithClassifier replaces the key classification function.
func WithClassifier(c Classifier) Option {
	return func(p *pipeline) error {
		if c == nil {
			return errors.NewValidationError("classifier", nil, "cannot be nil")
		}
		p.classifier = c
		return nil
	}
}

// WithEnricher sets the external enrichment collaborator. Without one,
// enrichment fields resolve to their fallbacks.
func WithEnricher(e Enricher) Option {
	return func(p *pipeline) error {
		p.enricher = e
		return nil
	}
}

// WithConcurrency bounds the item fan-out.
func WithConcurrency(n int) Option {
	return func(p *pipeline) error {
		if n < 1 || n > constants.MaxConcurrency {
			return errors.NewValidationError("concurrency", n, "must be between 1 and 32")
		}
		p.concurrency = n
		return nil
	}
}

// WithStrict selects strict import mode: the first item failure aborts
// the whole run instead of skipping the item.
func WithStrict(strict bool) Option {
	return func(p *pipeline) error {
		p.strict = strict
		return nil
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *pipeline) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "cannot be nil")
		}
		p.logger = *logger
		return nil
	}
}
