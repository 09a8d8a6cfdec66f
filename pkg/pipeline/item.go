package pipeline

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/rowform/rowform/pkg/constants"
	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/logging"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/schema"
	"github.com/rowform/rowform/pkg/templates"
)

// itemOutcome is one item's contribution to the batch result.
type itemOutcome struct {
	product products.NormalizedProduct
	stats   Statistics
	err     error
	skipped bool
}

// processItem runs the four normalization steps for one raw product.
// idx is the item's original position in the batch, so its sequence
// number is idx+1 regardless of completion order.
func (p *pipeline) processItem(ctx context.Context, profile *schema.Profile, parsed map[string]*templates.Template, idx int, raw products.RawProduct) (out itemOutcome) {
	// One broken item must not take the whole batch down.
	defer func() {
		if r := recover(); r != nil {
			out = itemOutcome{err: errors.NewItemError(idx, raw.LineID, fmt.Errorf("unexpected failure: %v", r))}
		}
	}()

	if ctx.Err() != nil {
		return itemOutcome{skipped: true}
	}

	ctx = logging.WithItem(ctx, idx)
	log := p.logger.With().Int("item_index", idx).Str("line_id", raw.LineID).Logger()

	if err := validateRaw(raw); err != nil {
		return itemOutcome{err: errors.WrapItem(idx, raw.LineID, err)}
	}

	var stats Statistics

	// Step 1: reconcile extracted values. A match replaces the raw
	// value with the canonical entry name; a miss keeps the raw value.
	// Code substitution happens only inside template evaluation.
	working := make(map[string]string, len(profile.Fields))
	for i := range profile.Fields {
		f := &profile.Fields[i]
		if !f.IsExtracted() {
			working[f.Key] = ""
			continue
		}
		value := raw.Value(f.Key)
		if !f.HasCatalog() || value == "" {
			working[f.Key] = value
			continue
		}
		res := p.reconciler.Reconcile(value, p.store.EntriesFor(ctx, f.CatalogKey))
		stats.countMatch(res.Type)
		if res.Matched() {
			working[f.Key] = res.Normalized
		} else {
			working[f.Key] = value
			if value != "" {
				log.Debug().
					Str("field", f.Key).
					Str("value", value).
					Str("namespace", f.CatalogKey.String()).
					Msg("No catalog match")
			}
		}
	}

	// Step 2: fallback literals fill empty slots now, before templates
	// render, so templates see fallback-filled values.
	for i := range profile.Fields {
		f := &profile.Fields[i]
		if f.Fallback != "" && working[f.Key] == "" {
			working[f.Key] = f.Fallback
		}
	}

	// Step 3: computed values from templates and enrichment.
	computed := p.computeValues(ctx, profile, parsed, working, idx+1, &stats, log)

	// Step 4: assembly in profile order. A non-empty computed value
	// wins over the working value, then the key classifier coerces.
	now := utc.Now()
	normalized := products.NormalizedProduct{
		LineID:      raw.LineID,
		BatchID:     raw.BatchID,
		Fields:      make([]products.FieldValue, 0, len(profile.Fields)),
		NeedsReview: raw.NeedsReview,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range profile.Fields {
		f := &profile.Fields[i]
		value := working[f.Key]
		if cv, ok := computed[f.Key]; ok && cv != "" {
			value = cv
		}
		normalized.Fields = append(normalized.Fields, products.FieldValue{
			Key:   f.Key,
			Value: p.coerce(f.Key, value, log),
		})
	}

	return itemOutcome{product: normalized, stats: stats}
}

// computeValues renders template fields and merges enrichment output.
// The template context indexes extracted fields only; computed fields
// can never feed other templates.
func (p *pipeline) computeValues(ctx context.Context, profile *schema.Profile, parsed map[string]*templates.Template, working map[string]string, sequence int, stats *Statistics, log zerolog.Logger) map[string]string {
	computed := make(map[string]string)

	tmplCtx := &templates.Context{
		Values:   extractedValues(profile, working),
		Sequence: sequence,
		Mappings: profile.CatalogMappings(),
	}

	var requests []EnrichmentRequest
	for i := range profile.Fields {
		f := &profile.Fields[i]
		if !f.IsComputed() {
			continue
		}
		switch f.LogicType {
		case schema.LogicTemplate:
			if tmpl, ok := parsed[f.Key]; ok {
				computed[f.Key] = p.engine.Render(ctx, tmpl, tmplCtx)
				stats.TemplatesRendered++
			}
		case schema.LogicAIEnrichment:
			requests = append(requests, EnrichmentRequest{
				Key:      f.Key,
				Label:    f.Label,
				Prompt:   f.AIPrompt,
				Fallback: f.Fallback,
			})
		}
	}

	if len(requests) == 0 || p.enricher == nil {
		return computed
	}

	values, err := p.enricher.Enrich(ctx, requests, snapshot(working))
	if err != nil {
		// Enrichment failures degrade: affected fields fall back to
		// their fallback literals at assembly.
		log.Warn().Err(err).Int("fields", len(requests)).Msg("Enrichment failed")
	}
	for _, req := range requests {
		if v, ok := values[req.Key]; ok && v != "" {
			computed[req.Key] = v
			stats.FieldsEnriched++
		}
	}

	return computed
}

// coerce applies the key classifier to an assembled value. Quantity
// parsing always produces a usable integer; prices that do not parse
// stay strings.
func (p *pipeline) coerce(key, value string, log zerolog.Logger) any {
	switch p.classifier(key) {
	case ClassQuantity:
		return ParseQuantity(value)
	case ClassPrice:
		price, ok := ParsePrice(value)
		if !ok {
			if value != "" {
				log.Debug().Str("field", key).Str("value", value).Msg("Price not parseable, keeping raw value")
			}
			return value
		}
		return price
	}
	return value
}

// validateRaw rejects items the pipeline cannot process structurally.
func validateRaw(raw products.RawProduct) error {
	for key, value := range raw.Values {
		if len(value) > constants.MaxValueLength {
			return errors.NewValidationError(key, len(value), "value exceeds maximum length")
		}
	}
	return nil
}

// extractedValues collects the working values of extracted fields for
// use as template input variables.
func extractedValues(profile *schema.Profile, working map[string]string) map[string]string {
	values := make(map[string]string, len(profile.Fields))
	for i := range profile.Fields {
		f := &profile.Fields[i]
		if f.IsExtracted() {
			values[f.Key] = working[f.Key]
		}
	}
	return values
}

// snapshot copies the working values so enrichment collaborators never
// see or mutate pipeline state.
func snapshot(working map[string]string) map[string]string {
	copied := make(map[string]string, len(working))
	for k, v := range working {
		copied[k] = v
	}
	return copied
}
