package pipeline

import (
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/reconcile"
)

// Result is the outcome of one batch normalization run.
type Result struct {
	// BatchID identifies the run.
	BatchID string `json:"batch_id,omitempty"`

	// Products are the normalized records in batch order. Failed items
	// leave no record.
	Products []products.NormalizedProduct `json:"products"`

	// Errors holds the leading item errors, capped so a pathological
	// batch cannot flood callers.
	Errors []error `json:"-"`

	// Statistics summarizes the run.
	Statistics Statistics `json:"statistics"`
}

// Statistics summarizes what a run did.
type Statistics struct {
	// Items processed, split by outcome.
	ItemsProcessed int `json:"items_processed"`
	ItemsFailed    int `json:"items_failed"`

	// Reconciliation hits by match type across all fields.
	ExactMatches    int `json:"exact_matches"`
	AliasMatches    int `json:"alias_matches"`
	FuzzyMatches    int `json:"fuzzy_matches"`
	CompoundMatches int `json:"compound_matches"`
	Unmatched       int `json:"unmatched"`

	// Computed field activity.
	TemplatesRendered int `json:"templates_rendered"`
	FieldsEnriched    int `json:"fields_enriched"`

	// TotalTimeMs is the wall time of the run.
	TotalTimeMs int64 `json:"total_time_ms"`
}

// Failed reports whether any item failed.
func (r *Result) Failed() bool {
	return r.Statistics.ItemsFailed > 0
}

// countMatch records one reconciliation outcome.
func (s *Statistics) countMatch(mt reconcile.MatchType) {
	switch mt {
	case reconcile.MatchExact:
		s.ExactMatches++
	case reconcile.MatchAlias:
		s.AliasMatches++
	case reconcile.MatchFuzzy:
		s.FuzzyMatches++
	case reconcile.MatchCompound:
		s.CompoundMatches++
	default:
		s.Unmatched++
	}
}

// merge folds an item's counters into the batch statistics.
func (s *Statistics) merge(other Statistics) {
	s.ExactMatches += other.ExactMatches
	s.AliasMatches += other.AliasMatches
	s.FuzzyMatches += other.FuzzyMatches
	s.CompoundMatches += other.CompoundMatches
	s.Unmatched += other.Unmatched
	s.TemplatesRendered += other.TemplatesRendered
	s.FieldsEnriched += other.FieldsEnriched
}
