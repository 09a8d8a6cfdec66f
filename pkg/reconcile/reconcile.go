// Package reconcile resolves raw extracted values against catalog
// vocabularies using layered exact, alias, fuzzy, and compound
// matching strategies.
package reconcile

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/constants"
)

// Reconciler resolves raw values against the entries of a single
// catalog namespace.
type Reconciler interface {
	// Reconcile matches value against entries, trying exact, alias,
	// fuzzy, and compound strategies in order and returning on the
	// first hit. It never fails; an unresolvable value yields a Result
	// with MatchNone and the raw value carried through.
	Reconcile(value string, entries []catalogs.Entry) Result
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	fuzzy      bool
	thresholds Thresholds
	logger     zerolog.Logger
}

// Option configures a Reconciler.
type Option func(*reconciler) error

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{
		fuzzy:      true,
		thresholds: DefaultThresholds(),
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Reconcile matches value against entries using the strategy ladder.
func (r *reconciler) Reconcile(value string, entries []catalogs.Entry) Result {
	normalized := Normalize(value)
	if normalized == "" || len(entries) == 0 {
		return noMatch(value)
	}

	if res, ok := matchExact(normalized, entries); ok {
		return res
	}
	if res, ok := matchAlias(normalized, entries); ok {
		return res
	}
	if r.fuzzy {
		if res, ok := matchFuzzy(normalized, r.thresholds, entries); ok {
			r.logger.Debug().
				Str("value", value).
				Str("matched", res.Normalized).
				Int("distance", res.Distance).
				Msg("Fuzzy match accepted")
			return res
		}
	}
	if res, ok := matchCompound(value, entries); ok {
		return res
	}

	return noMatch(value)
}

// matchExact looks for an entry whose canonical name normalizes to the
// input.
func matchExact(normalized string, entries []catalogs.Entry) (Result, bool) {
	for i := range entries {
		if Normalize(entries[i].Name) == normalized {
			return matchResult(&entries[i], MatchExact), true
		}
	}
	return Result{}, false
}

// matchAlias looks for an entry carrying an alias that normalizes to
// the input. The result still resolves to the entry's canonical name.
func matchAlias(normalized string, entries []catalogs.Entry) (Result, bool) {
	for i := range entries {
		for _, alias := range entries[i].Aliases {
			if Normalize(alias) == normalized {
				return matchResult(&entries[i], MatchAlias), true
			}
		}
	}
	return Result{}, false
}

// matchFuzzy scans every name and alias for the globally closest
// candidate within the length-scaled edit-distance budget. Ties keep
// the first-encountered entry.
func matchFuzzy(normalized string, thresholds Thresholds, entries []catalogs.Entry) (Result, bool) {
	length := utf8.RuneCountInString(normalized)
	budget := thresholds.budget(length)

	best := -1
	var bestEntry *catalogs.Entry

	for i := range entries {
		for _, candidate := range candidateNames(&entries[i]) {
			nc := Normalize(candidate)

			// A length difference beyond the budget cannot match.
			if diff := utf8.RuneCountInString(nc) - length; diff > budget || diff < -budget {
				continue
			}

			d := levenshtein(normalized, nc)
			if d > budget {
				continue
			}
			if best == -1 || d < best {
				best = d
				bestEntry = &entries[i]
			}
		}
	}

	if bestEntry == nil {
		return Result{}, false
	}

	res := matchResult(bestEntry, MatchFuzzy)
	res.Distance = best
	return res, true
}

// matchCompound splits the original raw value into parts and retries
// exact and alias matching per part, in order. Fuzzy matching is never
// retried for parts. Requires at least two non-empty parts.
func matchCompound(value string, entries []catalogs.Entry) (Result, bool) {
	parts := splitCompound(value)
	if len(parts) < constants.MinCompoundParts {
		return Result{}, false
	}

	for _, part := range parts {
		normalized := Normalize(part)
		if normalized == "" {
			continue
		}
		if res, ok := matchExact(normalized, entries); ok {
			res.Type = MatchCompound
			res.MatchedPart = part
			return res, true
		}
		if res, ok := matchAlias(normalized, entries); ok {
			res.Type = MatchCompound
			res.MatchedPart = part
			return res, true
		}
	}

	return Result{}, false
}

// candidateNames returns the matchable strings of an entry, canonical
// name first.
func candidateNames(entry *catalogs.Entry) []string {
	names := make([]string, 0, len(entry.Aliases)+1)
	names = append(names, entry.Name)
	names = append(names, entry.Aliases...)
	return names
}

// splitCompound splits a raw value on runs of whitespace and the
// common compound separators.
func splitCompound(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case '/', ',', '&', '-', '+':
			return true
		}
		return unicode.IsSpace(r)
	})
}

// Option Functions
// ================

// WithFuzzy toggles the fuzzy matching stage. Fuzzy matching is
// enabled by default; disabling it restricts resolution to exact,
// alias, and compound hits.
func WithFuzzy(enabled bool) Option {
	return func(r *reconciler) error {
		r.fuzzy = enabled
		return nil
	}
}

// WithThresholds replaces the fuzzy matching distance schedule.
// Loosening the schedule trades precision for recall.
func WithThresholds(t Thresholds) Option {
	return func(r *reconciler) error {
		if t.ShortLength <= 0 || t.MediumLength < t.ShortLength {
			return fmt.Errorf("threshold lengths must be positive and ordered")
		}
		if t.ShortDistance < 0 || t.MediumDistance < 0 || t.LongDistance < 0 {
			return fmt.Errorf("threshold distances cannot be negative")
		}
		r.thresholds = t
		return nil
	}
}

// WithLogger sets the logger used to trace accepted fuzzy matches.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		r.logger = *logger
		return nil
	}
}
