package reconcile

import (
	"github.com/rowform/rowform/pkg/catalogs"
)

// MatchType identifies the strategy that produced a reconciliation result.
type MatchType string

// String returns the string representation of a match type.
func (mt MatchType) String() string {
	return string(mt)
}

// Match types in strategy order. Reconciliation tries each in turn and
// stops at the first hit.
const (
	MatchExact    MatchType = "exact"
	MatchAlias    MatchType = "alias"
	MatchFuzzy    MatchType = "fuzzy"
	MatchCompound MatchType = "compound"
	MatchNone     MatchType = "none"
)

// Result describes how a raw value resolved against a catalog namespace.
type Result struct {
	// Normalized is the canonical entry name, or the raw input when no
	// entry matched.
	Normalized string `json:"normalized"`

	// Code is the code of the matched entry. Empty only when Type is
	// MatchNone.
	Code string `json:"code,omitempty"`

	// Type records the strategy that produced the match.
	Type MatchType `json:"match_type"`

	// Entry points at the matched catalog entry, nil when nothing matched.
	Entry *catalogs.Entry `json:"-"`

	// ExtraData exposes the matched entry's auxiliary columns.
	ExtraData map[string]string `json:"extra_data,omitempty"`

	// Distance is the edit distance of a fuzzy match, zero for every
	// other match type.
	Distance int `json:"distance,omitempty"`

	// MatchedPart is the fragment of a compound value that matched,
	// empty for every other match type.
	MatchedPart string `json:"matched_part,omitempty"`
}

// Matched reports whether any strategy resolved the value.
func (r Result) Matched() bool {
	return r.Type != "" && r.Type != MatchNone
}

// matchResult builds a Result for a matched entry.
func matchResult(entry *catalogs.Entry, mt MatchType) Result {
	return Result{
		Normalized: entry.Name,
		Code:       entry.Code,
		Type:       mt,
		Entry:      entry,
		ExtraData:  entry.ExtraData,
	}
}

// noMatch builds the degraded Result for an unresolvable value.
func noMatch(value string) Result {
	return Result{
		Normalized: value,
		Type:       MatchNone,
	}
}
