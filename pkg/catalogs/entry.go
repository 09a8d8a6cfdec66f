package catalogs

import (
	"strings"

	"github.com/agentstation/utc"

	"github.com/rowform/rowform/pkg/errors"
)

// Entry represents one canonical vocabulary value in a namespace.
// Entries are the reconciliation targets: a raw extracted value is
// matched against entry names and aliases, and the canonical name and
// code replace it in normalized output. Entries are immutable for the
// duration of a batch.
type Entry struct {
	Namespace Namespace         `json:"namespace" yaml:"namespace"`                       // Vocabulary this entry belongs to
	Name      string            `json:"name" yaml:"name"`                                 // Canonical display value (must not be empty)
	Code      string            `json:"code" yaml:"code"`                                 // Short identifier used in templates (must not be empty)
	Aliases   []string          `json:"aliases,omitempty" yaml:"aliases,omitempty"`       // Known synonyms and spelling variants, in priority order
	ExtraData map[string]string `json:"extra_data,omitempty" yaml:"extra_data,omitempty"` // Open-ended sidecar columns for template lookups

	// Timestamps for record keeping and auditing
	CreatedAt utc.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"` // Created date
	UpdatedAt utc.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"` // Last updated date
}

// Validate checks that the entry satisfies the catalog invariants.
// Sources validate entries on load so that downstream matching can
// rely on every entry carrying a namespace, a name, and a code.
func (e *Entry) Validate() error {
	if !e.Namespace.IsValid() {
		return errors.NewValidationError("namespace", e.Namespace, "cannot be empty")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.NewValidationError("name", e.Name, "cannot be empty")
	}
	if strings.TrimSpace(e.Code) == "" {
		return errors.NewValidationError("code", e.Code, "cannot be empty")
	}
	for i, alias := range e.Aliases {
		if strings.TrimSpace(alias) == "" {
			return errors.NewValidationError("aliases", i, "alias cannot be empty")
		}
	}
	return nil
}

// HasAlias reports whether the entry lists the given value as an alias.
// Comparison is case-insensitive and ignores surrounding whitespace.
func (e *Entry) HasAlias(value string) bool {
	needle := strings.ToLower(strings.TrimSpace(value))
	for _, alias := range e.Aliases {
		if strings.ToLower(strings.TrimSpace(alias)) == needle {
			return true
		}
	}
	return false
}

// Extra returns the named extra data column and whether it exists.
func (e *Entry) Extra(column string) (string, bool) {
	if e.ExtraData == nil {
		return "", false
	}
	value, ok := e.ExtraData[column]
	return value, ok
}

// ValidateEntries validates a slice of entries, returning the first failure
// annotated with the entry's position.
func ValidateEntries(entries []Entry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return errors.WrapValidation(entries[i].Namespace.String(), errors.NewValidationError("entries", i, err.Error()))
		}
	}
	return nil
}
