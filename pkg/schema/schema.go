// Package schema defines normalization profiles: ordered field
// definitions that drive extraction, catalog reconciliation, and
// computed-value generation. Field behavior is entirely data driven;
// the pipeline interprets a profile, it never hardcodes fields.
package schema

// ValueType declares how an assembled field value is typed.
type ValueType string

// String returns the string representation of a value type.
func (vt ValueType) String() string {
	return string(vt)
}

// IsValid returns true if the value type is a known kind.
func (vt ValueType) IsValid() bool {
	switch vt {
	case ValueTypeText, ValueTypeNumber:
		return true
	}
	return false
}

// Value types.
const (
	// ValueTypeText carries the value through as a string.
	ValueTypeText ValueType = "text"

	// ValueTypeNumber coerces the value by the field key heuristic:
	// quantity-like keys become positive integers, price-like keys
	// become decimals with locale-aware separator detection.
	ValueTypeNumber ValueType = "number"
)

// FieldSource declares where a field's value comes from.
type FieldSource string

// String returns the string representation of a field source.
func (fs FieldSource) String() string {
	return string(fs)
}

// IsValid returns true if the field source is a known kind.
func (fs FieldSource) IsValid() bool {
	switch fs {
	case SourceExtracted, SourceComputed:
		return true
	}
	return false
}

// Field sources.
const (
	// SourceExtracted fields arrive in the raw row and may be
	// reconciled against a catalog namespace.
	SourceExtracted FieldSource = "extracted"

	// SourceComputed fields are produced by generation logic and are
	// never indexed as template input variables.
	SourceComputed FieldSource = "computed"
)

// LogicType declares how a computed field's value is generated.
type LogicType string

// String returns the string representation of a logic type.
func (lt LogicType) String() string {
	return string(lt)
}

// IsValid returns true if the logic type is a known kind.
func (lt LogicType) IsValid() bool {
	switch lt {
	case LogicNone, LogicTemplate, LogicAIEnrichment:
		return true
	}
	return false
}

// Logic types.
const (
	// LogicNone marks a field with no generation logic.
	LogicNone LogicType = "none"

	// LogicTemplate evaluates the field's template expression.
	LogicTemplate LogicType = "template"

	// LogicAIEnrichment defers the value to an external enrichment
	// collaborator; the pipeline only merges its output.
	LogicAIEnrichment LogicType = "ai_enrichment"
)
