package schema

import (
	"github.com/rowform/rowform/pkg/catalogs"
)

// Field defines one column of a normalization profile.
type Field struct {
	// Key uniquely identifies the field within its profile and is the
	// name templates address it by.
	Key string `json:"key" yaml:"key" validate:"required,field_key"`

	// Label is the human readable column title.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// ValueType controls output typing, text by default.
	ValueType ValueType `json:"value_type,omitempty" yaml:"value_type,omitempty" validate:"omitempty,oneof=text number"`

	// Source declares whether the value is extracted from the raw row
	// or computed by logic, extracted by default.
	Source FieldSource `json:"source,omitempty" yaml:"source,omitempty" validate:"omitempty,oneof=extracted computed"`

	// CatalogKey binds the field to a catalog namespace for
	// reconciliation and for lookup-backed template variables.
	CatalogKey catalogs.Namespace `json:"catalog_key,omitempty" yaml:"catalog_key,omitempty"`

	// LogicType selects the generation logic of a computed field,
	// none by default.
	LogicType LogicType `json:"logic_type,omitempty" yaml:"logic_type,omitempty" validate:"omitempty,oneof=none template ai_enrichment"`

	// Template is the expression evaluated when LogicType is template.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// AIPrompt is handed to the enrichment collaborator when LogicType
	// is ai_enrichment.
	AIPrompt string `json:"ai_prompt,omitempty" yaml:"ai_prompt,omitempty"`

	// Fallback is substituted for an empty working value before
	// templates are evaluated.
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// IsComputed returns true if the field's value is produced by logic.
func (f *Field) IsComputed() bool {
	return f.Source == SourceComputed
}

// IsExtracted returns true if the field's value arrives in the raw row.
func (f *Field) IsExtracted() bool {
	return f.Source == SourceExtracted
}

// HasCatalog returns true if the field is bound to a catalog namespace.
func (f *Field) HasCatalog() bool {
	return f.CatalogKey != ""
}

// applyDefaults fills the zero enum values.
func (f *Field) applyDefaults() {
	if f.ValueType == "" {
		f.ValueType = ValueTypeText
	}
	if f.Source == "" {
		f.Source = SourceExtracted
	}
	if f.LogicType == "" {
		f.LogicType = LogicNone
	}
}

// validate checks the semantic rules a struct tag cannot express.
func (f *Field) validate() []string {
	var problems []string

	if f.LogicType == LogicTemplate || f.LogicType == LogicAIEnrichment {
		if !f.IsComputed() {
			problems = append(problems, "logic_type "+f.LogicType.String()+" requires source computed")
		}
	}
	if f.LogicType == LogicTemplate && f.Template == "" {
		problems = append(problems, "logic_type template requires a template")
	}
	if f.LogicType == LogicAIEnrichment && f.AIPrompt == "" {
		problems = append(problems, "logic_type ai_enrichment requires an ai_prompt")
	}

	return problems
}
