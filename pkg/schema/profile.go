package schema

import (
	"strings"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// Profile is an ordered set of field definitions. Field order is
// significant; assembled output carries the profile's keys in profile
// order.
type Profile struct {
	// Name identifies the profile.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Description is free-form documentation.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Fields are the column definitions, in output order.
	Fields []Field `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
}

// Field returns the field with the given key.
func (p *Profile) Field(key string) (*Field, bool) {
	for i := range p.Fields {
		if p.Fields[i].Key == key {
			return &p.Fields[i], true
		}
	}
	return nil, false
}

// Keys returns the field keys in profile order.
func (p *Profile) Keys() []string {
	keys := make([]string, 0, len(p.Fields))
	for i := range p.Fields {
		keys = append(keys, p.Fields[i].Key)
	}
	return keys
}

// ExtractedFields returns the fields populated from the raw row, in
// profile order.
func (p *Profile) ExtractedFields() []Field {
	fields := make([]Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		if f.IsExtracted() {
			fields = append(fields, f)
		}
	}
	return fields
}

// ComputedFields returns the fields produced by generation logic, in
// profile order.
func (p *Profile) ComputedFields() []Field {
	fields := make([]Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		if f.IsComputed() {
			fields = append(fields, f)
		}
	}
	return fields
}

// Namespaces returns the distinct catalog namespaces the profile
// binds, in first-use order. This is the prefetch set for a batch.
func (p *Profile) Namespaces() []catalogs.Namespace {
	seen := make(map[catalogs.Namespace]struct{}, len(p.Fields))
	namespaces := make([]catalogs.Namespace, 0, len(p.Fields))
	for _, f := range p.Fields {
		if !f.HasCatalog() {
			continue
		}
		if _, ok := seen[f.CatalogKey]; ok {
			continue
		}
		seen[f.CatalogKey] = struct{}{}
		namespaces = append(namespaces, f.CatalogKey)
	}
	return namespaces
}

// CatalogMappings returns the field-key to namespace mapping used for
// lookup-backed template variables. Computed fields are excluded so a
// template can never resolve through another generated field.
func (p *Profile) CatalogMappings() map[string]catalogs.Namespace {
	mappings := make(map[string]catalogs.Namespace)
	for _, f := range p.Fields {
		if f.IsComputed() || !f.HasCatalog() {
			continue
		}
		mappings[f.Key] = f.CatalogKey
	}
	return mappings
}

// ApplyDefaults fills zero enum values on the profile and every field.
func (p *Profile) ApplyDefaults() {
	for i := range p.Fields {
		p.Fields[i].applyDefaults()
	}
}

// Validate checks structural and semantic rules. The returned error
// unwraps to ErrProfileInvalid.
func (p *Profile) Validate() error {
	if err := validateStruct(p); err != nil {
		field, message := firstViolation(err)
		return errors.NewProfileError(p.Name, field, message, nil)
	}

	seen := make(map[string]struct{}, len(p.Fields))
	for i := range p.Fields {
		f := &p.Fields[i]
		if _, ok := seen[f.Key]; ok {
			return errors.NewProfileError(p.Name, f.Key, "duplicate field key", nil)
		}
		seen[f.Key] = struct{}{}

		if problems := f.validate(); len(problems) > 0 {
			return errors.NewProfileError(p.Name, f.Key, strings.Join(problems, "; "), nil)
		}
	}

	return nil
}
