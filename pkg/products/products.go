// Package products defines the raw and normalized product records the
// pipeline transforms between, and the storage contract they persist
// through.
package products

import (
	"github.com/agentstation/utc"
	"github.com/google/uuid"
)

// RawProduct is one extracted row: a flat mapping of field keys to the
// raw strings the extraction step produced.
type RawProduct struct {
	// LineID uniquely identifies the row within its batch.
	LineID string `json:"line_id" yaml:"line_id"`

	// BatchID scopes the row to one normalization run.
	BatchID string `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`

	// Values maps field keys to raw extracted strings.
	Values map[string]string `json:"values" yaml:"values"`

	// NeedsReview carries the extraction-time review marker through
	// normalization untouched.
	NeedsReview bool `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`

	// CreatedAt is when the row was first stored.
	CreatedAt utc.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// UpdatedAt is when the row was last modified.
	UpdatedAt utc.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewRawProduct creates a raw product with a generated line id.
func NewRawProduct(batchID string, values map[string]string) RawProduct {
	now := utc.Now()
	return RawProduct{
		LineID:    uuid.New().String(),
		BatchID:   batchID,
		Values:    values,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Value returns the raw string for a field key.
func (p *RawProduct) Value(key string) string {
	return p.Values[key]
}

// FieldValue is one assembled output column. Value is a string,
// int64, or float64 depending on the field's coercion.
type FieldValue struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

// NormalizedProduct is the catalog-aligned record produced for one raw
// row. Fields carry the profile's keys in profile order.
type NormalizedProduct struct {
	// LineID ties the record back to its raw row.
	LineID string `json:"line_id" yaml:"line_id"`

	// BatchID scopes the record to one normalization run.
	BatchID string `json:"batch_id,omitempty" yaml:"batch_id,omitempty"`

	// Fields are the assembled values in profile order.
	Fields []FieldValue `json:"fields" yaml:"fields"`

	// NeedsReview carries the extraction-time review marker.
	NeedsReview bool `json:"needs_review,omitempty" yaml:"needs_review,omitempty"`

	// CreatedAt is when the record was produced.
	CreatedAt utc.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// UpdatedAt is when the record was last regenerated or edited.
	UpdatedAt utc.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Value returns the assembled value for a field key.
func (p *NormalizedProduct) Value(key string) (any, bool) {
	for i := range p.Fields {
		if p.Fields[i].Key == key {
			return p.Fields[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the field keys in output order.
func (p *NormalizedProduct) Keys() []string {
	keys := make([]string, 0, len(p.Fields))
	for i := range p.Fields {
		keys = append(keys, p.Fields[i].Key)
	}
	return keys
}

// Map flattens the fields into an unordered lookup map.
func (p *NormalizedProduct) Map() map[string]any {
	m := make(map[string]any, len(p.Fields))
	for i := range p.Fields {
		m[p.Fields[i].Key] = p.Fields[i].Value
	}
	return m
}

// Set replaces the value for a field key, appending the field when it
// is not present yet.
func (p *NormalizedProduct) Set(key string, value any) {
	for i := range p.Fields {
		if p.Fields[i].Key == key {
			p.Fields[i].Value = value
			return
		}
	}
	p.Fields = append(p.Fields, FieldValue{Key: key, Value: value})
}
