package pipeline

import (
	"context"
)

// EnrichmentRequest describes one field awaiting external text
// enrichment.
type EnrichmentRequest struct {
	// Key is the field key the returned value merges under.
	Key string `json:"key"`

	// Label is the human readable field title.
	Label string `json:"label,omitempty"`

	// Prompt is the field's generation instruction.
	Prompt string `json:"prompt"`

	// Fallback is substituted when the collaborator returns nothing.
	Fallback string `json:"fallback,omitempty"`
}

// Enricher is the external text-generation collaborator. It receives
// the enrichment requests of one item plus a snapshot of the item's
// working values, and returns generated values keyed by field key.
// Missing keys and errors degrade to each field's fallback; an
// Enricher can never fail a batch.
type Enricher interface {
	Enrich(ctx context.Context, requests []EnrichmentRequest, snapshot map[string]string) (map[string]string, error)
}
