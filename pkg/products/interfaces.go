package products

import (
	"context"
)

// Store persists raw and normalized product rows. Rows are keyed by
// line id and scoped to a batch id; saving a row with an existing line
// id replaces it.
type Store interface {
	// SaveRaw stores raw rows.
	SaveRaw(ctx context.Context, items ...RawProduct) error

	// RawProducts returns the raw rows of a batch in insertion order.
	RawProducts(ctx context.Context, batchID string) ([]RawProduct, error)

	// SaveNormalized stores normalized records.
	SaveNormalized(ctx context.Context, items ...NormalizedProduct) error

	// NormalizedProducts returns the normalized records of a batch in
	// insertion order.
	NormalizedProducts(ctx context.Context, batchID string) ([]NormalizedProduct, error)

	// Close releases any resources held by the store.
	Close() error
}
