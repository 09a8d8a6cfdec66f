package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agentstation/utc"

	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/products"
)

var _ products.Store = (*Store)(nil)

// SaveRaw stores raw rows, replacing any existing rows with the same
// line id. The whole call is one transaction.
func (s *Store) SaveRaw(ctx context.Context, items ...products.RawProduct) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.WrapResource("save", "raw products", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
	INSERT INTO raw_products (line_id, batch_id, field_values, needs_review, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (line_id) DO UPDATE SET
		batch_id = EXCLUDED.batch_id,
		field_values = EXCLUDED.field_values,
		needs_review = EXCLUDED.needs_review,
		updated_at = EXCLUDED.updated_at`

	for _, item := range items {
		if item.LineID == "" {
			return errors.NewValidationError("line_id", item.LineID, "line id must not be empty")
		}
		values, err := json.Marshal(item.Values)
		if err != nil {
			return errors.WrapResource("save", "raw product", item.LineID, err)
		}
		created, updated := rowTimes(item.CreatedAt, item.UpdatedAt)
		if _, err := tx.Exec(ctx, query,
			item.LineID, item.BatchID, values, item.NeedsReview,
			created.Time, updated.Time); err != nil {
			return errors.WrapResource("save", "raw product", item.LineID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.WrapResource("save", "raw products", "", err)
	}
	return nil
}

// RawProducts returns the raw rows of a batch, oldest first.
func (s *Store) RawProducts(ctx context.Context, batchID string) ([]products.RawProduct, error) {
	const query = `
	SELECT line_id, batch_id, field_values, needs_review, created_at, updated_at
	FROM raw_products WHERE batch_id = $1 ORDER BY created_at, line_id`

	rows, err := s.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, errors.WrapResource("list", "raw products", batchID, err)
	}
	defer rows.Close()

	var out []products.RawProduct
	for rows.Next() {
		var item products.RawProduct
		var values []byte
		var created, updated time.Time
		if err := rows.Scan(&item.LineID, &item.BatchID, &values, &item.NeedsReview, &created, &updated); err != nil {
			return nil, errors.WrapResource("list", "raw products", batchID, err)
		}
		if err := json.Unmarshal(values, &item.Values); err != nil {
			return nil, errors.WrapResource("list", "raw products", batchID, err)
		}
		item.CreatedAt = utc.New(created)
		item.UpdatedAt = utc.New(updated)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "raw products", batchID, err)
	}
	return out, nil
}

// SaveNormalized stores normalized records, replacing any existing
// records with the same line id. The whole call is one transaction.
func (s *Store) SaveNormalized(ctx context.Context, items ...products.NormalizedProduct) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.WrapResource("save", "normalized products", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const query = `
	INSERT INTO normalized_products (line_id, batch_id, fields, needs_review, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (line_id) DO UPDATE SET
		batch_id = EXCLUDED.batch_id,
		fields = EXCLUDED.fields,
		needs_review = EXCLUDED.needs_review,
		updated_at = EXCLUDED.updated_at`

	for _, item := range items {
		if item.LineID == "" {
			return errors.NewValidationError("line_id", item.LineID, "line id must not be empty")
		}
		fields, err := json.Marshal(item.Fields)
		if err != nil {
			return errors.WrapResource("save", "normalized product", item.LineID, err)
		}
		created, updated := rowTimes(item.CreatedAt, item.UpdatedAt)
		if _, err := tx.Exec(ctx, query,
			item.LineID, item.BatchID, fields, item.NeedsReview,
			created.Time, updated.Time); err != nil {
			return errors.WrapResource("save", "normalized product", item.LineID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.WrapResource("save", "normalized products", "", err)
	}
	return nil
}

// NormalizedProducts returns the normalized records of a batch, oldest
// first. Numeric field values come back as int64 or float64, matching
// what the pipeline produced.
func (s *Store) NormalizedProducts(ctx context.Context, batchID string) ([]products.NormalizedProduct, error) {
	const query = `
	SELECT line_id, batch_id, fields, needs_review, created_at, updated_at
	FROM normalized_products WHERE batch_id = $1 ORDER BY created_at, line_id`

	rows, err := s.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, errors.WrapResource("list", "normalized products", batchID, err)
	}
	defer rows.Close()

	var out []products.NormalizedProduct
	for rows.Next() {
		var item products.NormalizedProduct
		var fields []byte
		var created, updated time.Time
		if err := rows.Scan(&item.LineID, &item.BatchID, &fields, &item.NeedsReview, &created, &updated); err != nil {
			return nil, errors.WrapResource("list", "normalized products", batchID, err)
		}
		if err := json.Unmarshal(fields, &item.Fields); err != nil {
			return nil, errors.WrapResource("list", "normalized products", batchID, err)
		}
		item.CreatedAt = utc.New(created)
		item.UpdatedAt = utc.New(updated)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "normalized products", batchID, err)
	}
	return out, nil
}

// rowTimes fills zero timestamps with the current time.
func rowTimes(created, updated utc.Time) (utc.Time, utc.Time) {
	now := utc.Now()
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = now
	}
	return created, updated
}
