package sqlite

import (
	"context"
	"encoding/json"

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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("save", "raw products", "", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO raw_products (line_id, batch_id, field_values, needs_review, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(line_id) DO UPDATE SET
		batch_id = excluded.batch_id,
		field_values = excluded.field_values,
		needs_review = excluded.needs_review,
		updated_at = excluded.updated_at`

	for _, item := range items {
		if item.LineID == "" {
			return errors.NewValidationError("line_id", item.LineID, "line id must not be empty")
		}
		values, err := json.Marshal(item.Values)
		if err != nil {
			return errors.WrapResource("save", "raw product", item.LineID, err)
		}
		created, updated := rowTimes(item.CreatedAt, item.UpdatedAt)
		if _, err := tx.ExecContext(ctx, query,
			item.LineID, item.BatchID, string(values), boolInt(item.NeedsReview),
			formatTime(created), formatTime(updated)); err != nil {
			return errors.WrapResource("save", "raw product", item.LineID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapResource("save", "raw products", "", err)
	}
	return nil
}

// RawProducts returns the raw rows of a batch, oldest first.
func (s *Store) RawProducts(ctx context.Context, batchID string) ([]products.RawProduct, error) {
	const query = `
	SELECT line_id, batch_id, field_values, needs_review, created_at, updated_at
	FROM raw_products WHERE batch_id = ? ORDER BY created_at, line_id`

	rows, err := s.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, errors.WrapResource("list", "raw products", batchID, err)
	}
	defer rows.Close()

	var out []products.RawProduct
	for rows.Next() {
		var item products.RawProduct
		var values, createdAt, updatedAt string
		var needsReview int
		if err := rows.Scan(&item.LineID, &item.BatchID, &values, &needsReview, &createdAt, &updatedAt); err != nil {
			return nil, errors.WrapResource("list", "raw products", batchID, err)
		}
		if err := json.Unmarshal([]byte(values), &item.Values); err != nil {
			return nil, errors.WrapResource("list", "raw products", batchID, err)
		}
		item.NeedsReview = needsReview != 0
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, errors.WrapResource("list", "raw products", batchID, err)
		}
		if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, errors.WrapResource("list", "raw products", batchID, err)
		}
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("save", "normalized products", "", err)
	}
	defer tx.Rollback()

	const query = `
	INSERT INTO normalized_products (line_id, batch_id, fields, needs_review, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(line_id) DO UPDATE SET
		batch_id = excluded.batch_id,
		fields = excluded.fields,
		needs_review = excluded.needs_review,
		updated_at = excluded.updated_at`

	for _, item := range items {
		if item.LineID == "" {
			return errors.NewValidationError("line_id", item.LineID, "line id must not be empty")
		}
		fields, err := json.Marshal(item.Fields)
		if err != nil {
			return errors.WrapResource("save", "normalized product", item.LineID, err)
		}
		created, updated := rowTimes(item.CreatedAt, item.UpdatedAt)
		if _, err := tx.ExecContext(ctx, query,
			item.LineID, item.BatchID, string(fields), boolInt(item.NeedsReview),
			formatTime(created), formatTime(updated)); err != nil {
			return errors.WrapResource("save", "normalized product", item.LineID, err)
		}
	}

	if err := tx.Commit(); err != nil {
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
	FROM normalized_products WHERE batch_id = ? ORDER BY created_at, line_id`

	rows, err := s.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, errors.WrapResource("list", "normalized products", batchID, err)
	}
	defer rows.Close()

	var out []products.NormalizedProduct
	for rows.Next() {
		var item products.NormalizedProduct
		var fields, createdAt, updatedAt string
		var needsReview int
		if err := rows.Scan(&item.LineID, &item.BatchID, &fields, &needsReview, &createdAt, &updatedAt); err != nil {
			return nil, errors.WrapResource("list", "normalized products", batchID, err)
		}
		if err := json.Unmarshal([]byte(fields), &item.Fields); err != nil {
			return nil, errors.WrapResource("list", "normalized products", batchID, err)
		}
		item.NeedsReview = needsReview != 0
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, errors.WrapResource("list", "normalized products", batchID, err)
		}
		if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, errors.WrapResource("list", "normalized products", batchID, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("list", "normalized products", batchID, err)
	}
	return out, nil
}

// rowTimes fills zero timestamps with the current time. A zero created
// time only happens for rows built by hand, so both stamps land on the
// same instant in that case.
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

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
