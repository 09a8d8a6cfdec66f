// Package sqlite stores catalogs and products in a single SQLite
// database file, so a local deployment needs exactly one file on disk.
// It implements both the catalog source contract and the product store
// contract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"
	_ "modernc.org/sqlite"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// Store is a SQLite-backed catalog source and product store.
type Store struct {
	db *sql.DB
}

var _ catalogs.ReadWriteSource = (*Store)(nil)

// Open opens or creates the database at path and prepares the schema.
// Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	// SQLite serializes writes anyway; a small pool limits lock
	// contention under WAL. In-memory databases live per connection,
	// so they get exactly one.
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.WrapIO("open", path, err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initSchema creates the tables if they do not exist.
func (s *Store) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS catalog_entries (
		namespace  TEXT NOT NULL,
		name       TEXT NOT NULL,
		code       TEXT NOT NULL,
		aliases    TEXT NOT NULL DEFAULT '[]',
		extra_data TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (namespace, name)
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_entries_namespace ON catalog_entries(namespace);

	CREATE TABLE IF NOT EXISTS raw_products (
		line_id      TEXT PRIMARY KEY,
		batch_id     TEXT NOT NULL,
		field_values TEXT NOT NULL DEFAULT '{}',
		needs_review INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_raw_products_batch ON raw_products(batch_id);

	CREATE TABLE IF NOT EXISTS normalized_products (
		line_id      TEXT PRIMARY KEY,
		batch_id     TEXT NOT NULL,
		fields       TEXT NOT NULL DEFAULT '[]',
		needs_review INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_normalized_products_batch ON normalized_products(batch_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.WrapResource("create", "schema", "", err)
	}
	return nil
}

// ID identifies the source implementation.
func (s *Store) ID() catalogs.SourceID { return catalogs.SourceIDSQLite }

// Entries returns all entries for the given namespaces keyed by
// namespace. Passing no namespaces returns everything. Entries come
// back oldest first within a namespace, so tie-breaking during
// reconciliation favors the earliest catalog additions.
func (s *Store) Entries(ctx context.Context, namespaces ...catalogs.Namespace) (map[catalogs.Namespace][]catalogs.Entry, error) {
	query := `SELECT namespace, name, code, aliases, extra_data, created_at, updated_at FROM catalog_entries`
	args := make([]any, 0, len(namespaces))
	if len(namespaces) > 0 {
		query += ` WHERE namespace IN (` + placeholders(len(namespaces)) + `)`
		for _, ns := range namespaces {
			args = append(args, ns.String())
		}
	}
	query += ` ORDER BY namespace, created_at, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapSource(s.ID().String(), namespaceStrings(namespaces), err)
	}
	defer rows.Close()

	out := make(map[catalogs.Namespace][]catalogs.Entry)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, errors.WrapSource(s.ID().String(), namespaceStrings(namespaces), err)
		}
		out[entry.Namespace] = append(out[entry.Namespace], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapSource(s.ID().String(), namespaceStrings(namespaces), err)
	}
	return out, nil
}

// SetEntry inserts or replaces an entry. Replacing keeps the original
// created_at so entry ordering stays stable across edits.
func (s *Store) SetEntry(ctx context.Context, entry catalogs.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	aliases, err := json.Marshal(entry.Aliases)
	if err != nil {
		return errors.WrapResource("save", "entry", entry.Name, err)
	}
	extra, err := json.Marshal(entry.ExtraData)
	if err != nil {
		return errors.WrapResource("save", "entry", entry.Name, err)
	}

	now := utc.Now()
	created := entry.CreatedAt
	if created.IsZero() {
		created = now
	}

	const query = `
	INSERT INTO catalog_entries (namespace, name, code, aliases, extra_data, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(namespace, name) DO UPDATE SET
		code = excluded.code,
		aliases = excluded.aliases,
		extra_data = excluded.extra_data,
		updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		entry.Namespace.String(), entry.Name, entry.Code,
		string(aliases), string(extra),
		formatTime(created), formatTime(now))
	if err != nil {
		return errors.WrapResource("save", "entry", entry.Name, err)
	}
	return nil
}

// DeleteEntry removes an entry by namespace and canonical name.
func (s *Store) DeleteEntry(ctx context.Context, namespace catalogs.Namespace, name string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM catalog_entries WHERE namespace = ? AND name = ?`,
		namespace.String(), name)
	if err != nil {
		return errors.WrapResource("delete", "entry", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapResource("delete", "entry", name, err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("entry", namespace.String()+"/"+name)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanEntry reads one catalog_entries row.
func scanEntry(rows *sql.Rows) (catalogs.Entry, error) {
	var entry catalogs.Entry
	var ns, aliases, extra, createdAt, updatedAt string
	if err := rows.Scan(&ns, &entry.Name, &entry.Code, &aliases, &extra, &createdAt, &updatedAt); err != nil {
		return catalogs.Entry{}, err
	}
	entry.Namespace = catalogs.Namespace(ns)

	if err := json.Unmarshal([]byte(aliases), &entry.Aliases); err != nil {
		return catalogs.Entry{}, err
	}
	if err := json.Unmarshal([]byte(extra), &entry.ExtraData); err != nil {
		return catalogs.Entry{}, err
	}

	var err error
	if entry.CreatedAt, err = parseTime(createdAt); err != nil {
		return catalogs.Entry{}, err
	}
	if entry.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return catalogs.Entry{}, err
	}
	return entry, nil
}

// placeholders builds "?, ?, ..." for n parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// formatTime serializes a timestamp as sortable RFC 3339 UTC text.
func formatTime(t utc.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads a timestamp written by formatTime.
func parseTime(s string) (utc.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return utc.Time{}, err
	}
	return utc.New(t), nil
}

// namespaceStrings converts namespaces for error reporting.
func namespaceStrings(namespaces []catalogs.Namespace) []string {
	if len(namespaces) == 0 {
		return nil
	}
	out := make([]string, len(namespaces))
	for i, ns := range namespaces {
		out[i] = ns.String()
	}
	return out
}
