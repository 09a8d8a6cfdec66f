// Package files provides a catalog source backed by a directory of
// namespace YAML files, one file per namespace.
package files

import (
	"context"
	"os"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// Source reads catalog entries from <namespace>.yaml files under a
// base directory. Files are re-read on every bulk read, so edits show
// up on the next batch without a restart. The source is read-only;
// mutation belongs to the database-backed sources.
type Source struct {
	dir string
}

// NewSource creates a file-backed source rooted at dir.
func NewSource(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapIO("open", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError("open", dir, errors.New("not a directory"))
	}
	return &Source{dir: dir}, nil
}

// ID identifies the source implementation.
func (s *Source) ID() catalogs.SourceID { return catalogs.SourceIDFiles }

// Entries loads every namespace file under the base directory and
// returns the requested namespaces keyed by namespace.
func (s *Source) Entries(ctx context.Context, namespaces ...catalogs.Namespace) (map[catalogs.Namespace][]catalogs.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := catalogs.LoadFS(os.DirFS(s.dir))
	if err != nil {
		return nil, err
	}
	if len(namespaces) == 0 {
		return all, nil
	}

	out := make(map[catalogs.Namespace][]catalogs.Entry, len(namespaces))
	for _, ns := range namespaces {
		if list, ok := all[ns]; ok {
			out[ns] = list
		}
	}
	return out, nil
}

// Close releases nothing; it exists to satisfy the Source contract.
func (s *Source) Close() error { return nil }

// Dir returns the base directory the source reads from.
func (s *Source) Dir() string { return s.dir }
