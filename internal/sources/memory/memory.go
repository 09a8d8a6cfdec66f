// Package memory provides a map-backed catalog source for tests and
// for callers that assemble vocabularies in code.
package memory

import (
	"context"
	"sync"

	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// Source is an in-memory catalog source. It is safe for concurrent use
// and counts bulk reads so tests can assert that a batch touches the
// catalog exactly once.
type Source struct {
	mu       sync.Mutex
	entries  map[catalogs.Namespace][]catalogs.Entry
	reads    int
	readOnly bool
}

// NewSource creates an empty in-memory source.
func NewSource() *Source {
	return &Source{entries: make(map[catalogs.Namespace][]catalogs.Entry)}
}

// NewSourceWithConfig creates an in-memory source preloaded with
// entries. Read-only mode takes effect after preloading.
func NewSourceWithConfig(readOnly bool, entries []catalogs.Entry) (*Source, error) {
	s := NewSource()
	for _, entry := range entries {
		if err := s.SetEntry(context.Background(), entry); err != nil {
			return nil, err
		}
	}
	s.readOnly = readOnly
	return s, nil
}

// ID identifies the source implementation.
func (s *Source) ID() catalogs.SourceID { return catalogs.SourceIDMemory }

// Entries returns entries for the given namespaces keyed by namespace.
// Passing no namespaces returns everything. The result holds fresh
// slices, so later writes never disturb handed-out data.
func (s *Source) Entries(_ context.Context, namespaces ...catalogs.Namespace) (map[catalogs.Namespace][]catalogs.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++

	out := make(map[catalogs.Namespace][]catalogs.Entry, len(namespaces))
	if len(namespaces) == 0 {
		for ns, list := range s.entries {
			out[ns] = append([]catalogs.Entry(nil), list...)
		}
		return out, nil
	}
	for _, ns := range namespaces {
		if list, ok := s.entries[ns]; ok {
			out[ns] = append([]catalogs.Entry(nil), list...)
		}
	}
	return out, nil
}

// SetEntry inserts or replaces an entry keyed by namespace and
// canonical name.
func (s *Source) SetEntry(_ context.Context, entry catalogs.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return errors.ErrReadOnly
	}

	list := s.entries[entry.Namespace]
	for i := range list {
		if list[i].Name == entry.Name {
			list[i] = entry
			return nil
		}
	}
	s.entries[entry.Namespace] = append(list, entry)
	return nil
}

// DeleteEntry removes an entry by namespace and canonical name.
func (s *Source) DeleteEntry(_ context.Context, namespace catalogs.Namespace, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return errors.ErrReadOnly
	}

	list := s.entries[namespace]
	for i := range list {
		if list[i].Name == name {
			s.entries[namespace] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return errors.NewNotFoundError("entry", namespace.String()+"/"+name)
}

// Close releases nothing; it exists to satisfy the Source contract.
func (s *Source) Close() error { return nil }

// Reads returns how many bulk reads the source has served.
func (s *Source) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// IsReadOnly reports whether writes are rejected.
func (s *Source) IsReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// SetReadOnly toggles write protection.
func (s *Source) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = readOnly
}

// Len returns the total number of entries across all namespaces.
func (s *Source) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, list := range s.entries {
		total += len(list)
	}
	return total
}
