package catalogs

import (
	"context"
	"sort"
	"sync"

	"github.com/rowform/rowform/pkg/errors"
	"github.com/rowform/rowform/pkg/logging"
)

// Store is a batch-scoped cache over a Source. A pipeline creates one
// store per batch, prefetches every namespace its profile references,
// shares the store across all items and templates, and clears it when
// the batch ends. Lookups between prefetch and clear never touch the
// backing source, which keeps total reads proportional to the number of
// distinct namespaces rather than items times fields.
//
// Prefetching is a performance optimization, not a correctness
// dependency: a lookup against a namespace that was never prefetched
// falls back to a read-through against the source.
//
// A Store is owned by its caller. It is safe for concurrent use, so a
// batch may fan items out across goroutines against one store.
type Store struct {
	mu     sync.RWMutex
	source Source
	cache  map[Namespace][]Entry
}

// NewStore creates a cache handle over the given source.
func NewStore(source Source) *Store {
	return &Store{
		source: source,
		cache:  make(map[Namespace][]Entry),
	}
}

// SourceID returns the identifier of the backing source.
func (s *Store) SourceID() SourceID {
	if s.source == nil {
		return SourceIDUnknown
	}
	return s.source.ID()
}

// Prefetch loads the given namespaces from the backing source in one
// bulk read and caches the result. Namespaces that come back empty are
// cached as empty so later lookups do not re-read them. Calling
// Prefetch again refreshes the cached namespaces.
//
// Passing no namespaces loads everything the source has.
//
// A failure here is batch-fatal: the caller gets the wrapped source
// error and nothing is cached.
func (s *Store) Prefetch(ctx context.Context, namespaces ...Namespace) error {
	if s.source == nil {
		return errors.NewSourceError(SourceIDUnknown.String(), namespaceStrings(namespaces), errors.ErrCatalogUnavailable)
	}

	fetched, err := s.source.Entries(ctx, namespaces...)
	if err != nil {
		return errors.WrapSource(s.source.ID().String(), namespaceStrings(namespaces), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(namespaces) == 0 {
		// Full load: whatever the source returned defines the cache.
		for ns, entries := range fetched {
			s.cache[ns] = entries
		}
		return nil
	}

	for _, ns := range namespaces {
		entries, ok := fetched[ns]
		if !ok {
			entries = []Entry{}
		}
		s.cache[ns] = entries
	}
	return nil
}

// EntriesFor returns the cached entries for a namespace. On a cache
// miss it reads through to the backing source and caches the result.
// The returned slice is shared; callers must not modify it.
//
// Lookup failures degrade: the error is logged and nil is returned, so
// an unreachable source turns matching into a no-op rather than an
// abort.
func (s *Store) EntriesFor(ctx context.Context, ns Namespace) []Entry {
	s.mu.RLock()
	entries, ok := s.cache[ns]
	s.mu.RUnlock()
	if ok {
		return entries
	}

	if s.source == nil {
		return nil
	}

	fetched, err := s.source.Entries(ctx, ns)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("namespace", ns.String()).
			Str("source", s.source.ID().String()).
			Msg("Catalog read-through failed")
		return nil
	}

	entries = fetched[ns]
	if entries == nil {
		entries = []Entry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have cached this namespace meanwhile.
	if cached, ok := s.cache[ns]; ok {
		return cached
	}
	s.cache[ns] = entries
	return entries
}

// Clear discards all cached entries. Pipelines call this once at the
// end of a batch so a store never outlives the data it was built for.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.cache {
		delete(s.cache, k)
	}
}

// Namespaces returns a sorted slice of the currently cached namespaces.
func (s *Store) Namespaces() []Namespace {
	s.mu.RLock()
	namespaces := make([]Namespace, 0, len(s.cache))
	for ns := range s.cache {
		namespaces = append(namespaces, ns)
	}
	s.mu.RUnlock()

	sort.Slice(namespaces, func(i, j int) bool { return namespaces[i] < namespaces[j] })
	return namespaces
}

// Len returns the total number of cached entries across all namespaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, entries := range s.cache {
		total += len(entries)
	}
	return total
}

// namespaceStrings converts namespaces to strings for error reporting.
func namespaceStrings(namespaces []Namespace) []string {
	if len(namespaces) == 0 {
		return nil
	}
	out := make([]string, len(namespaces))
	for i, ns := range namespaces {
		out[i] = ns.String()
	}
	return out
}
