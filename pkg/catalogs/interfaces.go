package catalogs

import "context"

// Source provides bulk read access to catalog entries. It is the only
// contract the engine consumes from persistence: one call returns every
// entry for the requested namespaces so that a batch never needs
// per-item reads. Passing no namespaces returns all of them.
//
// Implementations must return validated entries (see Entry.Validate)
// and should honor context cancellation and deadlines.
type Source interface {
	// ID identifies the source implementation
	ID() SourceID

	// Entries returns all entries for the given namespaces keyed by
	// namespace. Namespaces with no entries may be absent from the map.
	Entries(ctx context.Context, namespaces ...Namespace) (map[Namespace][]Entry, error)

	// Close releases any resources held by the source
	Close() error
}

// Writer provides write operations for sources that support mutation.
// The engine never writes; writers exist for catalog administration.
type Writer interface {
	// SetEntry inserts or replaces an entry (upsert semantics)
	SetEntry(ctx context.Context, entry Entry) error

	// DeleteEntry removes an entry by namespace and canonical name
	DeleteEntry(ctx context.Context, namespace Namespace, name string) error
}

// ReadWriteSource combines read and write access for mutable backends.
type ReadWriteSource interface {
	Source
	Writer
}
