package catalogs

import "strings"

// Namespace identifies one catalog vocabulary, such as "color" or
// "material". Schema fields bind to a namespace through their catalog
// key, and every entry belongs to exactly one namespace.
type Namespace string

// String returns the string representation of a Namespace.
func (n Namespace) String() string {
	return string(n)
}

// IsValid reports whether the namespace is non-empty after trimming.
func (n Namespace) IsValid() bool {
	return strings.TrimSpace(string(n)) != ""
}

// Common namespaces used by the bundled sample catalogs. Namespaces are
// open-ended: any non-empty string a profile references is legal.
const (
	NamespaceColor    Namespace = "color"
	NamespaceMaterial Namespace = "material"
	NamespaceBrand    Namespace = "brand"
	NamespaceSize     Namespace = "size"
	NamespaceFinish   Namespace = "finish"
)

// ParseNamespace normalizes a raw string into a Namespace.
// Namespaces are lowercase with hyphens instead of spaces.
func ParseNamespace(s string) Namespace {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return Namespace(normalized)
}

// SourceID represents a catalog source identifier type for compile-time safety.
type SourceID string

// String returns the string representation of a SourceID.
func (sid SourceID) String() string {
	return string(sid)
}

// Source ID constants for compile-time safety and consistency.
const (
	SourceIDMemory   SourceID = "memory"
	SourceIDEmbedded SourceID = "embedded"
	SourceIDFiles    SourceID = "files"
	SourceIDSQLite   SourceID = "sqlite"
	SourceIDPostgres SourceID = "postgres"
	SourceIDUnknown  SourceID = "unknown"
)
