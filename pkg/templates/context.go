package templates

import (
	"github.com/rowform/rowform/pkg/catalogs"
)

// Context carries the variable environment for one rendering.
type Context struct {
	// Values maps field keys to their current working values. Computed
	// fields are never included here, so a template cannot resolve
	// through another generated field.
	Values map[string]string

	// Sequence is the 1-based position of the item within its batch.
	Sequence int

	// Mappings binds field keys to catalog namespaces. A mapped
	// variable resolves through the reconciler instead of passing its
	// raw value through.
	Mappings map[string]catalogs.Namespace
}

// Value returns the working value for a field key.
func (c *Context) Value(key string) (string, bool) {
	v, ok := c.Values[key]
	return v, ok
}

// Namespace returns the catalog namespace bound to a field key.
func (c *Context) Namespace(key string) (catalogs.Namespace, bool) {
	ns, ok := c.Mappings[key]
	return ns, ok
}
