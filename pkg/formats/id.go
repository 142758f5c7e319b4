// Package formats provides parsers for the declarative content formats the
// pipeline consumes: resource identifiers, model and blockstate JSON, item
// definitions, and the compressed scene document envelope.
package formats

import "strings"

// DefaultNamespace is assumed when an identifier omits its namespace.
const DefaultNamespace = "minecraft"

// ID identifies a model, blockstate, texture or item resource as
// "namespace:path".
type ID struct {
	Namespace string
	Path      string
}

// ParseID parses "namespace:path", defaulting the namespace when absent.
func ParseID(s string) ID {
	if ns, path, ok := strings.Cut(s, ":"); ok {
		return ID{Namespace: ns, Path: path}
	}
	return ID{Namespace: DefaultNamespace, Path: s}
}

// String returns the canonical "namespace:path" form.
func (id ID) String() string {
	return id.Namespace + ":" + id.Path
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id.Namespace == "" && id.Path == ""
}

// WithPath returns a copy of the identifier with a different path.
func (id ID) WithPath(path string) ID {
	return ID{Namespace: id.Namespace, Path: path}
}

// Base returns the final segment of the path ("block/oak_log" -> "oak_log").
func (id ID) Base() string {
	if i := strings.LastIndexByte(id.Path, '/'); i >= 0 {
		return id.Path[i+1:]
	}
	return id.Path
}
