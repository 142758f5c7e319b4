package state

import (
	"strings"

	"github.com/veldtec/displaymesh/pkg/formats"
)

// Instance is a parsed placement string: a namespaced name plus the
// bracketed properties that select its appearance.
type Instance struct {
	ID    formats.ID
	Props map[string]string
}

// ParseInstance splits "name[prop=val,...]" into name and properties.
// Segments without "=" are skipped; a missing bracket yields nil props.
func ParseInstance(s string) Instance {
	name := s
	var props map[string]string

	if i := strings.IndexByte(s, '['); i >= 0 {
		name = s[:i]
		body := strings.TrimSuffix(s[i+1:], "]")
		props = make(map[string]string)
		for _, pair := range strings.Split(body, ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			props[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	return Instance{ID: formats.ParseID(strings.TrimSpace(name)), Props: props}
}
