// Package model resolves model identifiers into merged model trees:
// parent-chain inheritance, layered source fallback, and per-run
// memoization of both successes and failures.
package model

import (
	"github.com/veldtec/displaymesh/pkg/formats"
)

// Resolved is a model after parent-chain merging. Immutable once cached;
// callers must not mutate its maps or slices.
type Resolved struct {
	ID formats.ID

	// Textures is the parent chain's texture map overlaid by this
	// model's own entries.
	Textures map[string]string

	// Elements are this model's own cuboids, or the nearest ancestor's
	// when the model declares none. nil means no ancestor declares any.
	Elements []formats.Element

	// Display holds this model's own display declarations only. Ancestor
	// declarations are reached through ParentChain.
	Display map[string]formats.Transform

	// ParentChain lists ancestor ids, root-most first.
	ParentChain []formats.ID

	TextureSize   *[2]int
	FromHardcoded bool

	// IgnoreDisplay collects ids whose display declarations must be
	// skipped when searching the chain for a display transform.
	IgnoreDisplay map[formats.ID]bool
}

// DescendsFrom reports whether id appears in the parent chain.
func (m *Resolved) DescendsFrom(id formats.ID) bool {
	for _, p := range m.ParentChain {
		if p == id {
			return true
		}
	}
	return false
}

// HasElements reports whether any cuboid geometry was inherited or
// declared.
func (m *Resolved) HasElements() bool {
	return len(m.Elements) > 0
}

// Texture follows "#key" indirections through the texture map until a
// literal resource path remains. maxHops bounds broken reference chains.
func (m *Resolved) Texture(ref string, maxHops int) (string, bool) {
	for hops := 0; hops <= maxHops; hops++ {
		if len(ref) == 0 || ref[0] != '#' {
			return ref, ref != ""
		}
		next, ok := m.Textures[ref[1:]]
		if !ok {
			return "", false
		}
		ref = next
	}
	return "", false
}
