package model

import (
	"regexp"
	"strings"

	"github.com/veldtec/displaymesh/pkg/formats"
)

// hardcodedPattern matches base names of block families whose true shape
// lives in the hardcoded shadow tree. False positives only cost an extra
// lookup that falls through to the standard source.
var hardcodedPattern = regexp.MustCompile(
	`(^|_)(chest|conduit|shulker|bed|banner|sign|decorated_pot|head|skull|shield|trident|spyglass|statue)(_|$)`)

// IsHardcodedFamily reports whether id belongs to a hardcoded-override
// family.
func IsHardcodedFamily(id formats.ID) bool {
	return hardcodedPattern.MatchString(id.Base())
}

// candidate is one provider path to try during lookup.
type candidate struct {
	path      string
	hardcoded bool
}

// strategy derives lookup candidates for an id. A nil slice means the
// strategy does not apply to this id.
type strategy struct {
	name       string
	candidates func(r *Resolver, id formats.ID) []candidate
}

// modelStrategies is the fallback search, evaluated in order. First
// candidate that loads and parses wins.
var modelStrategies = []strategy{
	{
		name: "hardcoded-first",
		candidates: func(r *Resolver, id formats.ID) []candidate {
			if !IsHardcodedFamily(id) {
				return nil
			}
			return r.hardcodedCandidates(id)
		},
	},
	{
		name: "standard",
		candidates: func(r *Resolver, id formats.ID) []candidate {
			return []candidate{{path: r.layout.Model(id)}}
		},
	},
	{
		name: "item-plural",
		candidates: func(r *Resolver, id formats.ID) []candidate {
			rest, ok := strings.CutPrefix(id.Path, "item/")
			if !ok {
				return nil
			}
			return []candidate{{path: r.layout.Model(id.WithPath("items/" + rest))}}
		},
	},
	{
		name: "hardcoded-fallback",
		candidates: func(r *Resolver, id formats.ID) []candidate {
			if IsHardcodedFamily(id) {
				return nil
			}
			return r.hardcodedCandidates(id)
		},
	},
}

// hardcodedCandidates lists shadow-tree paths for an id: the path as
// given plus block/ and item/ variants of its base name.
func (r *Resolver) hardcodedCandidates(id formats.ID) []candidate {
	base := id.Base()
	variants := []string{id.Path, "block/" + base, "item/" + base}

	seen := make(map[string]bool, len(variants))
	out := make([]candidate, 0, len(variants))
	for _, p := range variants {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, candidate{
			path:      r.layout.HardcodedModel(id.WithPath(p)),
			hardcoded: true,
		})
	}
	return out
}
