// Package state matches block instances against blockstate definitions:
// variant clause matching by specificity, multipart condition evaluation,
// and blockstate loading with its hardcoded and banner fallbacks.
package state

import (
	"strings"

	"github.com/veldtec/displaymesh/pkg/formats"
)

// Select runs the matcher appropriate to the blockstate's form and
// returns the model applications for the given properties. Variants win
// when a file carries both forms.
func Select(bs *formats.Blockstate, props map[string]string) []formats.ApplySpec {
	if len(bs.Variants) > 0 {
		if spec, ok := MatchVariants(bs.Variants, props); ok {
			return []formats.ApplySpec{spec}
		}
		return nil
	}
	return MatchMultipart(bs.Multipart, props)
}

// MatchVariants picks one application: every clause of a key must hold,
// the key with the most clauses wins, and ties keep the first key in
// source order. The empty key matches unconditionally, so it doubles as
// the fallback when nothing else matches. Only the first entry of a
// list-valued apply is used.
func MatchVariants(variants formats.VariantList, props map[string]string) (formats.ApplySpec, bool) {
	bestClauses := -1
	var best formats.ApplySpec

	for _, entry := range variants {
		clauses, ok := matchKey(entry.Key, props)
		if !ok || len(entry.Apply) == 0 {
			continue
		}
		if clauses > bestClauses {
			bestClauses = clauses
			best = entry.Apply[0]
		}
	}

	return best, bestClauses >= 0
}

// matchKey tests a comma-separated clause list against the properties and
// returns the clause count for specificity ranking. A property missing
// from the instance fails its clause.
func matchKey(key string, props map[string]string) (int, bool) {
	if key == "" {
		return 0, true
	}

	clauses := strings.Split(key, ",")
	for _, clause := range clauses {
		k, v, ok := strings.Cut(clause, "=")
		if !ok {
			return 0, false
		}
		if props[k] != v {
			return 0, false
		}
	}
	return len(clauses), true
}

// MatchMultipart collects one application per part whose condition holds,
// in part order. A part without a condition always contributes.
func MatchMultipart(parts []formats.MultipartCase, props map[string]string) []formats.ApplySpec {
	var out []formats.ApplySpec
	for _, part := range parts {
		if part.When != nil && !evalCondition(*part.When, props) {
			continue
		}
		if len(part.Apply) == 0 {
			continue
		}
		out = append(out, part.Apply[0])
	}
	return out
}

// evalCondition evaluates a when-expression. An unset instance property
// reads as "false", matching the format's boolean defaults.
func evalCondition(c formats.Condition, props map[string]string) bool {
	if len(c.Or) > 0 {
		for _, sub := range c.Or {
			if evalCondition(sub, props) {
				return true
			}
		}
		return false
	}
	if len(c.And) > 0 {
		for _, sub := range c.And {
			if !evalCondition(sub, props) {
				return false
			}
		}
		return true
	}

	for k, want := range c.Props {
		got := props[k]
		if got == "" {
			got = "false"
		}
		if !valueInSet(got, want) {
			return false
		}
	}
	return true
}

// valueInSet tests got against a "|"-delimited set of acceptable values.
func valueInSet(got, want string) bool {
	for _, v := range strings.Split(want, "|") {
		if got == v {
			return true
		}
	}
	return false
}
