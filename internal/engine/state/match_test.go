package state

import (
	"testing"

	"github.com/veldtec/displaymesh/pkg/formats"
)

func variants(entries ...formats.VariantEntry) formats.VariantList {
	return formats.VariantList(entries)
}

func entry(key, model string) formats.VariantEntry {
	return formats.VariantEntry{Key: key, Apply: formats.ApplyList{{Model: model}}}
}

func TestMatchVariantsSpecificity(t *testing.T) {
	vs := variants(
		entry("facing=north", "a"),
		entry("facing=north,half=top", "b"),
	)

	got, ok := MatchVariants(vs, map[string]string{"facing": "north", "half": "top"})
	if !ok || got.Model != "b" {
		t.Errorf("two-clause key must beat one-clause key, got %+v ok=%v", got, ok)
	}

	got, ok = MatchVariants(vs, map[string]string{"facing": "north", "half": "bottom"})
	if !ok || got.Model != "a" {
		t.Errorf("failed clause must drop the key, got %+v ok=%v", got, ok)
	}
}

func TestMatchVariantsSourceOrderTie(t *testing.T) {
	vs := variants(
		entry("axis=y", "first"),
		entry("facing=north", "second"),
	)

	got, ok := MatchVariants(vs, map[string]string{"axis": "y", "facing": "north"})
	if !ok || got.Model != "first" {
		t.Errorf("equal specificity must keep source order, got %+v ok=%v", got, ok)
	}
}

func TestMatchVariantsEmptyKey(t *testing.T) {
	vs := variants(
		entry("", "default"),
		entry("axis=x", "sideways"),
	)

	got, ok := MatchVariants(vs, map[string]string{"axis": "y"})
	if !ok || got.Model != "default" {
		t.Errorf("empty key must catch unmatched properties, got %+v ok=%v", got, ok)
	}

	got, ok = MatchVariants(vs, nil)
	if !ok || got.Model != "default" {
		t.Errorf("empty key must match nil props, got %+v ok=%v", got, ok)
	}

	got, ok = MatchVariants(vs, map[string]string{"axis": "x"})
	if !ok || got.Model != "sideways" {
		t.Errorf("a matching clause must beat the empty key, got %+v ok=%v", got, ok)
	}
}

func TestMatchVariantsNoMatch(t *testing.T) {
	vs := variants(entry("axis=x", "sideways"))

	if _, ok := MatchVariants(vs, map[string]string{"axis": "y"}); ok {
		t.Error("expected no match without an empty-key fallback")
	}
}

func TestMatchVariantsFirstApplyOnly(t *testing.T) {
	vs := variants(formats.VariantEntry{
		Key: "",
		Apply: formats.ApplyList{
			{Model: "picked", X: 90},
			{Model: "ignored"},
		},
	})

	got, ok := MatchVariants(vs, nil)
	if !ok || got.Model != "picked" || got.X != 90 {
		t.Errorf("only the first apply entry may be used, got %+v", got)
	}
}

func TestMatchMultipart(t *testing.T) {
	parts := []formats.MultipartCase{
		{Apply: formats.ApplyList{{Model: "post"}}},
		{
			When:  &formats.Condition{Props: map[string]string{"north": "true"}},
			Apply: formats.ApplyList{{Model: "north-side"}},
		},
		{
			When:  &formats.Condition{Props: map[string]string{"facing": "north|south"}},
			Apply: formats.ApplyList{{Model: "ns-facing"}},
		},
	}

	tests := []struct {
		name  string
		props map[string]string
		want  []string
	}{
		{
			name:  "unconditional only",
			props: map[string]string{},
			want:  []string{"post"},
		},
		{
			name:  "boolean property",
			props: map[string]string{"north": "true"},
			want:  []string{"post", "north-side"},
		},
		{
			name:  "set membership",
			props: map[string]string{"facing": "south"},
			want:  []string{"post", "ns-facing"},
		},
		{
			name:  "everything",
			props: map[string]string{"north": "true", "facing": "north"},
			want:  []string{"post", "north-side", "ns-facing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchMultipart(parts, tt.props)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d applications, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Model != w {
					t.Errorf("application %d = %s, want %s (document order)", i, got[i].Model, w)
				}
			}
		})
	}
}

func TestMatchMultipartUnsetDefaultsFalse(t *testing.T) {
	parts := []formats.MultipartCase{
		{
			When:  &formats.Condition{Props: map[string]string{"waterlogged": "false"}},
			Apply: formats.ApplyList{{Model: "dry"}},
		},
	}

	got := MatchMultipart(parts, map[string]string{})
	if len(got) != 1 || got[0].Model != "dry" {
		t.Errorf("unset property must read as false, got %+v", got)
	}

	got = MatchMultipart(parts, map[string]string{"waterlogged": "true"})
	if len(got) != 0 {
		t.Errorf("explicit true must fail the false test, got %+v", got)
	}
}

func TestMatchMultipartNested(t *testing.T) {
	// OR(facing in {north,south}, AND(open=true, powered=true))
	when := &formats.Condition{
		Or: []formats.Condition{
			{Props: map[string]string{"facing": "north|south"}},
			{And: []formats.Condition{
				{Props: map[string]string{"open": "true"}},
				{Props: map[string]string{"powered": "true"}},
			}},
		},
	}
	parts := []formats.MultipartCase{
		{When: when, Apply: formats.ApplyList{{Model: "gate"}}},
	}

	tests := []struct {
		name  string
		props map[string]string
		want  int
	}{
		{"first OR branch", map[string]string{"facing": "north"}, 1},
		{"AND branch complete", map[string]string{"open": "true", "powered": "true"}, 1},
		{"AND branch partial", map[string]string{"open": "true"}, 0},
		{"nothing", map[string]string{"facing": "east"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchMultipart(parts, tt.props); len(got) != tt.want {
				t.Errorf("got %d applications, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	withVariants := &formats.Blockstate{
		Variants: variants(entry("", "v")),
		Multipart: []formats.MultipartCase{
			{Apply: formats.ApplyList{{Model: "m"}}},
		},
	}

	got := Select(withVariants, nil)
	if len(got) != 1 || got[0].Model != "v" {
		t.Errorf("variants must win over multipart, got %+v", got)
	}

	onlyMultipart := &formats.Blockstate{
		Multipart: []formats.MultipartCase{
			{Apply: formats.ApplyList{{Model: "m"}}},
		},
	}
	got = Select(onlyMultipart, nil)
	if len(got) != 1 || got[0].Model != "m" {
		t.Errorf("multipart path broken, got %+v", got)
	}

	noMatch := &formats.Blockstate{Variants: variants(entry("axis=x", "v"))}
	if got := Select(noMatch, nil); got != nil {
		t.Errorf("expected no applications, got %+v", got)
	}
}
