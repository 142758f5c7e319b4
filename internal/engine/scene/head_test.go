package scene

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/veldtec/displaymesh/pkg/formats"
)

func identityBlob(t *testing.T, url string) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf(`{"textures":{"SKIN":{"url":"%s"}}}`, url)))
}

func TestIsPlayerHead(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"minecraft:player_head", true},
		{"player_head", true},
		{"minecraft:player_head[display=head]", true},
		{"minecraft:zombie_head", false},
		{"minecraft:stone", false},
	}
	for _, tt := range tests {
		if got := isPlayerHead(tt.name); got != tt.want {
			t.Errorf("isPlayerHead(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSkinFromNBT(t *testing.T) {
	blob := identityBlob(t, "http://example.com/skin.png")

	wrapped, err := json.Marshal(fmt.Sprintf(
		`{SkullOwner:{Properties:{textures:[{Value:"%s"}]}}}`, blob))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"json object",
			fmt.Sprintf(`{"SkullOwner":{"Properties":{"textures":[{"Value":"%s"}]}}}`, blob),
			"http://example.com/skin.png",
		},
		{"string wrapped tag syntax", string(wrapped), "http://example.com/skin.png"},
		{
			"unquoted value",
			fmt.Sprintf(`{SkullOwner:{Properties:{textures:[{Value:%s}]}}}`, blob),
			"http://example.com/skin.png",
		},
		{"no texture property", `{"Damage":0}`, ""},
		{"value too short", `{"Value":"abc"}`, ""},
		{"value not base64", `{"Value":"` + strings.Repeat("A", 41) + `"}`, ""},
		{
			"blob without skin url",
			`{"Value":"` + base64.StdEncoding.EncodeToString([]byte(`{"textures":{"SKIN":{"cape":"none"}}}`)) + `"}`,
			"",
		},
		{"empty", "", ""},
		{"null", "null", ""},
	}
	for _, tt := range tests {
		if got := skinFromNBT(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("%s: skin = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSkinFromNBTStrippedPadding(t *testing.T) {
	blob := strings.TrimRight(identityBlob(t, "http://example.com/p.png"), "=")
	raw := fmt.Sprintf(`{"Value":"%s"}`, blob)

	if got := skinFromNBT(json.RawMessage(raw)); got != "http://example.com/p.png" {
		t.Errorf("skin = %q, want the padded-stripped url", got)
	}
}

func TestHeadSkinPriority(t *testing.T) {
	valid, err := json.Marshal(fmt.Sprintf(
		`{SkullOwner:{Properties:{textures:[{Value:"%s"}]}}}`,
		identityBlob(t, "http://example.com/nbt.png")))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		node formats.SceneNode
		want string
	}{
		{
			"identity blob wins",
			formats.SceneNode{
				NBT:          valid,
				TagHead:      &formats.HeadTag{Texture: "http://example.com/tag.png"},
				PaintTexture: "entity/steve",
			},
			"http://example.com/nbt.png",
		},
		{
			"tag head texture",
			formats.SceneNode{
				NBT:          json.RawMessage(`{"Damage":0}`),
				TagHead:      &formats.HeadTag{Texture: "http://example.com/tag.png"},
				PaintTexture: "entity/steve",
			},
			"http://example.com/tag.png",
		},
		{
			"paint texture",
			formats.SceneNode{PaintTexture: "entity/steve"},
			"entity/steve",
		},
		{
			"stock default",
			formats.SceneNode{},
			DefaultSkinURL,
		},
	}
	for _, tt := range tests {
		if got := headSkin(&tt.node); got != tt.want {
			t.Errorf("%s: skin = %q, want %q", tt.name, got, tt.want)
		}
	}
}
