package assets

import (
	"testing"

	"github.com/veldtec/displaymesh/pkg/formats"
)

func TestLayout(t *testing.T) {
	l := NewLayout("")
	id := formats.ID{Namespace: "minecraft", Path: "block/stone"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"model", l.Model(id), "assets/minecraft/models/block/stone.json"},
		{"hardcoded model", l.HardcodedModel(id), "hardcoded/minecraft/models/block/stone.json"},
		{"blockstate", l.Blockstate(id), "assets/minecraft/blockstates/block/stone.json"},
		{"hardcoded blockstate", l.HardcodedBlockstate(id), "hardcoded/minecraft/blockstates/block/stone.json"},
		{"texture", l.Texture(id), "assets/minecraft/textures/block/stone.png"},
		{"item", l.Item(formats.ID{Namespace: "minecraft", Path: "stick"}), "assets/minecraft/items/stick.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestLayoutCustomRoot(t *testing.T) {
	l := NewLayout("shadow")
	id := formats.ID{Namespace: "minecraft", Path: "block/chest"}

	if got := l.HardcodedModel(id); got != "shadow/minecraft/models/block/chest.json" {
		t.Errorf("unexpected hardcoded model path: %s", got)
	}
	if got := l.Model(id); got != "assets/minecraft/models/block/chest.json" {
		t.Errorf("standard path must not use the shadow root: %s", got)
	}
}
