package assets

import "github.com/veldtec/displaymesh/pkg/formats"

// Layout builds provider paths for the consumed asset tree. The hardcoded
// root names a shadow tree carrying override models and blockstates for
// entities whose appearance the standard format cannot express.
type Layout struct {
	hardcodedRoot string
}

// NewLayout creates a layout. An empty hardcodedRoot selects "hardcoded".
func NewLayout(hardcodedRoot string) Layout {
	if hardcodedRoot == "" {
		hardcodedRoot = "hardcoded"
	}
	return Layout{hardcodedRoot: hardcodedRoot}
}

// Model returns the path of a model definition.
func (l Layout) Model(id formats.ID) string {
	return "assets/" + id.Namespace + "/models/" + id.Path + ".json"
}

// HardcodedModel returns the shadow-tree path of a model definition.
func (l Layout) HardcodedModel(id formats.ID) string {
	return l.hardcodedRoot + "/" + id.Namespace + "/models/" + id.Path + ".json"
}

// Blockstate returns the path of a blockstate definition.
func (l Layout) Blockstate(id formats.ID) string {
	return "assets/" + id.Namespace + "/blockstates/" + id.Path + ".json"
}

// HardcodedBlockstate returns the shadow-tree path of a blockstate
// definition.
func (l Layout) HardcodedBlockstate(id formats.ID) string {
	return l.hardcodedRoot + "/" + id.Namespace + "/blockstates/" + id.Path + ".json"
}

// Texture returns the path of a texture image.
func (l Layout) Texture(id formats.ID) string {
	return "assets/" + id.Namespace + "/textures/" + id.Path + ".png"
}

// Item returns the path of an item definition.
func (l Layout) Item(id formats.ID) string {
	return "assets/" + id.Namespace + "/items/" + id.Path + ".json"
}
