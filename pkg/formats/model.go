package formats

import (
	"encoding/json"
	"fmt"
)

// Direction names a cube face.
type Direction uint8

// Cube face directions.
const (
	North Direction = iota
	South
	East
	West
	Up
	Down
)

var directionNames = [...]string{"north", "south", "east", "west", "up", "down"}

// AllDirections lists the six directions in a fixed iteration order.
var AllDirections = [6]Direction{North, South, East, West, Up, Down}

// String returns the lowercase face name.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection maps a face name to its Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if s == name {
			return Direction(i), true
		}
	}
	return 0, false
}

// Model is a single model file before parent-chain merging.
type Model struct {
	Parent        string               `json:"parent"`
	Textures      map[string]string    `json:"textures"`
	Elements      []Element            `json:"elements"`
	Display       map[string]Transform `json:"display"`
	TextureSize   *[2]int              `json:"texture_size"`
	IgnoreDisplay []string             `json:"ignore_display"`
}

// Element is one cuboid of a model, in 0..16 block-pixel space.
type Element struct {
	Name     string           `json:"name"`
	From     [3]float32       `json:"from"`
	To       [3]float32       `json:"to"`
	Rotation *ElementRotation `json:"rotation"`
	Faces    map[string]Face  `json:"faces"`
}

// Face returns the declared face for a direction, if any.
func (e *Element) Face(d Direction) (Face, bool) {
	f, ok := e.Faces[d.String()]
	return f, ok
}

// ElementRotation tilts an element around a pivot on one axis.
type ElementRotation struct {
	Origin  [3]float32 `json:"origin"`
	Axis    string     `json:"axis"`
	Angle   float32    `json:"angle"`
	Rescale bool       `json:"rescale"`
}

// Face describes one textured face of an element.
type Face struct {
	// Texture is either a literal resource path or a "#key" indirection
	// into the model's texture map.
	Texture   string      `json:"texture"`
	UV        *[4]float32 `json:"uv"`
	Rotation  int         `json:"rotation"`
	TintIndex *int        `json:"tintindex"`
}

// Transform is a named display adjustment: rotation in degrees, translation
// in sixteenths of a block, and per-axis scale.
type Transform struct {
	Rotation    [3]float32 `json:"rotation"`
	Translation [3]float32 `json:"translation"`
	Scale       [3]float32 `json:"scale"`
}

// DefaultScale fills a zero-valued scale with 1 on every axis so that an
// omitted scale leaves geometry unchanged.
func (t Transform) DefaultScale() Transform {
	if t.Scale == ([3]float32{}) {
		t.Scale = [3]float32{1, 1, 1}
	}
	return t
}

// ParseModel decodes a model JSON file. Unknown fields are ignored.
func ParseModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	return &m, nil
}
