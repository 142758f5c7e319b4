// Package sprite synthesizes flat item geometry from a texture: a double
// sided plane, optionally extruded at the opaque-pixel silhouette into
// thin walls so the item reads as a solid cutout.
package sprite

import (
	"github.com/veldtec/displaymesh/internal/engine/mesh"
	"github.com/veldtec/displaymesh/internal/engine/texture"
)

// Depth is the sprite thickness in block units, one pixel of a full block.
const Depth = 1.0 / 16

const halfDepth = Depth / 2

// Planes appends the plain double-sided sprite: a front and a back quad
// over the full texture, centered on the origin.
func Planes(m *mesh.Mesh, path string, tint uint32) {
	frontBack(m, path, tint)
}

// Bordered appends the extruded sprite: the double plane plus one thin
// wall per silhouette edge of the opaque pixel mask. A nil pixel buffer
// degrades to the plain planes.
func Bordered(m *mesh.Mesh, path string, tint uint32, pix *texture.Pixels) {
	frontBack(m, path, tint)
	if pix == nil || pix.Width == 0 || pix.Height == 0 {
		return
	}

	for py := 0; py < pix.Height; py++ {
		for px := 0; px < pix.Width; px++ {
			edges := pix.Boundary(px, py)
			if edges.Any() {
				appendWalls(m, path, tint, pix, px, py, edges)
			}
		}
	}
}

// frontBack appends the two full-texture quads. The sprite is built
// pre-mirrored, u grows toward -X and v toward -Y, so the front face
// winds counter-clockwise toward +Z.
func frontBack(m *mesh.Mesh, path string, tint uint32) {
	m.Append(path, tint,
		[4][3]float32{
			{-0.5, 0.5, halfDepth},
			{-0.5, -0.5, halfDepth},
			{0.5, -0.5, halfDepth},
			{0.5, 0.5, halfDepth},
		},
		[3]float32{0, 0, 1},
		[4][2]float32{{1, 0}, {1, 1}, {0, 1}, {0, 0}},
	)
	m.Append(path, tint,
		[4][3]float32{
			{0.5, 0.5, -halfDepth},
			{0.5, -0.5, -halfDepth},
			{-0.5, -0.5, -halfDepth},
			{-0.5, 0.5, -halfDepth},
		},
		[3]float32{0, 0, -1},
		[4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	)
}

// appendWalls emits one thin quad per exposed side of an opaque pixel,
// each sampling that pixel's own texel.
func appendWalls(m *mesh.Mesh, path string, tint uint32, pix *texture.Pixels, px, py int, edges texture.Edges) {
	w := float32(pix.Width)
	h := float32(pix.Height)

	// Pixel bounds in sprite space. Texture row 0 sits at the top and u
	// runs opposite X, so the texture-left edge has the larger x.
	xa := 0.5 - float32(px)/w
	xb := 0.5 - float32(px+1)/w
	ya := 0.5 - float32(py)/h
	yb := 0.5 - float32(py+1)/h

	u0, v0 := float32(px)/w, float32(py)/h
	u1, v1 := float32(px+1)/w, float32(py+1)/h
	uvs := [4][2]float32{{u0, v0}, {u0, v1}, {u1, v1}, {u1, v0}}

	const d = halfDepth

	if edges.Left {
		m.Append(path, tint,
			[4][3]float32{{xa, ya, d}, {xa, yb, d}, {xa, yb, -d}, {xa, ya, -d}},
			[3]float32{1, 0, 0}, uvs)
	}
	if edges.Right {
		m.Append(path, tint,
			[4][3]float32{{xb, ya, -d}, {xb, yb, -d}, {xb, yb, d}, {xb, ya, d}},
			[3]float32{-1, 0, 0}, uvs)
	}
	if edges.Up {
		m.Append(path, tint,
			[4][3]float32{{xb, ya, -d}, {xb, ya, d}, {xa, ya, d}, {xa, ya, -d}},
			[3]float32{0, 1, 0}, uvs)
	}
	if edges.Down {
		m.Append(path, tint,
			[4][3]float32{{xa, yb, -d}, {xa, yb, d}, {xb, yb, d}, {xb, yb, -d}},
			[3]float32{0, -1, 0}, uvs)
	}
}
