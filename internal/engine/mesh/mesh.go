// Package mesh builds flat geometry buffers from resolved models: per-face
// vertices, normals and UVs, element pivot rotations, UV lock, and the
// deterministic tint table. Output is grouped per (texture, tint) pair.
package mesh

import (
	"go.uber.org/zap"

	"github.com/veldtec/displaymesh/internal/engine/model"
	"github.com/veldtec/displaymesh/internal/logger"
	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

// DefaultMaxIndirection bounds "#ref" texture chains when the caller does
// not supply a limit.
const DefaultMaxIndirection = 10

// BuildOptions carries the placement context of one model application.
type BuildOptions struct {
	// UVLock keeps top and bottom textures world-aligned under the
	// placement yaw.
	UVLock bool

	// Yaw is the placement rotation around Y in degrees. Only consulted
	// for UV-locked faces.
	Yaw float32

	// BannerTint overrides the tint of elements named "flag".
	BannerTint *uint32

	// ItemTints maps face tintindex values to colors, from a structured
	// item definition.
	ItemTints []uint32

	// MaxIndirection bounds texture reference chains. Zero selects
	// DefaultMaxIndirection.
	MaxIndirection int
}

// Buffer accumulates geometry for one (texture, tint) pair.
type Buffer struct {
	Texture string
	Tint    uint32

	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices appended so far.
func (b *Buffer) VertexCount() int {
	return len(b.Positions) / 3
}

// appendQuad adds 4 vertices and 2 triangles with the fixed winding.
func (b *Buffer) appendQuad(corners [4][3]float32, normal [3]float32, uvs [4][2]float32) {
	base := uint32(b.VertexCount())
	for i := 0; i < 4; i++ {
		b.Positions = append(b.Positions, corners[i][0], corners[i][1], corners[i][2])
		b.Normals = append(b.Normals, normal[0], normal[1], normal[2])
		b.UVs = append(b.UVs, uvs[i][0], uvs[i][1])
	}
	b.Indices = append(b.Indices, base, base+1, base+2, base, base+2, base+3)
}

type bufferKey struct {
	texture string
	tint    uint32
}

// Mesh is the geometry of one model. Buffers keep first-use order, which
// downstream packing relies on.
type Mesh struct {
	Buffers []*Buffer

	index map[bufferKey]int
}

// buffer returns the accumulator for a (texture, tint) pair, creating it
// on first use.
func (m *Mesh) buffer(texture string, tint uint32) *Buffer {
	key := bufferKey{texture, tint}
	if i, ok := m.index[key]; ok {
		return m.Buffers[i]
	}

	if m.index == nil {
		m.index = make(map[bufferKey]int)
	}
	b := &Buffer{Texture: texture, Tint: tint}
	m.index[key] = len(m.Buffers)
	m.Buffers = append(m.Buffers, b)
	return b
}

// Append adds one quad to the buffer for a (texture, tint) pair. Corner
// order pairs with UVs by index and follows the face-table winding.
func (m *Mesh) Append(texture string, tint uint32, corners [4][3]float32, normal [3]float32, uvs [4][2]float32) {
	m.buffer(texture, tint).appendQuad(corners, normal, uvs)
}

// Build creates the geometry buffers for a resolved model. Returns nil
// when the model contributes no faces.
func Build(res *model.Resolved, opts BuildOptions) *Mesh {
	if res == nil || len(res.Elements) == 0 {
		return nil
	}

	maxHops := opts.MaxIndirection
	if maxHops <= 0 {
		maxHops = DefaultMaxIndirection
	}

	m := &Mesh{}
	base := res.ID.Base()

	for ei := range res.Elements {
		el := &res.Elements[ei]

		var elemMat, rotOnly math.Mat4
		hasRot := el.Rotation != nil
		if hasRot {
			elemMat, rotOnly = elementMatrices(el.Rotation)
		}

		from := [3]float32{el.From[0] / 16, el.From[1] / 16, el.From[2] / 16}
		to := [3]float32{el.To[0] / 16, el.To[1] / 16, el.To[2] / 16}
		bounds := [2][3]float32{from, to}

		for _, dir := range formats.AllDirections {
			face, ok := el.Face(dir)
			if !ok || face.Texture == "" {
				continue
			}

			texture, ok := res.Texture(face.Texture, maxHops)
			if !ok {
				logger.Debug("unresolved face texture",
					zap.String("model", res.ID.String()),
					zap.String("ref", face.Texture))
				continue
			}
			texture = formats.ParseID(texture).String()

			var corners [4][3]float32
			for i, sel := range faceCorners[dir] {
				corners[i] = [3]float32{
					bounds[sel[0]][0],
					bounds[sel[1]][1],
					bounds[sel[2]][2],
				}
			}
			normal := faceNormals[dir]

			if hasRot {
				for i := range corners {
					corners[i] = elemMat.TransformPoint(corners[i])
				}
				normal = math.Normalize(rotOnly.TransformDirection(normal))
			}

			// The snapped normal decides every UV orientation choice;
			// the exact normal still ships with the vertices.
			effective := snapDirection(normal)

			rect, explicit := faceRect(el, &face, dir, effective, opts)

			su, sv := float32(16), float32(16)
			if explicit && res.TextureSize != nil && (!res.FromHardcoded || signFamily(base)) {
				su, sv = float32(res.TextureSize[0]), float32(res.TextureSize[1])
			}
			uvs := cornerUVs(rect, su, sv)

			steps := rotationSteps(face.Rotation)
			if opts.UVLock && (effective == formats.Up || effective == formats.Down) {
				steps += uvlockSteps(opts.Yaw, effective)
			}
			uvs = rotateUV(uvs, steps)

			adj := uvAdjust[effective]
			uvs = rotateUV(uvs, adj.steps)
			if adj.flipU {
				uvs = flipU(uvs)
			}
			if adj.flipV {
				uvs = flipV(uvs)
			}

			tint := faceTint(el, &face, base, opts)
			m.buffer(texture, tint).appendQuad(corners, normal, uvs)
		}
	}

	if len(m.Buffers) == 0 {
		return nil
	}
	return m
}

// faceTint picks the face color: the caller's banner tint on "flag"
// elements, then declared tint layers, then the model-name table.
func faceTint(el *formats.Element, face *formats.Face, base string, opts BuildOptions) uint32 {
	if opts.BannerTint != nil && el.Name == "flag" {
		return *opts.BannerTint
	}
	if face.TintIndex == nil {
		return White
	}
	if i := *face.TintIndex; i >= 0 && i < len(opts.ItemTints) {
		return opts.ItemTints[i]
	}
	return TintFor(base)
}
