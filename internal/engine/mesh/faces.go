package mesh

import (
	"strings"

	"github.com/chewxy/math32"

	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

// faceCorners selects the 4 corners of each face from the element bounds.
// Each triple indexes from (0) or to (1) per axis. Corner order pairs with
// the UV assignment in cornerUVs and the winding in appendQuad.
var faceCorners = [6][4][3]int{
	formats.North: {{1, 1, 0}, {1, 0, 0}, {0, 0, 0}, {0, 1, 0}},
	formats.South: {{0, 1, 1}, {0, 0, 1}, {1, 0, 1}, {1, 1, 1}},
	formats.East:  {{1, 1, 1}, {1, 0, 1}, {1, 0, 0}, {1, 1, 0}},
	formats.West:  {{0, 1, 0}, {0, 0, 0}, {0, 0, 1}, {0, 1, 1}},
	formats.Up:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	formats.Down:  {{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {1, 0, 1}},
}

// faceNormals is the outward unit normal per declared direction.
var faceNormals = [6][3]float32{
	formats.North: {0, 0, -1},
	formats.South: {0, 0, 1},
	formats.East:  {1, 0, 0},
	formats.West:  {-1, 0, 0},
	formats.Up:    {0, 1, 0},
	formats.Down:  {0, -1, 0},
}

// snapDirection maps a normal to the nearest cardinal direction. Ties
// resolve X over Y over Z.
func snapDirection(n [3]float32) formats.Direction {
	ax, ay, az := math32.Abs(n[0]), math32.Abs(n[1]), math32.Abs(n[2])

	switch {
	case ax >= ay && ax >= az:
		if n[0] >= 0 {
			return formats.East
		}
		return formats.West
	case ay >= az:
		if n[1] >= 0 {
			return formats.Up
		}
		return formats.Down
	default:
		if n[2] >= 0 {
			return formats.South
		}
		return formats.North
	}
}

// elementMatrices builds the pivot-centered transform for an element
// rotation and the bare rotation used for normals.
func elementMatrices(rot *formats.ElementRotation) (math.Mat4, math.Mat4) {
	angle := math.Radians(rot.Angle)

	var r math.Mat4
	scale := [3]float32{1, 1, 1}
	switch rot.Axis {
	case "x":
		r = math.RotateX(angle)
		if rot.Rescale {
			s := 1 / math32.Cos(angle)
			scale = [3]float32{1, s, s}
		}
	case "y":
		r = math.RotateY(angle)
		if rot.Rescale {
			s := 1 / math32.Cos(angle)
			scale = [3]float32{s, 1, s}
		}
	case "z":
		r = math.RotateZ(angle)
		if rot.Rescale {
			s := 1 / math32.Cos(angle)
			scale = [3]float32{s, s, 1}
		}
	default:
		return math.Identity(), math.Identity()
	}

	px, py, pz := rot.Origin[0]/16, rot.Origin[1]/16, rot.Origin[2]/16
	m := math.Translate(px, py, pz)
	if scale != ([3]float32{1, 1, 1}) {
		m = m.Mul(math.Scale(scale[0], scale[1], scale[2]))
	}
	m = m.Mul(r).Mul(math.Translate(-px, -py, -pz))

	return m, r
}

// defaultUV derives the implicit UV rectangle of a face from the element
// bounds, per declared direction.
func defaultUV(d formats.Direction, from, to [3]float32) [4]float32 {
	switch d {
	case formats.North:
		return [4]float32{16 - to[0], 16 - to[1], 16 - from[0], 16 - from[1]}
	case formats.South:
		return [4]float32{from[0], 16 - to[1], to[0], 16 - from[1]}
	case formats.West:
		return [4]float32{from[2], 16 - to[1], to[2], 16 - from[1]}
	case formats.East:
		return [4]float32{16 - to[2], 16 - to[1], 16 - from[2], 16 - from[1]}
	case formats.Up:
		return [4]float32{from[0], from[2], to[0], to[2]}
	default:
		return [4]float32{from[0], 16 - to[2], to[0], 16 - from[2]}
	}
}

// faceRect computes the face's UV rectangle in texture-pixel units and
// reports whether it was explicitly declared.
func faceRect(el *formats.Element, face *formats.Face, declared, effective formats.Direction, opts BuildOptions) ([4]float32, bool) {
	if face.UV != nil {
		return *face.UV, true
	}

	rect := defaultUV(declared, el.From, el.To)

	// Re-fit implicit top and bottom rectangles to the element footprint,
	// rounded to even pixel extents, so thin elements sample a stable
	// window even when a rotation swaps the axes.
	if effective == formats.Up || effective == formats.Down {
		w := evenClamp(el.To[0] - el.From[0])
		h := evenClamp(el.To[2] - el.From[2])

		steps := rotationSteps(face.Rotation)
		if opts.UVLock {
			steps += uvlockSteps(opts.Yaw, effective)
		}
		if steps%2 != 0 {
			w, h = h, w
		}

		u0, v0 := rect[0], rect[1]
		if u0+w > 16 {
			u0 = 16 - w
		}
		if v0+h > 16 {
			v0 = 16 - h
		}
		rect = [4]float32{u0, v0, u0 + w, v0 + h}
	}

	return rect, false
}

// evenClamp rounds a pixel extent to the nearest even number in 0..16.
func evenClamp(v float32) float32 {
	e := 2 * math32.Round(v/2)
	if e < 0 {
		return 0
	}
	if e > 16 {
		return 16
	}
	return e
}

// signFamily reports whether a hardcoded model keeps its declared
// texture_size for UV normalization.
func signFamily(base string) bool {
	return strings.Contains(base, "sign")
}
