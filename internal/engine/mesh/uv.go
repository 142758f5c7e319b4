package mesh

import (
	"github.com/chewxy/math32"

	"github.com/veldtec/displaymesh/pkg/formats"
)

// cornerUVs assigns a pixel rectangle to the quad corners in table order
// and normalizes by the texture extent.
func cornerUVs(rect [4]float32, su, sv float32) [4][2]float32 {
	u1, v1 := rect[0]/su, rect[1]/sv
	u2, v2 := rect[2]/su, rect[3]/sv
	return [4][2]float32{{u1, v1}, {u1, v2}, {u2, v2}, {u2, v1}}
}

// rotationSteps converts a face rotation in degrees to quarter turns.
func rotationSteps(deg int) int {
	return ((deg / 90 % 4) + 4) % 4
}

// uvlockSteps counters the placement yaw for locked top and bottom faces.
// The bottom face sees the yaw mirrored.
func uvlockSteps(yaw float32, effective formats.Direction) int {
	steps := int(math32.Round(yaw / 90))
	if effective == formats.Down {
		steps = -steps
	}
	return steps
}

// rotateUV advances each corner by the given quarter turns. Negative
// steps rotate the other way.
func rotateUV(uvs [4][2]float32, steps int) [4][2]float32 {
	steps = ((steps % 4) + 4) % 4
	if steps == 0 {
		return uvs
	}
	var out [4][2]float32
	for i := range out {
		out[i] = uvs[(i+steps)%4]
	}
	return out
}

// flipU mirrors the quad horizontally in texture space.
func flipU(uvs [4][2]float32) [4][2]float32 {
	uvs[0], uvs[3] = uvs[3], uvs[0]
	uvs[1], uvs[2] = uvs[2], uvs[1]
	return uvs
}

// flipV mirrors the quad vertically in texture space.
func flipV(uvs [4][2]float32) [4][2]float32 {
	uvs[0], uvs[1] = uvs[1], uvs[0]
	uvs[2], uvs[3] = uvs[3], uvs[2]
	return uvs
}

// uvAdjustment reconciles the corner table's native orientation with the
// texture's expected orientation for one effective direction.
type uvAdjustment struct {
	steps int
	flipU bool
	flipV bool
}

// uvAdjust is indexed by effective direction. Only the bottom face needs
// a correction with the current corner tables.
var uvAdjust = [6]uvAdjustment{
	formats.Down: {flipU: true},
}
