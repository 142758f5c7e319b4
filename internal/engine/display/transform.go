package display

import (
	"context"
	"strings"

	"github.com/veldtec/displaymesh/internal/engine/model"
	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

// flatDefaults matches the stock layered-item display set used when no
// model in the chain declares the type.
var flatDefaults = map[string]formats.Transform{
	"none":   {Scale: [3]float32{1, 1, 1}},
	"gui":    {Rotation: [3]float32{0, 180, 0}, Scale: [3]float32{1, 1, 1}},
	"fixed":  {Rotation: [3]float32{0, 180, 0}, Scale: [3]float32{1, 1, 1}},
	"ground": {Translation: [3]float32{0, 2, 0}, Scale: [3]float32{0.5, 0.5, 0.5}},
	"head":   {Rotation: [3]float32{0, 180, 0}, Translation: [3]float32{0, 13, 7}, Scale: [3]float32{1, 1, 1}},
	"thirdperson_righthand": {
		Translation: [3]float32{0, 3, 1},
		Scale:       [3]float32{0.55, 0.55, 0.55},
	},
	"firstperson_righthand": {
		Rotation:    [3]float32{0, -90, 25},
		Translation: [3]float32{1.13, 3.2, 1.13},
		Scale:       [3]float32{0.68, 0.68, 0.68},
	},
}

// cubeDefaults matches the stock block-model display set.
var cubeDefaults = map[string]formats.Transform{
	"none":   {Scale: [3]float32{1, 1, 1}},
	"gui":    {Rotation: [3]float32{30, 225, 0}, Scale: [3]float32{0.625, 0.625, 0.625}},
	"ground": {Translation: [3]float32{0, 3, 0}, Scale: [3]float32{0.25, 0.25, 0.25}},
	"fixed":  {Scale: [3]float32{0.5, 0.5, 0.5}},
	"thirdperson_righthand": {
		Rotation:    [3]float32{75, 45, 0},
		Translation: [3]float32{0, 2.5, 0},
		Scale:       [3]float32{0.375, 0.375, 0.375},
	},
	"firstperson_righthand": {
		Rotation: [3]float32{0, 45, 0},
		Scale:    [3]float32{0.4, 0.4, 0.4},
	},
	"firstperson_lefthand": {
		Rotation: [3]float32{0, 225, 0},
		Scale:    [3]float32{0.4, 0.4, 0.4},
	},
}

// displayTransform picks the transform for a display type: an explicit
// declaration on the model or an ancestor, then the built-in defaults,
// then the mirrored right-hand entry for left-hand types.
func (p *Processor) displayTransform(ctx context.Context, res *model.Resolved, displayType string, flat bool) formats.Transform {
	if tr, ok := p.findDeclared(ctx, res, displayType); ok {
		return tr
	}
	if tr, ok := defaultTransform(displayType, flat); ok {
		return tr
	}
	if right, ok := leftToRight(displayType); ok {
		if tr, ok := p.findDeclared(ctx, res, right); ok {
			return mirrorTransform(tr)
		}
		if tr, ok := defaultTransform(right, flat); ok {
			return mirrorTransform(tr)
		}
	}
	return formats.Transform{}.DefaultScale()
}

// findDeclared searches the model itself and then its ancestors, innermost
// first, for an explicit display declaration. Ids in the model's ignore
// set never supply one.
func (p *Processor) findDeclared(ctx context.Context, res *model.Resolved, displayType string) (formats.Transform, bool) {
	ids := make([]formats.ID, 0, len(res.ParentChain)+1)
	ids = append(ids, res.ID)
	for i := len(res.ParentChain) - 1; i >= 0; i-- {
		ids = append(ids, res.ParentChain[i])
	}

	for _, id := range ids {
		if res.IgnoreDisplay[id] {
			continue
		}
		r := p.resolver.Resolve(ctx, id)
		if r == nil {
			continue
		}
		if tr, ok := r.Display[displayType]; ok {
			return tr.DefaultScale(), true
		}
	}
	return formats.Transform{}, false
}

func defaultTransform(displayType string, flat bool) (formats.Transform, bool) {
	table := cubeDefaults
	if flat {
		table = flatDefaults
	}
	tr, ok := table[displayType]
	if !ok {
		return formats.Transform{}, false
	}
	return tr.DefaultScale(), true
}

// leftToRight maps a left-hand display type to its right-hand sibling.
func leftToRight(displayType string) (string, bool) {
	if !strings.Contains(displayType, "lefthand") {
		return "", false
	}
	return strings.ReplaceAll(displayType, "lefthand", "righthand"), true
}

// mirrorTransform converts a right-hand transform into its left-hand
// counterpart: X translation and Y/Z rotation change sign.
func mirrorTransform(t formats.Transform) formats.Transform {
	t.Translation[0] = -t.Translation[0]
	t.Rotation[1] = -t.Rotation[1]
	t.Rotation[2] = -t.Rotation[2]
	return t
}

// transformMatrix composes a display transform as
// translate * rotX * rotY * rotZ * scale, translation in sixteenths.
func transformMatrix(t formats.Transform) math.Mat4 {
	t = t.DefaultScale()

	m := math.Translate(t.Translation[0]/16, t.Translation[1]/16, t.Translation[2]/16)
	if t.Rotation[0] != 0 {
		m = m.Mul(math.RotateX(math.Radians(t.Rotation[0])))
	}
	if t.Rotation[1] != 0 {
		m = m.Mul(math.RotateY(math.Radians(t.Rotation[1])))
	}
	if t.Rotation[2] != 0 {
		m = m.Mul(math.RotateZ(math.Radians(t.Rotation[2])))
	}
	if t.Scale != ([3]float32{1, 1, 1}) {
		m = m.Mul(math.Scale(t.Scale[0], t.Scale[1], t.Scale[2]))
	}
	return m
}

// placementMatrix rotates a block placement about the cube center. Yaw
// and pitch are sign-inverted to match the placement convention.
func placementMatrix(apply formats.ApplySpec) math.Mat4 {
	if apply.X == 0 && apply.Y == 0 {
		return math.Identity()
	}

	m := math.Translate(0.5, 0.5, 0.5)
	if apply.Y != 0 {
		m = m.Mul(math.RotateY(math.Radians(-apply.Y)))
	}
	if apply.X != 0 {
		m = m.Mul(math.RotateX(math.Radians(-apply.X)))
	}
	return m.Mul(math.Translate(-0.5, -0.5, -0.5))
}
