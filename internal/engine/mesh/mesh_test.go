package mesh

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/veldtec/displaymesh/internal/engine/model"
	"github.com/veldtec/displaymesh/pkg/formats"
)

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func approxVec(a, b [3]float32) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

func intp(v int) *int { return &v }

func fullCube(tex string) *model.Resolved {
	faces := make(map[string]formats.Face, 6)
	for _, d := range formats.AllDirections {
		faces[d.String()] = formats.Face{Texture: "#all"}
	}
	return &model.Resolved{
		ID:       formats.ParseID("minecraft:block/stone"),
		Textures: map[string]string{"all": tex},
		Elements: []formats.Element{{
			From:  [3]float32{0, 0, 0},
			To:    [3]float32{16, 16, 16},
			Faces: faces,
		}},
	}
}

func TestBuildFullCube(t *testing.T) {
	m := Build(fullCube("block/stone"), BuildOptions{})
	if m == nil {
		t.Fatal("expected a mesh")
	}
	if len(m.Buffers) != 1 {
		t.Fatalf("buffers = %d, want 1", len(m.Buffers))
	}

	b := m.Buffers[0]
	if b.Texture != "minecraft:block/stone" {
		t.Errorf("texture = %q, want canonical form", b.Texture)
	}
	if b.Tint != White {
		t.Errorf("tint = %#x, want white", b.Tint)
	}
	if got := b.VertexCount(); got != 24 {
		t.Errorf("vertices = %d, want 24", got)
	}
	if len(b.Positions) != 72 || len(b.Normals) != 72 {
		t.Errorf("positions/normals = %d/%d floats, want 72/72", len(b.Positions), len(b.Normals))
	}
	if len(b.UVs) != 48 {
		t.Errorf("uvs = %d floats, want 48", len(b.UVs))
	}
	if len(b.Indices) != 36 {
		t.Fatalf("indices = %d, want 36", len(b.Indices))
	}
	for _, idx := range b.Indices {
		if idx >= 24 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildNilAndEmpty(t *testing.T) {
	if Build(nil, BuildOptions{}) != nil {
		t.Error("nil model should produce no mesh")
	}
	res := &model.Resolved{ID: formats.ParseID("oak_fence")}
	if Build(res, BuildOptions{}) != nil {
		t.Error("element-free model should produce no mesh")
	}
}

func TestBuildBufferOrder(t *testing.T) {
	res := &model.Resolved{
		ID: formats.ParseID("minecraft:block/grass_block"),
		Textures: map[string]string{
			"side": "block/grass_side",
			"top":  "block/grass_top",
		},
		Elements: []formats.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Faces: map[string]formats.Face{
				"north": {Texture: "#side"},
				"south": {Texture: "#side"},
				"up":    {Texture: "#top"},
			},
		}},
	}

	m := Build(res, BuildOptions{})
	if m == nil || len(m.Buffers) != 2 {
		t.Fatalf("expected 2 buffers, got %v", m)
	}
	if m.Buffers[0].Texture != "minecraft:block/grass_side" {
		t.Errorf("first buffer = %q, want the first-used texture", m.Buffers[0].Texture)
	}
	if m.Buffers[1].Texture != "minecraft:block/grass_top" {
		t.Errorf("second buffer = %q", m.Buffers[1].Texture)
	}
	if m.Buffers[0].VertexCount() != 8 || m.Buffers[1].VertexCount() != 4 {
		t.Errorf("vertex split = %d/%d, want 8/4",
			m.Buffers[0].VertexCount(), m.Buffers[1].VertexCount())
	}
}

func TestBuildSkipsUnresolvedTexture(t *testing.T) {
	res := &model.Resolved{
		ID:       formats.ParseID("block/broken"),
		Textures: map[string]string{"ok": "block/stone"},
		Elements: []formats.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Faces: map[string]formats.Face{
				"north": {Texture: "#missing"},
				"south": {Texture: "#ok"},
			},
		}},
	}

	m := Build(res, BuildOptions{})
	if m == nil || len(m.Buffers) != 1 {
		t.Fatalf("expected the resolvable face only, got %v", m)
	}
	if m.Buffers[0].VertexCount() != 4 {
		t.Errorf("vertices = %d, want 4", m.Buffers[0].VertexCount())
	}

	res.Elements[0].Faces = map[string]formats.Face{"north": {Texture: "#missing"}}
	if Build(res, BuildOptions{}) != nil {
		t.Error("all faces unresolved should produce no mesh")
	}
}

func TestBuildElementRotation(t *testing.T) {
	res := &model.Resolved{
		ID:       formats.ParseID("block/turned"),
		Textures: map[string]string{"all": "block/stone"},
		Elements: []formats.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Rotation: &formats.ElementRotation{
				Origin: [3]float32{8, 8, 8},
				Axis:   "y",
				Angle:  90,
			},
			Faces: map[string]formats.Face{"north": {Texture: "#all"}},
		}},
	}

	m := Build(res, BuildOptions{})
	if m == nil || len(m.Buffers) != 1 {
		t.Fatal("expected one buffer")
	}
	b := m.Buffers[0]

	corner := [3]float32{b.Positions[0], b.Positions[1], b.Positions[2]}
	if !approxVec(corner, [3]float32{0, 1, 0}) {
		t.Errorf("rotated corner = %v, want (0,1,0)", corner)
	}
	normal := [3]float32{b.Normals[0], b.Normals[1], b.Normals[2]}
	if !approxVec(normal, [3]float32{-1, 0, 0}) {
		t.Errorf("rotated normal = %v, want -X", normal)
	}
}

func TestBuildRescale(t *testing.T) {
	res := &model.Resolved{
		ID:       formats.ParseID("block/crop_cross"),
		Textures: map[string]string{"all": "block/wheat"},
		Elements: []formats.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Rotation: &formats.ElementRotation{
				Origin:  [3]float32{8, 8, 8},
				Axis:    "y",
				Angle:   45,
				Rescale: true,
			},
			Faces: map[string]formats.Face{"north": {Texture: "#all"}},
		}},
	}

	m := Build(res, BuildOptions{})
	if m == nil {
		t.Fatal("expected a mesh")
	}
	b := m.Buffers[0]

	// Rescale stretches the rotated plane back to full footprint, so the
	// first corner lands outside the unit cube.
	corner := [3]float32{b.Positions[0], b.Positions[1], b.Positions[2]}
	if !approxVec(corner, [3]float32{0.5, 1, -0.5}) {
		t.Errorf("rescaled corner = %v, want (0.5,1,-0.5)", corner)
	}

	normal := [3]float32{b.Normals[0], b.Normals[1], b.Normals[2]}
	if !approxVec(normal, [3]float32{-0.70710678, 0, -0.70710678}) {
		t.Errorf("normal = %v, want unit diagonal", normal)
	}
}

func TestBuildUVLock(t *testing.T) {
	uv := [4]float32{0, 0, 8, 16}
	res := &model.Resolved{
		ID:       formats.ParseID("block/locked"),
		Textures: map[string]string{"top": "block/oak_log_top"},
		Elements: []formats.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Faces: map[string]formats.Face{
				"up": {Texture: "#top", UV: &uv},
			},
		}},
	}

	m := Build(res, BuildOptions{UVLock: true, Yaw: 90})
	if m == nil {
		t.Fatal("expected a mesh")
	}

	want := []float32{0, 1, 0.5, 1, 0.5, 0, 0, 0}
	got := m.Buffers[0].UVs
	if len(got) != len(want) {
		t.Fatalf("uv floats = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Fatalf("uvs = %v, want %v", got, want)
		}
	}
}

func TestBuildDownFlip(t *testing.T) {
	uv := [4]float32{0, 0, 16, 16}
	res := &model.Resolved{
		ID:       formats.ParseID("block/flipped"),
		Textures: map[string]string{"bottom": "block/stone"},
		Elements: []formats.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 16, 16},
			Faces: map[string]formats.Face{
				"down": {Texture: "#bottom", UV: &uv},
			},
		}},
	}

	m := Build(res, BuildOptions{})
	if m == nil {
		t.Fatal("expected a mesh")
	}

	want := []float32{1, 0, 1, 1, 0, 1, 0, 0}
	got := m.Buffers[0].UVs
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Fatalf("uvs = %v, want mirrored %v", got, want)
		}
	}
}

func TestBuildTextureSizeNormalization(t *testing.T) {
	uv := [4]float32{0, 0, 32, 32}
	build := func(size *[2]int, hardcoded bool, id string) *Mesh {
		return Build(&model.Resolved{
			ID:            formats.ParseID(id),
			Textures:      map[string]string{"all": "entity/thing"},
			TextureSize:   size,
			FromHardcoded: hardcoded,
			Elements: []formats.Element{{
				From: [3]float32{0, 0, 0},
				To:   [3]float32{16, 16, 16},
				Faces: map[string]formats.Face{
					"north": {Texture: "#all", UV: &uv},
				},
			}},
		}, BuildOptions{})
	}

	maxUV := func(m *Mesh) float32 {
		var max float32
		for _, v := range m.Buffers[0].UVs {
			if v > max {
				max = v
			}
		}
		return max
	}

	if got := maxUV(build(&[2]int{32, 32}, false, "block/big")); !approx(got, 1) {
		t.Errorf("declared atlas: max uv = %v, want 1", got)
	}
	if got := maxUV(build(nil, false, "block/big")); !approx(got, 2) {
		t.Errorf("no atlas: max uv = %v, want 2", got)
	}
	if got := maxUV(build(&[2]int{32, 32}, true, "block/chest")); !approx(got, 2) {
		t.Errorf("shadow-tree model should ignore texture_size, max uv = %v", got)
	}
	if got := maxUV(build(&[2]int{32, 32}, true, "block/oak_sign")); !approx(got, 1) {
		t.Errorf("sign keeps texture_size even from the shadow tree, max uv = %v", got)
	}
}

func TestBuildTints(t *testing.T) {
	banner := uint32(0xB02E26)

	tests := []struct {
		name string
		id   string
		elem formats.Element
		opts BuildOptions
		want uint32
	}{
		{
			name: "flag element takes banner tint",
			id:   "block/banner",
			elem: formats.Element{
				Name: "flag",
				From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16},
				Faces: map[string]formats.Face{"north": {Texture: "#all"}},
			},
			opts: BuildOptions{BannerTint: &banner},
			want: banner,
		},
		{
			name: "banner tint needs the flag name",
			id:   "block/banner",
			elem: formats.Element{
				Name: "pole",
				From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16},
				Faces: map[string]formats.Face{"north": {Texture: "#all"}},
			},
			opts: BuildOptions{BannerTint: &banner},
			want: White,
		},
		{
			name: "tintindex with item layer",
			id:   "item/potion",
			elem: formats.Element{
				From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16},
				Faces: map[string]formats.Face{"north": {Texture: "#all", TintIndex: intp(0)}},
			},
			opts: BuildOptions{ItemTints: []uint32{0x385DC6}},
			want: 0x385DC6,
		},
		{
			name: "tintindex out of layers falls back to the name table",
			id:   "block/oak_leaves",
			elem: formats.Element{
				From: [3]float32{0, 0, 0}, To: [3]float32{16, 16, 16},
				Faces: map[string]formats.Face{"north": {Texture: "#all", TintIndex: intp(2)}},
			},
			want: 0x48B518,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &model.Resolved{
				ID:       formats.ParseID(tt.id),
				Textures: map[string]string{"all": "block/x"},
				Elements: []formats.Element{tt.elem},
			}
			m := Build(res, tt.opts)
			if m == nil {
				t.Fatal("expected a mesh")
			}
			if got := m.Buffers[0].Tint; got != tt.want {
				t.Errorf("tint = %#06x, want %#06x", got, tt.want)
			}
		})
	}
}
