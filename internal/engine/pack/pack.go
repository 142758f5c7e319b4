// Package pack lays resolved geometry out into one shared binary buffer
// plus plain metadata records, the pipeline's output contract. A consumer
// reconstructs typed views purely from the declared offsets, lengths and
// index width; the packer assumes nothing about how records are grouped
// into draws.
package pack

import (
	"encoding/binary"

	"github.com/chewxy/math32"

	"github.com/veldtec/displaymesh/internal/engine/scene"
	"github.com/veldtec/displaymesh/pkg/formats"
	"github.com/veldtec/displaymesh/pkg/math"
)

// NarrowIndexLimit is the largest total vertex count that still packs
// with 2-byte indices.
const NarrowIndexLimit = 65535

// Region locates one typed slice of the shared buffer, in bytes.
type Region struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Record describes one packed geometry buffer. Indices are local to the
// record's own vertex regions.
type Record struct {
	Item       string              `json:"item"`
	Transform  math.Mat4           `json:"localTransform"`
	Texture    string              `json:"texture"`
	Tint       uint32              `json:"tint"`
	Brightness *formats.Brightness `json:"brightness,omitempty"`

	Positions Region `json:"positions"`
	Normals   Region `json:"normals"`
	UVs       Region `json:"uvs"`
	Indices   Region `json:"indices"`
}

// Packed couples the metadata records with the buffer they index into;
// the two always travel together.
type Packed struct {
	Records        []Record
	Buffer         []byte
	UseWideIndices bool
}

// Pack copies every geometry buffer into four back-to-back regions
// {positions, normals, uvs, indices}, little-endian, visiting items in
// order and buffers in their insertion order. Non-geometry items are
// skipped.
func Pack(items []scene.RenderItem) *Packed {
	// Pass 1: totals decide the buffer size and the index width.
	var posFloats, normFloats, uvFloats, indices, vertices int
	for _, it := range items {
		if !it.HasGeometry() {
			continue
		}
		for _, b := range it.Mesh.Buffers {
			posFloats += len(b.Positions)
			normFloats += len(b.Normals)
			uvFloats += len(b.UVs)
			indices += len(b.Indices)
			vertices += b.VertexCount()
		}
	}

	wide := vertices > NarrowIndexLimit
	indexSize := 2
	if wide {
		indexSize = 4
	}

	posOff := 0
	normOff := posFloats * 4
	uvOff := normOff + normFloats*4
	idxOff := uvOff + uvFloats*4

	p := &Packed{
		Buffer:         make([]byte, idxOff+indices*indexSize),
		UseWideIndices: wide,
	}

	// Pass 2: copy each buffer into its slice of every region.
	for _, it := range items {
		if !it.HasGeometry() {
			continue
		}
		for _, b := range it.Mesh.Buffers {
			rec := Record{
				Item:       it.Name,
				Transform:  it.World,
				Texture:    b.Texture,
				Tint:       b.Tint,
				Brightness: it.Brightness,
				Positions:  Region{Offset: posOff, Length: len(b.Positions) * 4},
				Normals:    Region{Offset: normOff, Length: len(b.Normals) * 4},
				UVs:        Region{Offset: uvOff, Length: len(b.UVs) * 4},
				Indices:    Region{Offset: idxOff, Length: len(b.Indices) * indexSize},
			}

			posOff += putFloats(p.Buffer[posOff:], b.Positions)
			normOff += putFloats(p.Buffer[normOff:], b.Normals)
			uvOff += putFloats(p.Buffer[uvOff:], b.UVs)
			idxOff += putIndices(p.Buffer[idxOff:], b.Indices, wide)

			p.Records = append(p.Records, rec)
		}
	}
	return p
}

func putFloats(dst []byte, src []float32) int {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math32.Float32bits(v))
	}
	return len(src) * 4
}

func putIndices(dst []byte, src []uint32, wide bool) int {
	if wide {
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], v)
		}
		return len(src) * 4
	}
	for i, v := range src {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(v))
	}
	return len(src) * 2
}
