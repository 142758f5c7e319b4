// Package texture provides image decoding and alpha-silhouette analysis.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Pixels is a decoded texture normalized to a zero-origin RGBA grid.
type Pixels struct {
	Width  int
	Height int
	rgba   *image.RGBA
}

// Decode decodes a PNG texture.
func Decode(data []byte) (*Pixels, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding texture: %w", err)
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	return &Pixels{Width: b.Dx(), Height: b.Dy(), rgba: rgba}, nil
}

// toRGBA converts any image.Image to a zero-origin *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.At(x, y)
			r16, g16, b16, a16 := c.RGBA()
			rgba.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: uint8(r16 >> 8),
				G: uint8(g16 >> 8),
				B: uint8(b16 >> 8),
				A: uint8(a16 >> 8),
			})
		}
	}

	return rgba
}

// Alpha returns the alpha value at (x, y), 0 outside the image.
func (p *Pixels) Alpha(x, y int) uint8 {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return 0
	}
	return p.rgba.Pix[p.rgba.PixOffset(x, y)+3]
}

// Opaque reports whether the pixel at (x, y) belongs to the silhouette.
// Coordinates outside the image are transparent.
func (p *Pixels) Opaque(x, y int) bool {
	return p.Alpha(x, y) != 0
}

// Edges reports which sides of an opaque pixel border transparency, in
// image coordinates (Up = toward row 0).
type Edges struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
}

// Any reports whether at least one side borders transparency.
func (e Edges) Any() bool {
	return e.Left || e.Right || e.Up || e.Down
}

// Boundary classifies the pixel at (x, y) against its 4-neighborhood.
// Transparent pixels yield the zero Edges.
func (p *Pixels) Boundary(x, y int) Edges {
	if !p.Opaque(x, y) {
		return Edges{}
	}
	return Edges{
		Left:  !p.Opaque(x-1, y),
		Right: !p.Opaque(x+1, y),
		Up:    !p.Opaque(x, y-1),
		Down:  !p.Opaque(x, y+1),
	}
}
