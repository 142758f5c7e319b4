package mesh

import "strings"

// White is the neutral tint. Untinted faces render unchanged.
const White = 0xFFFFFF

// dyeColors maps dye tokens to their RGB values.
var dyeColors = map[string]uint32{
	"white":      0xF9FFFE,
	"orange":     0xF9801D,
	"magenta":    0xC74EBD,
	"light_blue": 0x3AB3DA,
	"yellow":     0xFED83D,
	"lime":       0x80C71F,
	"pink":       0xF38BAA,
	"gray":       0x474F52,
	"light_gray": 0x9D9D97,
	"cyan":       0x169C9C,
	"purple":     0x8932B8,
	"blue":       0x3C44AA,
	"brown":      0x835432,
	"green":      0x5E7C16,
	"red":        0xB02E26,
	"black":      0x1D1D21,
}

// DyeColor maps a dye token to its RGB value. Unknown tokens report false.
func DyeColor(token string) (uint32, bool) {
	c, ok := dyeColors[token]
	return c, ok
}

// TintFor derives the biome-style tint for a model from its base name.
// First matching rule wins; anything unmatched stays white.
func TintFor(base string) uint32 {
	switch {
	case strings.Contains(base, "spruce_leaves"):
		return 0x619961
	case strings.Contains(base, "birch_leaves"):
		return 0x80A755
	case strings.Contains(base, "leaves"), strings.Contains(base, "vine"):
		return 0x48B518
	case strings.Contains(base, "grass"), strings.Contains(base, "fern"):
		return 0x7CBD6B
	case strings.Contains(base, "stem"):
		return stemTint(base)
	case strings.Contains(base, "redstone_dust"):
		return 0xFF0000
	case strings.Contains(base, "lily_pad"):
		return 0x208030
	default:
		return White
	}
}

// stemTint ramps a crop stem from green to orange by its growth stage,
// read from trailing digits of the name.
func stemTint(base string) uint32 {
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	if i == len(base) {
		return White
	}

	n := 0
	for _, c := range base[i:] {
		n = n*10 + int(c-'0')
	}

	r := clampChannel(n * 32)
	g := clampChannel(255 - n*8)
	b := clampChannel(n * 4)
	return r<<16 | g<<8 | b
}

func clampChannel(v int) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}
