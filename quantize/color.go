package quantize

import (
	"image"
	"image/color"
)

// Channel selects one of the three color channels
type Channel int

// Channel constants, in tie-break order
const (
	Red Channel = iota
	Green
	Blue
)

func (ch Channel) String() string {
	switch ch {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

// Color is an opaque 8-bit RGB triple
type Color struct {
	R, G, B uint8
}

// Channel returns the value of the given channel
func (c Color) Channel(ch Channel) uint8 {
	switch ch {
	case Red:
		return c.R
	case Green:
		return c.G
	default:
		return c.B
	}
}

// RGBA implements color.Color. The result is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

// FromColor drops alpha from any color.Color. Non-premultiplied values are
// used so partially transparent pixels keep their hue.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Dedupe returns the distinct colors of samples in order of first occurrence
func Dedupe(samples []Color) []Color {
	seen := make(map[Color]struct{}, len(samples))
	out := make([]Color, 0, len(samples))
	for _, c := range samples {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Samples lists every pixel color of m in row-major order. With unique set,
// each distinct color is listed once regardless of how many pixels share it.
func Samples(m image.Image, unique bool) []Color {
	b := m.Bounds()
	if b.Empty() {
		return nil
	}
	samples := make([]Color, 0, b.Dx()*b.Dy())

	switch src := m.(type) {
	case *image.NRGBA: // Already straight alpha, read the channels directly
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				samples = append(samples, Color{row[i], row[i+1], row[i+2]})
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				samples = append(samples, FromColor(m.At(x, y)))
			}
		}
	}

	if unique {
		return Dedupe(samples)
	}
	return samples
}
