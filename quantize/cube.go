package quantize

import (
	"cmp"
	"errors"
	"slices"
)

var (
	// ErrEmptyCube is returned when a cube would hold no colors
	ErrEmptyCube = errors.New("quantize: cube has no colors")
	// ErrUnsplittable is returned when splitting a cube with fewer than two colors
	ErrUnsplittable = errors.New("quantize: cube has fewer than two colors")
)

// Cube is one partition of the sample colors together with its per-channel
// range statistics. Statistics are fixed at construction.
type Cube struct {
	colors     []Color
	ranges     [3]uint8
	maxRange   uint8
	maxChannel Channel
}

// NewCube builds a cube from a copy of colors
func NewCube(colors []Color) (*Cube, error) {
	if len(colors) == 0 {
		return nil, ErrEmptyCube
	}
	return newCube(slices.Clone(colors)), nil
}

// newCube takes ownership of colors, which must not be empty
func newCube(colors []Color) *Cube {
	lo, hi := colors[0], colors[0]
	for _, c := range colors[1:] {
		lo.R, hi.R = min(lo.R, c.R), max(hi.R, c.R)
		lo.G, hi.G = min(lo.G, c.G), max(hi.G, c.G)
		lo.B, hi.B = min(lo.B, c.B), max(hi.B, c.B)
	}

	cb := &Cube{
		colors: colors,
		ranges: [3]uint8{hi.R - lo.R, hi.G - lo.G, hi.B - lo.B},
	}
	for ch := Red; ch <= Blue; ch++ { // Strict comparison keeps the earliest channel on ties
		if cb.ranges[ch] > cb.maxRange {
			cb.maxRange = cb.ranges[ch]
			cb.maxChannel = ch
		}
	}
	return cb
}

// Len returns the number of sample colors in the cube
func (cb *Cube) Len() int {
	return len(cb.colors)
}

// Colors returns a copy of the cube's colors in their current order
func (cb *Cube) Colors() []Color {
	return slices.Clone(cb.colors)
}

// Range returns max - min of the given channel
func (cb *Cube) Range(ch Channel) uint8 {
	return cb.ranges[ch]
}

// MaxRange returns the widest channel range
func (cb *Cube) MaxRange() uint8 {
	return cb.maxRange
}

// MaxChannel returns the channel with the widest range, preferring red, then
// green, then blue when ranges are equal.
func (cb *Cube) MaxChannel() Channel {
	return cb.maxChannel
}

// Average returns the per-channel mean, truncated toward zero
func (cb *Cube) Average() Color {
	var r, g, b uint64
	for _, c := range cb.colors {
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
	}
	n := uint64(len(cb.colors))
	return Color{uint8(r / n), uint8(g / n), uint8(b / n)}
}

// Mode returns the most frequent color, the earliest one on ties
func (cb *Cube) Mode() Color {
	counts := make(map[Color]int, len(cb.colors))
	for _, c := range cb.colors {
		counts[c]++
	}
	best, bestCount := cb.colors[0], 0
	for _, c := range cb.colors {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// Split sorts a copy of the colors along the widest channel and cuts it at
// the median index. The first cube gets the lower half.
func (cb *Cube) Split() (*Cube, *Cube, error) {
	if len(cb.colors) < 2 {
		return nil, nil, ErrUnsplittable
	}
	a, b := cb.splitInto(make([]Color, len(cb.colors)))
	return a, b, nil
}

// splitInto sorts the colors into buf and returns cubes over its two halves.
// buf may be cb.colors itself when cb is discarded after the split.
func (cb *Cube) splitInto(buf []Color) (*Cube, *Cube) {
	copy(buf, cb.colors)
	ch := cb.maxChannel
	slices.SortStableFunc(buf, func(a, b Color) int {
		return cmp.Compare(a.Channel(ch), b.Channel(ch))
	})
	middle := len(buf) / 2
	return newCube(buf[:middle:middle]), newCube(buf[middle:])
}

// splittable reports whether a split would separate distinct colors
func (cb *Cube) splittable() bool {
	return len(cb.colors) >= 2 && cb.maxRange > 0
}

// compareCubes orders cubes by their widest range
func compareCubes(a, b *Cube) int {
	return cmp.Compare(a.maxRange, b.maxRange)
}
