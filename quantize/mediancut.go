// Package quantize reduces a set of colors to a small palette using the Median Cut method,
// and offers an implementation of the draw.Quantizer interface on top of it
package quantize

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
)

var (
	// ErrEmptyImage is returned when there are no sample colors to partition
	ErrEmptyImage = errors.New("quantize: no sample colors")
	// ErrInvalidTargetCount is returned when fewer than one palette color is requested
	ErrInvalidTargetCount = errors.New("quantize: target count must be at least 1")
)

// AggregationType specifies how a cube is reduced to a single color
type AggregationType int

const (
	// Mean - per-channel truncated average of all values
	Mean AggregationType = iota
	// Mode - pick the most frequent value
	Mode
)

func (a AggregationType) String() string {
	switch a {
	case Mean:
		return "mean"
	case Mode:
		return "mode"
	}
	return fmt.Sprintf("AggregationType(%d)", int(a))
}

// ParseAggregation converts "mean" or "mode" to an AggregationType
func ParseAggregation(s string) (AggregationType, error) {
	switch s {
	case "", "mean":
		return Mean, nil
	case "mode":
		return Mode, nil
	}
	return Mean, fmt.Errorf("quantize: unknown aggregation %q", s)
}

// MedianCut reduces samples to at most targetCount averaged colors. With
// unique set, duplicate samples are dropped first so that every distinct
// color weighs the same. The result may be shorter than targetCount when
// the samples hold fewer distinct colors.
func MedianCut(samples []Color, targetCount int, unique bool) ([]Color, error) {
	cubes, err := Partition(samples, targetCount, unique)
	if err != nil {
		return nil, err
	}
	return Aggregate(cubes, Mean), nil
}

// Partition runs the median cut and returns the terminal cubes in worklist order
func Partition(samples []Color, targetCount int, unique bool) ([]*Cube, error) {
	if targetCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTargetCount, targetCount)
	}
	if len(samples) == 0 {
		return nil, ErrEmptyImage
	}

	var arena []Color // Every cube is a window into this slice
	if unique {
		arena = Dedupe(samples)
	} else {
		arena = slices.Clone(samples)
	}
	return bucketize(newCube(arena), targetCount), nil
}

// bucketize repeatedly splits the cube with the widest range until there are num cubes
func bucketize(root *Cube, num int) []*Cube {
	cubes := []*Cube{root}
	for len(cubes) < num {
		slices.SortStableFunc(cubes, compareCubes)
		last := len(cubes) - 1
		cube := cubes[last]
		if !cube.splittable() {
			break // Widest cube is uniform, so all of them are
		}
		a, b := cube.splitInto(cube.colors)
		cubes = append(cubes[:last], a, b)
	}
	return cubes
}

// Aggregate reduces every cube to one color
func Aggregate(cubes []*Cube, agg AggregationType) []Color {
	out := make([]Color, 0, len(cubes))
	for _, cb := range cubes {
		switch agg {
		case Mode:
			out = append(out, cb.Mode())
		default:
			out = append(out, cb.Average())
		}
	}
	return out
}

// MedianCutQuantizer implements the go draw.Quantizer interface using the Median Cut method
type MedianCutQuantizer struct {
	// The type of aggregation to be used to find final colors
	Aggregation AggregationType
	// Whether each distinct color counts once instead of once per pixel
	Unique bool
	// Whether to create a transparent entry
	AddTransparent bool
}

// quantizeSlice partitions the provided samples and appends the result to p
func (q MedianCutQuantizer) quantizeSlice(p color.Palette, samples []Color) color.Palette {
	numColors := cap(p) - len(p)
	addTransparent := q.AddTransparent
	if addTransparent {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a == 0 {
				addTransparent = false
			}
		}
		if addTransparent {
			numColors--
		}
	}

	if cubes, err := Partition(samples, numColors, false); err == nil {
		for _, c := range Aggregate(cubes, q.Aggregation) {
			p = append(p, c)
		}
	}
	if addTransparent && len(p) < cap(p) {
		p = append(p, color.RGBA{0, 0, 0, 0})
	}
	return p
}

// Quantize quantizes an image to a palette and returns the palette
func (q MedianCutQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	return q.quantizeSlice(p, Samples(m, q.Unique))
}
