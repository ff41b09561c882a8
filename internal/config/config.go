// Package config holds the palette extraction options shared by the
// pipeline and the command line tool.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/carbocation/mediancut/quantize"
)

const (
	minColors = 1
	maxColors = 256

	maxDimensionLimit = 8192
)

var defaultOptions = Options{
	Colors:      8,
	Unique:      false,
	Aggregation: "mean",
	SwatchWidth: 64,
}

// Options configures one palette extraction
type Options struct {
	Colors       int    `toml:"colors"`
	Unique       bool   `toml:"unique"`
	Aggregation  string `toml:"aggregation"`
	MaxDimension int    `toml:"max_dimension"`
	SwatchWidth  int    `toml:"swatch_width"`
	CachePath    string `toml:"cache_path"`
}

// Default returns the built-in options
func Default() Options {
	return defaultOptions
}

// Load reads options from a TOML file on top of the defaults
func Load(path string) (Options, error) {
	opts := Default()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return opts.Normalized()
}

// AggregationType resolves the aggregation name
func (o Options) AggregationType() quantize.AggregationType {
	agg, err := quantize.ParseAggregation(o.Aggregation)
	if err != nil {
		return quantize.Mean
	}
	return agg
}

// Normalized fills zero values from the defaults and clamps the rest.
// Colors above 256 are clamped; negative Colors are an error.
func (o Options) Normalized() (Options, error) {
	normalized := o

	if normalized.Colors < 0 {
		return Options{}, fmt.Errorf("colors: %w: got %d", quantize.ErrInvalidTargetCount, normalized.Colors)
	}
	if normalized.Colors == 0 {
		normalized.Colors = defaultOptions.Colors
	}
	normalized.Colors = clampInt(normalized.Colors, minColors, maxColors)

	if _, err := quantize.ParseAggregation(normalized.Aggregation); err != nil {
		return Options{}, err
	}
	if normalized.Aggregation == "" {
		normalized.Aggregation = defaultOptions.Aggregation
	}

	if normalized.MaxDimension < 0 {
		normalized.MaxDimension = 0
	}
	normalized.MaxDimension = min(normalized.MaxDimension, maxDimensionLimit)

	if normalized.SwatchWidth <= 0 {
		normalized.SwatchWidth = defaultOptions.SwatchWidth
	}

	return normalized, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
