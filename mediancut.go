// Package mediancut extracts representative palettes from image files:
// decoding, optional downscaling, sampling, median cut partitioning and
// caching of the result.
package mediancut

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/carbocation/mediancut/internal/cache"
	"github.com/carbocation/mediancut/internal/config"
	"github.com/carbocation/mediancut/internal/imageio"
	"github.com/carbocation/mediancut/quantize"
)

// Result is the outcome of one extraction
type Result struct {
	Palette     []quantize.Color
	Populations []int // Samples per palette entry
	Image       image.Image
	Source      image.Rectangle
	Sampled     image.Rectangle
	Cached      bool
}

// Extractor runs palette extractions with a fixed set of options
type Extractor struct {
	opts   config.Options
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates an Extractor. A cache is opened when opts.CachePath is set.
func New(opts config.Options, logger *slog.Logger) (*Extractor, error) {
	normalized, err := opts.Normalized()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Extractor{opts: normalized, logger: logger}
	if normalized.CachePath != "" {
		c, err := cache.Open(normalized.CachePath)
		if err != nil {
			return nil, err
		}
		e.cache = c
	}
	return e, nil
}

// Options returns the normalized options in use
func (e *Extractor) Options() config.Options {
	return e.opts
}

// Close releases the cache, if any
func (e *Extractor) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}

// Extract loads the image at path and computes its palette, consulting the
// cache first
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	src, err := imageio.Load(path)
	if err != nil {
		return Result{}, err
	}
	e.logger.Debug("decoded image", "path", path, "format", src.Format, "bounds", src.Image.Bounds())

	var key string
	if e.cache != nil {
		key = cache.Key(src.Digest, e.opts)
		entry, err := e.cache.Get(ctx, key)
		switch {
		case err == nil:
			e.logger.Debug("palette cache hit", "key", key)
			return Result{
				Palette:     entry.Palette,
				Populations: entry.Populations,
				Image:       src.Image,
				Source:      src.Image.Bounds(),
				Sampled:     imageio.DownscaledBounds(src.Image.Bounds(), e.opts.MaxDimension),
				Cached:      true,
			}, nil
		case errors.Is(err, cache.ErrMiss):
			e.logger.Debug("palette cache miss", "key", key)
		default:
			e.logger.Warn("palette cache lookup failed", "err", err)
		}
	}

	res, err := e.ExtractImage(ctx, src.Image)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}

	if e.cache != nil {
		entry := cache.Entry{Palette: res.Palette, Populations: res.Populations}
		if err := e.cache.Put(ctx, key, entry); err != nil {
			e.logger.Warn("palette cache store failed", "err", err)
		}
	}
	return res, nil
}

// ExtractImage computes the palette of an already decoded image
func (e *Extractor) ExtractImage(ctx context.Context, img image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sampled := imageio.Downscale(img, e.opts.MaxDimension)
	if sampled.Bounds() != img.Bounds() {
		e.logger.Debug("downscaled image", "from", img.Bounds(), "to", sampled.Bounds())
	}

	samples := quantize.Samples(sampled, e.opts.Unique)
	e.logger.Debug("sampled colors", "count", len(samples), "unique", e.opts.Unique)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cubes, err := quantize.Partition(samples, e.opts.Colors, false)
	if err != nil {
		return Result{}, err
	}
	if len(cubes) < e.opts.Colors {
		e.logger.Debug("fewer distinct colors than requested", "requested", e.opts.Colors, "got", len(cubes))
	}

	populations := make([]int, len(cubes))
	for i, cb := range cubes {
		populations[i] = cb.Len()
	}
	return Result{
		Palette:     quantize.Aggregate(cubes, e.opts.AggregationType()),
		Populations: populations,
		Image:       img,
		Source:      img.Bounds(),
		Sampled:     sampled.Bounds(),
	}, nil
}
