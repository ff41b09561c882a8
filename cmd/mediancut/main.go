// Command mediancut prints the median cut palette of one or more images.
//
// Usage examples:
//
//	# Eight colors as text, one line per color
//	mediancut photo.jpg
//
//	# Sixteen colors from distinct pixel values, as JSON
//	mediancut -n 16 -unique -json photo.png
//
//	# Write the image with its palette alongside, then show it in the terminal
//	mediancut -n 6 -o palette.png -view photo.webp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lmittmann/tint"

	"github.com/carbocation/mediancut"
	"github.com/carbocation/mediancut/internal/config"
	"github.com/carbocation/mediancut/internal/render"
)

type flags struct {
	configPath string
	colors     int
	unique     bool
	mode       bool
	maxDim     int
	cachePath  string
	output     string
	strip      string
	height     int
	json       bool
	view       bool
	verbose    bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "TOML file with default options")
	flag.IntVar(&f.colors, "n", config.Default().Colors, "Number of palette colors")
	flag.BoolVar(&f.unique, "unique", false, "Count each distinct color once instead of once per pixel")
	flag.BoolVar(&f.mode, "mode", false, "Use the most frequent color of each cube instead of the mean")
	flag.IntVar(&f.maxDim, "max-dim", 0, "Downscale images so neither side exceeds this (0 = off)")
	flag.StringVar(&f.cachePath, "cache", "", "SQLite file caching palettes between runs")
	flag.StringVar(&f.output, "o", "", "Write the image with its palette swatches to this PNG")
	flag.StringVar(&f.strip, "strip", "", "Write the palette alone as a PNG strip")
	flag.IntVar(&f.height, "height", 0, "Scale the -o image to this height (0 = source height)")
	flag.BoolVar(&f.json, "json", false, "Print the palette as JSON")
	flag.BoolVar(&f.view, "view", false, "Show the palette in the terminal until a key is pressed")
	flag.BoolVar(&f.verbose, "v", false, "Debug logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mediancut [options] <image> [image...]")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	set := make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if err := run(ctx, f, set, flag.Args(), os.Stdout, logger); err != nil {
		logger.Error("mediancut failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// loadOptions layers explicitly set flags over the config file or defaults
func loadOptions(f flags, set map[string]bool) (config.Options, error) {
	opts := config.Default()
	if f.configPath != "" {
		var err error
		if opts, err = config.Load(f.configPath); err != nil {
			return config.Options{}, err
		}
	}

	if set["n"] {
		if f.colors < 1 {
			return config.Options{}, fmt.Errorf("-n must be at least 1, got %d", f.colors)
		}
		opts.Colors = f.colors
	}
	if set["unique"] {
		opts.Unique = f.unique
	}
	if set["mode"] {
		opts.Aggregation = "mean"
		if f.mode {
			opts.Aggregation = "mode"
		}
	}
	if set["max-dim"] {
		opts.MaxDimension = f.maxDim
	}
	if set["cache"] {
		opts.CachePath = f.cachePath
	}
	return opts.Normalized()
}

func run(ctx context.Context, f flags, set map[string]bool, paths []string, stdout io.Writer, logger *slog.Logger) error {
	if len(paths) > 1 && (f.output != "" || f.strip != "") {
		return errors.New("-o and -strip take a single image")
	}

	opts, err := loadOptions(f, set)
	if err != nil {
		return err
	}

	e, err := mediancut.New(opts, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	for _, path := range paths {
		res, err := e.Extract(ctx, path)
		if err != nil {
			return err
		}
		logger.Info("extracted palette", "path", path, "colors", len(res.Palette), "cached", res.Cached)

		if len(paths) > 1 && !f.json {
			fmt.Fprintf(stdout, "%s:\n", path)
		}
		if f.json {
			err = render.WriteJSON(stdout, res.Palette, res.Populations)
		} else {
			err = render.WriteText(stdout, res.Palette, res.Populations)
		}
		if err != nil {
			return err
		}

		if f.output != "" {
			img := render.Composite(res.Image, res.Palette, e.Options().SwatchWidth, f.height)
			if err := render.WritePNG(f.output, img); err != nil {
				return err
			}
			logger.Debug("wrote composite", "path", f.output)
		}
		if f.strip != "" {
			img := render.Strip(res.Palette, e.Options().SwatchWidth*len(res.Palette), e.Options().SwatchWidth)
			if err := render.WritePNG(f.strip, img); err != nil {
				return err
			}
			logger.Debug("wrote strip", "path", f.strip)
		}
		if f.view {
			if err := view(res, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func view(res mediancut.Result, title string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	render.View(screen, res.Palette, title)
	return nil
}
