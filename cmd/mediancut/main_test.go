package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carbocation/mediancut/internal/render"
)

func writeTwoColorImage(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{0, 0, 255, 255}
			if x == 0 && y == 0 {
				c = color.NRGBA{255, 0, 0, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "two.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunText(t *testing.T) {
	path := writeTwoColorImage(t)
	f := flags{colors: 2}
	var out bytes.Buffer
	if err := run(context.Background(), f, map[string]bool{"n": true}, []string{path}, &out, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}
	// The single red pixel sorts last along the red channel
	want := "#0000ff   0   0 255 50\n#0500f9   5   0 249 50\n"
	if d := cmp.Diff(want, out.String()); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestRunJSONUnique(t *testing.T) {
	path := writeTwoColorImage(t)
	f := flags{colors: 2, unique: true, json: true}
	set := map[string]bool{"n": true, "unique": true}
	var out bytes.Buffer
	if err := run(context.Background(), f, set, []string{path}, &out, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}
	var got []render.Entry
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	// Red is seen first but sorts last along the red channel
	want := []render.Entry{
		{Hex: "#0000ff", B: 255, Population: 1},
		{Hex: "#ff0000", R: 255, Population: 1},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestRunWritesImages(t *testing.T) {
	path := writeTwoColorImage(t)
	dir := t.TempDir()
	f := flags{
		colors: 2,
		output: filepath.Join(dir, "composite.png"),
		strip:  filepath.Join(dir, "strip.png"),
	}
	var out bytes.Buffer
	if err := run(context.Background(), f, map[string]bool{"n": true}, []string{path}, &out, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string]image.Rectangle{
		f.output: image.Rect(0, 0, 10+64, 10),
		f.strip:  image.Rect(0, 0, 128, 64),
	} {
		file, err := os.Open(name)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := png.DecodeConfig(file)
		file.Close()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != want.Dx() || cfg.Height != want.Dy() {
			t.Errorf("%s: got %dx%d, want %dx%d", filepath.Base(name), cfg.Width, cfg.Height, want.Dx(), want.Dy())
		}
	}
}

func TestRunErrors(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	var out bytes.Buffer

	f := flags{output: "x.png"}
	if err := run(context.Background(), f, nil, []string{"a.png", "b.png"}, &out, logger); err == nil {
		t.Error("expected error for -o with several images")
	}

	f = flags{colors: 0}
	if err := run(context.Background(), f, map[string]bool{"n": true}, []string{"a.png"}, &out, logger); err == nil {
		t.Error("expected error for -n 0")
	}

	f = flags{}
	if err := run(context.Background(), f, nil, []string{filepath.Join(t.TempDir(), "missing.png")}, &out, logger); err == nil {
		t.Error("expected error for missing image")
	}
}

func TestLoadOptionsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.toml")
	if err := os.WriteFile(path, []byte("colors = 5\naggregation = \"mode\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := loadOptions(flags{configPath: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Colors != 5 || opts.Aggregation != "mode" {
		t.Errorf("config values not applied: %+v", opts)
	}

	// Flags override the file
	opts, err = loadOptions(flags{configPath: path, colors: 3, mode: false}, map[string]bool{"n": true, "mode": true})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Colors != 3 || opts.Aggregation != "mean" {
		t.Errorf("flags did not override config: %+v", opts)
	}
}
