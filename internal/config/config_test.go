package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carbocation/mediancut/quantize"
)

func TestNormalized(t *testing.T) {
	testCases := []struct {
		name string
		in   Options
		want Options
	}{
		{
			name: "zero",
			in:   Options{},
			want: Options{Colors: 8, Aggregation: "mean", SwatchWidth: 64},
		},
		{
			name: "clamped",
			in:   Options{Colors: 1000, MaxDimension: -5, SwatchWidth: 10, Aggregation: "mode"},
			want: Options{Colors: 256, MaxDimension: 0, SwatchWidth: 10, Aggregation: "mode"},
		},
		{
			name: "kept",
			in:   Options{Colors: 3, Unique: true, MaxDimension: 200, SwatchWidth: 32, CachePath: "x.db"},
			want: Options{Colors: 3, Unique: true, Aggregation: "mean", MaxDimension: 200, SwatchWidth: 32, CachePath: "x.db"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Normalized()
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.want, got); d != "" {
				t.Errorf("(-want +got):\n%s", d)
			}
		})
	}
}

func TestNormalizedRejectsAggregation(t *testing.T) {
	if _, err := (Options{Aggregation: "median"}).Normalized(); err == nil {
		t.Fatal("expected error for unknown aggregation")
	}
}

func TestNormalizedRejectsNegativeColors(t *testing.T) {
	if _, err := (Options{Colors: -3}).Normalized(); !errors.Is(err, quantize.ErrInvalidTargetCount) {
		t.Fatalf("expected ErrInvalidTargetCount, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "negative.toml")
	if err := os.WriteFile(path, []byte("colors = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, quantize.ErrInvalidTargetCount) {
		t.Errorf("Load: expected ErrInvalidTargetCount, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mediancut.toml")
	data := "colors = 4\nunique = true\naggregation = \"mode\"\nmax_dimension = 320\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Options{Colors: 4, Unique: true, Aggregation: "mode", MaxDimension: 320, SwatchWidth: 64}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
	if got.AggregationType() != quantize.Mode {
		t.Errorf("aggregation type: got %s", got.AggregationType())
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
