// Package render presents extracted palettes: as images, as text and on a
// terminal screen.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/carbocation/mediancut/quantize"
)

// Composite returns src with the palette drawn as a column of equal-height
// swatches to its right. If height is positive, src is first scaled to that
// height keeping its aspect ratio.
func Composite(src image.Image, palette []quantize.Color, swatchWidth, height int) *image.RGBA {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if height > 0 && height != h {
		w = max(1, w*height/h)
		h = height
	}

	dst := image.NewRGBA(image.Rect(0, 0, w+swatchWidth, h))
	if w == sb.Dx() && h == sb.Dy() {
		xdraw.Copy(dst, image.Point{}, src, sb, xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(dst, image.Rect(0, 0, w, h), src, sb, xdraw.Src, nil)
	}

	n := len(palette)
	for i, c := range palette {
		r := image.Rect(w, i*h/n, w+swatchWidth, (i+1)*h/n)
		xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
	}
	return dst
}

// Strip returns a w x h image of equal-width vertical swatches
func Strip(palette []quantize.Color, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	n := len(palette)
	for i, c := range palette {
		r := image.Rect(i*w/n, 0, (i+1)*w/n, h)
		xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
	}
	return dst
}

// WritePNG encodes img as a PNG file at path
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
