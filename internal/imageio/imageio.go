// Package imageio loads source images for palette extraction.
package imageio

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/gift"
	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoPixels is returned for images with empty bounds
var ErrNoPixels = errors.New("image has no pixels")

// Source is a decoded image together with the digest of its encoded bytes
type Source struct {
	Image  image.Image
	Format string
	Digest string
}

// Load reads and decodes the image at path
func Load(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("open image: %w", err)
	}
	return Decode(data)
}

// Decode decodes an encoded image held in memory
func Decode(data []byte) (Source, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Source{}, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return Source{}, ErrNoPixels
	}

	sum := sha256.Sum256(data)
	return Source{
		Image:  img,
		Format: format,
		Digest: hex.EncodeToString(sum[:]),
	}, nil
}

// Downscale shrinks img so that neither side exceeds maxDim, keeping the
// aspect ratio. Nearest-neighbor sampling keeps every output pixel one of
// the source colors. A maxDim of zero or less disables scaling.
func Downscale(img image.Image, maxDim int) image.Image {
	g := downscaleFilter(img.Bounds(), maxDim)
	if g == nil {
		return img
	}
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// DownscaledBounds returns the bounds Downscale would produce for b
func DownscaledBounds(b image.Rectangle, maxDim int) image.Rectangle {
	g := downscaleFilter(b, maxDim)
	if g == nil {
		return b
	}
	return g.Bounds(b)
}

func downscaleFilter(b image.Rectangle, maxDim int) *gift.GIFT {
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return nil
	}
	if b.Dx() >= b.Dy() {
		return gift.New(gift.Resize(maxDim, 0, gift.NearestNeighborResampling))
	}
	return gift.New(gift.Resize(0, maxDim, gift.NearestNeighborResampling))
}
