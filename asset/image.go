package asset

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pixelbuf"
)

// LoadImage decodes a PNG file into a pixel buffer image.
func LoadImage(path string) (*pixelbuf.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("asset: open image %q: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("asset: decode image %q: %w", path, err)
	}

	return FromImage(src), nil
}

// FromImage converts any image.Image into RGBA8 pixel storage.
func FromImage(src image.Image) *pixelbuf.Image {
	b := src.Bounds()
	img := pixelbuf.NewImage(uint32(b.Dx()), uint32(b.Dy()))
	draw.Draw(img.ToRGBAView(), img.Bounds(), src, b.Min, draw.Src)
	return img
}

// Resample scales an image to the given dimensions using nearest-neighbor
// interpolation, preserving the hard pixel edges a pixel buffer is expected
// to keep when displayed at a larger size.
func Resample(src *pixelbuf.Image, width, height uint32) *pixelbuf.Image {
	if src.Width() == width && src.Height() == height {
		return src
	}
	dst := pixelbuf.NewImage(width, height)
	xdraw.NearestNeighbor.Scale(dst.ToRGBAView(), dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
