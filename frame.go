package pixelbuf

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a pixel coordinate lies outside the frame.
var ErrOutOfBounds = errors.New("pixelbuf: pixel coordinate out of bounds")

// Frame exposes bounds-checked pixel access over an image's decoded storage.
//
// A Frame never owns the image; it is a short-lived view, typically created
// per update. Bounds are derived from the image's own declared size, so code
// that iterates with Size cannot go out of bounds. All mutation is in place
// and purely CPU-side; the GPU copy is refreshed by the host when the image
// asset is marked modified.
type Frame struct {
	img *Image
}

// FrameOf creates a frame over the given image.
func FrameOf(img *Image) Frame {
	return Frame{img: img}
}

// Size returns the frame dimensions in pixels.
func (f Frame) Size() (width, height int) {
	return int(f.img.width), int(f.img.height)
}

// Get returns the pixel at (x, y).
// Returns ErrOutOfBounds if the coordinate is outside the frame.
func (f Frame) Get(x, y int) (Pixel, error) {
	if !f.inBounds(x, y) {
		return Pixel{}, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, f.img.width, f.img.height)
	}
	i := (y*int(f.img.width) + x) * 4
	d := f.img.data
	return Pixel{R: d[i], G: d[i+1], B: d[i+2], A: d[i+3]}, nil
}

// Set writes the pixel at (x, y).
// Returns ErrOutOfBounds if the coordinate is outside the frame.
func (f Frame) Set(x, y int, p Pixel) error {
	if !f.inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, f.img.width, f.img.height)
	}
	f.set(x, y, p)
	return nil
}

// MustGet is like Get but panics on out-of-bounds access.
// Use when coordinates are derived from Size.
func (f Frame) MustGet(x, y int) Pixel {
	p, err := f.Get(x, y)
	if err != nil {
		panic(err)
	}
	return p
}

// MustSet is like Set but panics on out-of-bounds access.
// Use when coordinates are derived from Size.
func (f Frame) MustSet(x, y int, p Pixel) {
	if err := f.Set(x, y, p); err != nil {
		panic(err)
	}
}

// PerPixel visits every pixel exactly once in row-major order and replaces
// it with the function's return value.
func (f Frame) PerPixel(fn func(x, y int, p Pixel) Pixel) {
	w, h := int(f.img.width), int(f.img.height)
	d := f.img.data
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			p := fn(x, y, Pixel{R: d[i], G: d[i+1], B: d[i+2], A: d[i+3]})
			d[i+0] = p.R
			d[i+1] = p.G
			d[i+2] = p.B
			d[i+3] = p.A
		}
	}
}

func (f Frame) inBounds(x, y int) bool {
	return x >= 0 && x < int(f.img.width) && y >= 0 && y < int(f.img.height)
}

func (f Frame) set(x, y int, p Pixel) {
	i := (y*int(f.img.width) + x) * 4
	d := f.img.data
	d[i+0] = p.R
	d[i+1] = p.G
	d[i+2] = p.B
	d[i+3] = p.A
}
