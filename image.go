package pixelbuf

import (
	"image"
	"image/color"
)

// Image is the decoded pixel storage backing a render target.
//
// The data layout is RGBA8, 4 bytes per pixel, row-major. The image is owned
// by the host asset store; the compute subsystem only caches GPU objects
// derived from it, keyed by the asset identity.
type Image struct {
	width  uint32
	height uint32
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewImage creates a new image with the given dimensions, initialized to
// transparent black.
func NewImage(width, height uint32) *Image {
	return &Image{
		width:  width,
		height: height,
		data:   make([]uint8, int(width)*int(height)*4),
	}
}

// Width returns the width of the image in pixels.
func (m *Image) Width() uint32 {
	return m.width
}

// Height returns the height of the image in pixels.
func (m *Image) Height() uint32 {
	return m.height
}

// Data returns the raw pixel data (RGBA format).
func (m *Image) Data() []uint8 {
	return m.data
}

// Fill sets every pixel to the given value.
func (m *Image) Fill(p Pixel) {
	for i := 0; i < len(m.data); i += 4 {
		m.data[i+0] = p.R
		m.data[i+1] = p.G
		m.data[i+2] = p.B
		m.data[i+3] = p.A
	}
}

// ToImage converts the image to an image.RGBA. The pixel data is copied.
func (m *Image) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(m.width), int(m.height)))
	copy(img.Pix, m.data)
	return img
}

// ToRGBAView returns an image.RGBA sharing this image's pixel storage.
// Draw operations on the view write through to the image.
func (m *Image) ToRGBAView() *image.RGBA {
	return &image.RGBA{
		Pix:    m.data,
		Stride: int(m.width) * 4,
		Rect:   image.Rect(0, 0, int(m.width), int(m.height)),
	}
}

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	if x < 0 || x >= int(m.width) || y < 0 || y >= int(m.height) {
		return color.NRGBA{}
	}
	i := (y*int(m.width) + x) * 4
	return color.NRGBA{R: m.data[i], G: m.data[i+1], B: m.data[i+2], A: m.data[i+3]}
}

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.width), int(m.height))
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}
