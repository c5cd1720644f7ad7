package pixelbuf

import (
	"image/color"
	"math/rand/v2"
)

// Pixel is a single RGBA8 framebuffer value, one byte per channel.
// It matches the storage texture format used on the GPU side
// (rgba8unorm), so no conversion happens when a buffer is uploaded.
type Pixel struct {
	R, G, B, A uint8
}

// Common pixel values.
var (
	// Transparent is the zero pixel (fully transparent black).
	Transparent = Pixel{}

	// Black is opaque black.
	Black = Pixel{A: 255}

	// White is opaque white.
	White = Pixel{R: 255, G: 255, B: 255, A: 255}
)

// RGB returns an opaque pixel with the given channel values.
func RGB(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: 255}
}

// RandomPixel returns an opaque pixel with uniformly random color channels.
// Useful for noise fills and visual smoke tests.
func RandomPixel() Pixel {
	v := rand.Uint32()
	return Pixel{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: 255,
	}
}

// Color converts the pixel to a color.Color (non-premultiplied).
func (p Pixel) Color() color.Color {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// FromColor converts any color.Color to a Pixel.
func FromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{R: n.R, G: n.G, B: n.B, A: n.A}
}
