package pixelbuf

import (
	"image/color"
	"testing"
)

func TestPixelColorRoundTrip(t *testing.T) {
	p := Pixel{R: 10, G: 20, B: 30, A: 40}
	c := p.Color()
	got := FromColor(c)
	if got != p {
		t.Errorf("FromColor(p.Color()) = %+v, want %+v", got, p)
	}
}

func TestRGBIsOpaque(t *testing.T) {
	p := RGB(1, 2, 3)
	if p.A != 255 {
		t.Errorf("RGB alpha = %d, want 255", p.A)
	}
}

func TestFromColorConvertsModel(t *testing.T) {
	// A 16-bit color must be reduced to 8 bits per channel.
	c := color.NRGBA64{R: 0xFFFF, G: 0, B: 0x8080, A: 0xFFFF}
	p := FromColor(c)
	if p.R != 255 || p.G != 0 || p.B != 128 || p.A != 255 {
		t.Errorf("FromColor = %+v, want {255 0 128 255}", p)
	}
}

func TestRandomPixelIsOpaque(t *testing.T) {
	for i := 0; i < 32; i++ {
		if p := RandomPixel(); p.A != 255 {
			t.Fatalf("RandomPixel alpha = %d, want 255", p.A)
		}
	}
}
