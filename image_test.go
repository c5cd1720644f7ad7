package pixelbuf

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestNewImageIsTransparent(t *testing.T) {
	img := NewImage(3, 3)
	for _, b := range img.Data() {
		if b != 0 {
			t.Fatal("new image is not transparent black")
		}
	}
}

func TestImageFill(t *testing.T) {
	img := NewImage(2, 2)
	img.Fill(RGB(9, 8, 7))
	f := FrameOf(img)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := f.MustGet(x, y); got != RGB(9, 8, 7) {
				t.Errorf("pixel (%d,%d) = %+v after Fill", x, y, got)
			}
		}
	}
}

func TestToImageCopies(t *testing.T) {
	img := NewImage(2, 1)
	img.Fill(White)
	out := img.ToImage()
	out.Pix[0] = 0
	if img.Data()[0] != 255 {
		t.Error("mutating ToImage result changed the source image")
	}
}

func TestToRGBAViewSharesStorage(t *testing.T) {
	img := NewImage(4, 4)
	view := img.ToRGBAView()
	draw.Draw(view, image.Rect(0, 0, 4, 4), image.NewUniform(color.NRGBA{R: 255, A: 255}), image.Point{}, draw.Src)
	if got := FrameOf(img).MustGet(2, 2); got.R != 255 || got.A != 255 {
		t.Errorf("draw through view did not reach image storage, got %+v", got)
	}
}

func TestImageAtOutOfBoundsIsZero(t *testing.T) {
	img := NewImage(1, 1)
	img.Fill(White)
	if img.At(5, 5) != (color.NRGBA{}) {
		t.Error("At outside bounds should be transparent black")
	}
}
