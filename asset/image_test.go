package asset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/pixelbuf"
)

func TestFromImageConvertsPixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 128, A: 255})

	img := FromImage(src)
	if img.Width() != 2 || img.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", img.Width(), img.Height())
	}
	got := pixelbuf.FrameOf(img).MustGet(1, 0)
	if got.R != 255 || got.G != 128 || got.A != 255 {
		t.Errorf("pixel = %+v", got)
	}
}

func TestLoadImagePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buf.png")

	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(2, 0, color.NRGBA{B: 200, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	got := pixelbuf.FrameOf(img).MustGet(2, 0)
	if got.B != 200 || got.A != 255 {
		t.Errorf("pixel = %+v", got)
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadImage on missing file returned nil error")
	}
}

func TestResampleNearestNeighbor(t *testing.T) {
	src := pixelbuf.NewImage(2, 2)
	f := pixelbuf.FrameOf(src)
	f.MustSet(0, 0, pixelbuf.RGB(255, 0, 0))
	f.MustSet(1, 1, pixelbuf.RGB(0, 0, 255))

	dst := Resample(src, 4, 4)
	if dst.Width() != 4 || dst.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", dst.Width(), dst.Height())
	}
	// Nearest-neighbor keeps hard edges: each source pixel becomes a 2x2 block.
	df := pixelbuf.FrameOf(dst)
	if got := df.MustGet(0, 0); got != pixelbuf.RGB(255, 0, 0) {
		t.Errorf("(0,0) = %+v", got)
	}
	if got := df.MustGet(1, 1); got != pixelbuf.RGB(255, 0, 0) {
		t.Errorf("(1,1) = %+v, want top-left block color", got)
	}
	if got := df.MustGet(3, 3); got != pixelbuf.RGB(0, 0, 255) {
		t.Errorf("(3,3) = %+v", got)
	}
}

func TestResampleSameSizeReturnsSource(t *testing.T) {
	src := pixelbuf.NewImage(5, 5)
	if Resample(src, 5, 5) != src {
		t.Error("Resample to identical size should return the source image")
	}
}
