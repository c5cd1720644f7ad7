// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/asset"
)

func TestGpuImagesAddUploads(t *testing.T) {
	dev := newFakeDevice()
	store := asset.NewStore[*pixelbuf.Image]()
	g := NewGpuImages()

	img := pixelbuf.NewImage(8, 4)
	img.Fill(pixelbuf.White)
	id := store.Add(img)

	g.upload(dev, store, store.DrainEvents())

	got, ok := g.Get(id)
	if !ok {
		t.Fatal("image not in table after upload")
	}
	if got.Width != 8 || got.Height != 4 {
		t.Errorf("size = %dx%d, want 8x4", got.Width, got.Height)
	}
	data, err := dev.ReadTexture(got.Texture)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 8*4*4 || data[0] != 255 {
		t.Errorf("uploaded %d bytes, first = %d", len(data), data[0])
	}
}

func TestGpuImagesModifyReusesTexture(t *testing.T) {
	dev := newFakeDevice()
	store := asset.NewStore[*pixelbuf.Image]()
	g := NewGpuImages()

	img := pixelbuf.NewImage(4, 4)
	id := store.Add(img)
	g.upload(dev, store, store.DrainEvents())
	before, _ := g.Get(id)

	img.Fill(pixelbuf.Black)
	store.Touch(id)
	g.upload(dev, store, store.DrainEvents())
	after, _ := g.Get(id)

	if before.Texture != after.Texture {
		t.Error("same-size modify recreated the texture")
	}
	if dev.writes != 2 {
		t.Errorf("writes = %d, want 2", dev.writes)
	}
}

func TestGpuImagesResizeRecreatesTexture(t *testing.T) {
	dev := newFakeDevice()
	store := asset.NewStore[*pixelbuf.Image]()
	g := NewGpuImages()

	id := store.Add(pixelbuf.NewImage(4, 4))
	g.upload(dev, store, store.DrainEvents())
	before, _ := g.Get(id)

	store.Set(id, pixelbuf.NewImage(16, 16))
	g.upload(dev, store, store.DrainEvents())
	after, _ := g.Get(id)

	if before.Texture == after.Texture {
		t.Error("resize kept the old texture")
	}
	if after.Width != 16 || after.Height != 16 {
		t.Errorf("size = %dx%d, want 16x16", after.Width, after.Height)
	}
	if dev.destroys != 1 {
		t.Errorf("destroys = %d, want 1 (the old texture)", dev.destroys)
	}
}

func TestGpuImagesRemoveDestroys(t *testing.T) {
	dev := newFakeDevice()
	store := asset.NewStore[*pixelbuf.Image]()
	g := NewGpuImages()

	id := store.Add(pixelbuf.NewImage(2, 2))
	g.upload(dev, store, store.DrainEvents())

	store.Remove(id)
	g.upload(dev, store, store.DrainEvents())

	if _, ok := g.Get(id); ok {
		t.Error("removed image still in table")
	}
	if dev.destroys != 1 {
		t.Errorf("destroys = %d, want 1", dev.destroys)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}

func TestGpuImagesAddThenRemoveSameFrame(t *testing.T) {
	dev := newFakeDevice()
	store := asset.NewStore[*pixelbuf.Image]()
	g := NewGpuImages()

	id := store.Add(pixelbuf.NewImage(2, 2))
	store.Remove(id)
	g.upload(dev, store, store.DrainEvents())

	if _, ok := g.Get(id); ok {
		t.Error("image added and removed in one frame survived")
	}
}
