// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/gpu"
)

// GpuImage is the render-side view of one image asset: the texture holding
// its pixels and the dimensions it was created with.
type GpuImage struct {
	Texture gpu.TextureID
	Width   uint32
	Height  uint32
}

// GpuImages maps image asset identities to GPU textures.
//
// The engine keeps the table in sync with the image store at the start of
// every Prepare stage: added or modified assets get their pixels uploaded,
// removed assets have their textures destroyed. Consumers treat presence in
// the table as "resolvable on the GPU this frame".
type GpuImages struct {
	mu     sync.RWMutex
	images map[asset.ID]GpuImage
}

// NewGpuImages creates an empty table.
func NewGpuImages() *GpuImages {
	return &GpuImages{images: make(map[asset.ID]GpuImage)}
}

// Get returns the GPU view of an image asset, if one exists.
func (g *GpuImages) Get(id asset.ID) (GpuImage, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	img, ok := g.images[id]
	return img, ok
}

// Len returns the number of tracked images.
func (g *GpuImages) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.images)
}

// pixelBufferUsage is the usage every pixel buffer texture is created with:
// written from the CPU, read back for saving, and bound to compute shaders
// as a read-write storage texture.
const pixelBufferUsage = gpu.TextureUsageCopySrc |
	gpu.TextureUsageCopyDst |
	gpu.TextureUsageTextureBinding |
	gpu.TextureUsageStorageBinding

// upload applies one frame's image store events to the table.
//
// Added and modified images are written to their texture, recreating it when
// the size changed. Removed images have their texture destroyed. Events are
// applied in order, so a remove following an add within the same frame wins.
func (g *GpuImages) upload(dev gpu.Device, store *asset.Store[*pixelbuf.Image], events []asset.Event) {
	if dev == nil || len(events) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, ev := range events {
		switch ev.Kind {
		case asset.Removed:
			if img, ok := g.images[ev.ID]; ok {
				dev.DestroyTexture(img.Texture)
				delete(g.images, ev.ID)
			}

		case asset.Added, asset.Modified, asset.LoadedWithDependencies:
			src, ok := store.Get(ev.ID)
			if !ok {
				// Removed later in the same batch; the Removed event
				// handles cleanup.
				continue
			}
			g.uploadOne(dev, ev.ID, src)
		}
	}
}

// uploadOne writes one image's pixels, reusing the existing texture when the
// dimensions still match. Caller holds g.mu.
func (g *GpuImages) uploadOne(dev gpu.Device, id asset.ID, src *pixelbuf.Image) {
	w, h := src.Width(), src.Height()

	if cur, ok := g.images[id]; ok {
		if cur.Width == w && cur.Height == h {
			dev.WriteTexture(cur.Texture, src.Data())
			return
		}
		dev.DestroyTexture(cur.Texture)
		delete(g.images, id)
	}

	tex, err := dev.CreateTexture(w, h, gpu.TextureFormatRGBA8Unorm, pixelBufferUsage)
	if err != nil {
		pixelbuf.Logger().Error("image texture creation failed",
			"image", uint64(id), "width", w, "height", h, "error", err)
		return
	}
	dev.WriteTexture(tex, src.Data())
	g.images[id] = GpuImage{Texture: tex, Width: w, Height: h}
}

// destroyAll releases every tracked texture. Used on engine shutdown.
func (g *GpuImages) destroyAll(dev gpu.Device) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if dev != nil {
		for _, img := range g.images {
			dev.DestroyTexture(img.Texture)
		}
	}
	g.images = make(map[asset.ID]GpuImage)
}
