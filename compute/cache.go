package compute

import (
	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// preparedTexture is a cached storage-texture bind group for one target.
type preparedTexture struct {
	bindGroup gpu.BindGroupID
	width     uint32
	height    uint32
}

// preparedShader is a cached user bind group for one shader asset.
type preparedShader struct {
	bindGroup gpu.BindGroupID
}

// resourceCache holds one registration's prepared GPU objects.
//
// The cache is owned and mutated by the prepare stage only, so it needs no
// locking of its own. A texture entry exists iff the target's GPU image was
// resolvable last time the entry was (re)built and has not been invalidated
// since. A shader entry exists iff the instance's bind group was built
// successfully.
type resourceCache struct {
	textures map[asset.ID]preparedTexture
	shaders  map[asset.ID]preparedShader
}

func newResourceCache() *resourceCache {
	return &resourceCache{
		textures: make(map[asset.ID]preparedTexture),
		shaders:  make(map[asset.ID]preparedShader),
	}
}

// upsertTexture builds the storage-texture bind group for a target. Called
// only when no valid entry exists.
func (c *resourceCache) upsertTexture(dev gpu.Device, layout gpu.BindGroupLayoutID, id asset.ID, img render.GpuImage) error {
	bg, err := dev.CreateBindGroup(layout, []gpu.BindGroupEntry{{
		Binding: 0,
		Texture: img.Texture,
	}})
	if err != nil {
		return err
	}
	c.textures[id] = preparedTexture{bindGroup: bg, width: img.Width, height: img.Height}
	return nil
}

// invalidate evicts exactly the named texture entries.
func (c *resourceCache) invalidate(dev gpu.Device, ids map[asset.ID]struct{}) {
	for id := range ids {
		if e, ok := c.textures[id]; ok {
			dev.DestroyBindGroup(e.bindGroup)
			delete(c.textures, id)
		}
	}
}

// prune evicts texture entries whose target is not in the live set. The
// O(cache) walk is skipped when the sizes already match.
func (c *resourceCache) prune(dev gpu.Device, live map[asset.ID]struct{}) {
	if len(c.textures) == len(live) {
		return
	}
	for id, e := range c.textures {
		if _, ok := live[id]; !ok {
			dev.DestroyBindGroup(e.bindGroup)
			delete(c.textures, id)
		}
	}
}

// upsertShader builds the user bind group for one instance, replacing any
// previous entry for the asset. The returned error keeps the transient or
// permanent nature the instance reported.
func (c *resourceCache) upsertShader(dev gpu.Device, layout gpu.BindGroupLayoutID, images *render.GpuImages, id asset.ID, inst Instance) error {
	bg, err := inst.AsBindGroup(dev, layout, images)
	if err != nil {
		return err
	}
	if old, ok := c.shaders[id]; ok {
		dev.DestroyBindGroup(old.bindGroup)
	}
	c.shaders[id] = preparedShader{bindGroup: bg}
	return nil
}

// removeShader drops the entry for a removed asset.
func (c *resourceCache) removeShader(dev gpu.Device, id asset.ID) {
	if e, ok := c.shaders[id]; ok {
		dev.DestroyBindGroup(e.bindGroup)
		delete(c.shaders, id)
	}
}

// destroyAll releases every cached bind group.
func (c *resourceCache) destroyAll(dev gpu.Device) {
	if dev != nil {
		for _, e := range c.textures {
			dev.DestroyBindGroup(e.bindGroup)
		}
		for _, e := range c.shaders {
			dev.DestroyBindGroup(e.bindGroup)
		}
	}
	c.textures = make(map[asset.ID]preparedTexture)
	c.shaders = make(map[asset.ID]preparedShader)
}
