package compute

import (
	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// Instance is a bindable resource set for one shader asset.
//
// AsBindGroup builds the user bind group (group 1) from the instance's
// current value. An error wrapping gpu.ErrResourceNotReady marks the
// failure transient and the instance is retried on a later frame; any
// other error is permanent and drops the instance until its asset changes
// again.
//
// An instance with no resources returns a bind group built from no
// entries.
type Instance interface {
	AsBindGroup(dev gpu.Device, layout gpu.BindGroupLayoutID, images *render.GpuImages) (gpu.BindGroupID, error)
}

// Descriptor describes a shader type. It is immutable after registration.
type Descriptor struct {
	// Label names the shader type. It doubles as the render graph node
	// label, so concurrent registrations need distinct labels. Defaults
	// to "pixelbuf-compute".
	Label string

	// Source names the compute shader, inline WGSL or by asset path.
	// Required.
	Source gpu.ShaderRef

	// EntryPoint is the shader entry point function. Defaults to "main".
	EntryPoint string

	// Workgroups computes dispatch extents from the target's pixel size.
	// Required. Must be pure. Truncating division leaves the rightmost
	// and bottom edge pixels uncovered when the size does not divide
	// evenly; that is the caller's choice, not corrected here.
	Workgroups func(width, height uint32) (x, y uint32)

	// UserLayout is the bind group layout for the instance's resources
	// (group 1). Group 0 is always the target's storage texture. An
	// empty layout is valid for shaders that bind nothing of their own.
	UserLayout gpu.BindGroupLayoutDesc
}

// Entity identifies a host-side entity carrying an attachment. The value is
// opaque to this package; it only has to be stable and unique per host
// entity.
type Entity uint64

// Attachment associates an entity's render target image with one shader
// asset instance of the registered type.
type Attachment struct {
	Entity Entity
	Target asset.ID
	Shader asset.ID
}
