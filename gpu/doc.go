// Package gpu defines the device abstraction shared by all backends.
//
// The Device interface is the narrow surface the rest of the module programs
// against. Each backend (gogpu/wgpu HAL, cogentcore/webgpu) implements it and
// maintains its own mapping from the opaque resource IDs defined here to real
// backend handles.
//
// Package gpu also hosts the asynchronous PipelineCache. Compute pipelines are
// queued with a ShaderRef and compiled over subsequent Process calls; callers
// poll State until the pipeline is Ok or Error.
package gpu
