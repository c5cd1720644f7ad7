// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/pixelbuf/gpu"
)

// fakeDevice is a test double for gpu.Device that records texture traffic.
type fakeDevice struct {
	nextID uint64

	textures map[gpu.TextureID][]byte
	sizes    map[gpu.TextureID][2]uint32
	writes   int
	destroys int
	submits  int

	textureErr error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		textures: make(map[gpu.TextureID][]byte),
		sizes:    make(map[gpu.TextureID][2]uint32),
	}
}

func (d *fakeDevice) id() uint64 { d.nextID++; return d.nextID }

func (d *fakeDevice) SupportsCompute() bool       { return true }
func (d *fakeDevice) MaxWorkgroupSize() [3]uint32 { return [3]uint32{256, 256, 64} }

func (d *fakeDevice) CreateShaderModule(string, string) (gpu.ShaderModuleID, error) {
	return gpu.ShaderModuleID(d.id()), nil
}
func (d *fakeDevice) DestroyShaderModule(gpu.ShaderModuleID) {}

func (d *fakeDevice) CreateBuffer(int, gpu.BufferUsage) (gpu.BufferID, error) {
	return gpu.BufferID(d.id()), nil
}
func (d *fakeDevice) DestroyBuffer(gpu.BufferID)               {}
func (d *fakeDevice) WriteBuffer(gpu.BufferID, uint64, []byte) {}

func (d *fakeDevice) CreateTexture(w, h uint32, _ gpu.TextureFormat, _ gpu.TextureUsage) (gpu.TextureID, error) {
	if d.textureErr != nil {
		return gpu.InvalidID, d.textureErr
	}
	id := gpu.TextureID(d.id())
	d.textures[id] = nil
	d.sizes[id] = [2]uint32{w, h}
	return id, nil
}

func (d *fakeDevice) DestroyTexture(id gpu.TextureID) {
	d.destroys++
	delete(d.textures, id)
	delete(d.sizes, id)
}

func (d *fakeDevice) WriteTexture(id gpu.TextureID, data []byte) {
	d.writes++
	d.textures[id] = append([]byte(nil), data...)
}

func (d *fakeDevice) ReadTexture(id gpu.TextureID) ([]byte, error) {
	data, ok := d.textures[id]
	if !ok {
		return nil, fmt.Errorf("unknown texture %d", id)
	}
	return data, nil
}

func (d *fakeDevice) CreateBindGroupLayout(*gpu.BindGroupLayoutDesc) (gpu.BindGroupLayoutID, error) {
	return gpu.BindGroupLayoutID(d.id()), nil
}
func (d *fakeDevice) DestroyBindGroupLayout(gpu.BindGroupLayoutID) {}

func (d *fakeDevice) CreatePipelineLayout([]gpu.BindGroupLayoutID) (gpu.PipelineLayoutID, error) {
	return gpu.PipelineLayoutID(d.id()), nil
}
func (d *fakeDevice) DestroyPipelineLayout(gpu.PipelineLayoutID) {}

func (d *fakeDevice) CreateComputePipeline(*gpu.ComputePipelineDesc) (gpu.ComputePipelineID, error) {
	return gpu.ComputePipelineID(d.id()), nil
}
func (d *fakeDevice) DestroyComputePipeline(gpu.ComputePipelineID) {}

func (d *fakeDevice) CreateBindGroup(gpu.BindGroupLayoutID, []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	return gpu.BindGroupID(d.id()), nil
}
func (d *fakeDevice) DestroyBindGroup(gpu.BindGroupID) {}

func (d *fakeDevice) BeginComputePass(string) gpu.ComputePassEncoder { return nopPass{} }
func (d *fakeDevice) Submit()                                        { d.submits++ }
func (d *fakeDevice) WaitIdle()                                      {}

type nopPass struct{}

func (nopPass) SetPipeline(gpu.ComputePipelineID)    {}
func (nopPass) SetBindGroup(uint32, gpu.BindGroupID) {}
func (nopPass) Dispatch(uint32, uint32, uint32)      {}
func (nopPass) End()                                 {}
