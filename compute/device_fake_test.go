package compute

import (
	"fmt"

	"github.com/gogpu/pixelbuf/gpu"
)

// fakeDevice is a test double for gpu.Device that records bind group churn
// and every compute pass, so tests can assert on dispatch behavior without
// real GPU hardware.
type fakeDevice struct {
	nextID uint64

	liveBindGroups      map[gpu.BindGroupID]bool
	bindGroupsCreated   int
	bindGroupsDestroyed int

	passes []*recordedPass
}

// recordedPass captures one compute pass's commands. Each dispatch record
// snapshots the bind groups in effect when it was issued.
type recordedPass struct {
	label      string
	pipeline   gpu.ComputePipelineID
	bindGroups map[uint32]gpu.BindGroupID
	dispatches []dispatchRecord
	ended      bool
}

type dispatchRecord struct {
	x, y, z        uint32
	group0, group1 gpu.BindGroupID
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{liveBindGroups: make(map[gpu.BindGroupID]bool)}
}

// dispatchCount sums dispatches over all recorded passes.
func (d *fakeDevice) dispatchCount() int {
	n := 0
	for _, p := range d.passes {
		n += len(p.dispatches)
	}
	return n
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

func (d *fakeDevice) CreateTexture(uint32, uint32, gpu.TextureFormat, gpu.TextureUsage) (gpu.TextureID, error) {
	return gpu.TextureID(d.id()), nil
}
func (d *fakeDevice) DestroyTexture(gpu.TextureID)       {}
func (d *fakeDevice) WriteTexture(gpu.TextureID, []byte) {}
func (d *fakeDevice) ReadTexture(gpu.TextureID) ([]byte, error) {
	return nil, fmt.Errorf("fake device has no texture data")
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
	id := gpu.BindGroupID(d.id())
	d.liveBindGroups[id] = true
	d.bindGroupsCreated++
	return id, nil
}

func (d *fakeDevice) DestroyBindGroup(id gpu.BindGroupID) {
	delete(d.liveBindGroups, id)
	d.bindGroupsDestroyed++
}

func (d *fakeDevice) BeginComputePass(label string) gpu.ComputePassEncoder {
	p := &recordedPass{label: label, bindGroups: make(map[uint32]gpu.BindGroupID)}
	d.passes = append(d.passes, p)
	return p
}

func (d *fakeDevice) Submit()   {}
func (d *fakeDevice) WaitIdle() {}

func (p *recordedPass) SetPipeline(id gpu.ComputePipelineID) { p.pipeline = id }

func (p *recordedPass) SetBindGroup(index uint32, group gpu.BindGroupID) {
	p.bindGroups[index] = group
}

func (p *recordedPass) Dispatch(x, y, z uint32) {
	p.dispatches = append(p.dispatches, dispatchRecord{
		x: x, y: y, z: z,
		group0: p.bindGroups[0],
		group1: p.bindGroups[1],
	})
}

func (p *recordedPass) End() { p.ended = true }
