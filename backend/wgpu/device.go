package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pixelbuf/gpu"
)

// Device implements gpu.Device using gogpu/wgpu/hal directly.
// It bridges the package gpu abstraction to the HAL layer.
//
// Thread Safety: Device is safe for concurrent use from multiple goroutines.
// All resource operations are protected by a mutex.
type Device struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	limits       gputypes.Limits
	maxWorkgroup [3]uint32

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpu IDs to hal resources
	buffers          map[gpu.BufferID]hal.Buffer
	textures         map[gpu.TextureID]textureRecord
	shaderModules    map[gpu.ShaderModuleID]hal.ShaderModule
	computePipelines map[gpu.ComputePipelineID]hal.ComputePipeline
	bindGroupLayouts map[gpu.BindGroupLayoutID]hal.BindGroupLayout
	pipelineLayouts  map[gpu.PipelineLayoutID]hal.PipelineLayout
	bindGroups       map[gpu.BindGroupID]hal.BindGroup

	// Command encoder for current frame
	encoder    hal.CommandEncoder
	hasEncoder bool
}

// textureRecord tracks a texture together with the metadata needed for
// uploads, readback and bind group creation.
type textureRecord struct {
	texture hal.Texture
	view    hal.TextureView
	width   uint32
	height  uint32
	format  gpu.TextureFormat
}

// NewDevice creates a Device wrapping the given hal device and queue.
// If limits is nil, default limits are used.
func NewDevice(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *Device {
	var lim gputypes.Limits
	if limits != nil {
		lim = *limits
	} else {
		lim = gputypes.DefaultLimits()
	}

	d := &Device{
		device: device,
		queue:  queue,
		limits: lim,
		maxWorkgroup: [3]uint32{
			lim.MaxComputeWorkgroupSizeX,
			lim.MaxComputeWorkgroupSizeY,
			lim.MaxComputeWorkgroupSizeZ,
		},
		buffers:          make(map[gpu.BufferID]hal.Buffer),
		textures:         make(map[gpu.TextureID]textureRecord),
		shaderModules:    make(map[gpu.ShaderModuleID]hal.ShaderModule),
		computePipelines: make(map[gpu.ComputePipelineID]hal.ComputePipeline),
		bindGroupLayouts: make(map[gpu.BindGroupLayoutID]hal.BindGroupLayout),
		pipelineLayouts:  make(map[gpu.PipelineLayoutID]hal.PipelineLayout),
		bindGroups:       make(map[gpu.BindGroupID]hal.BindGroup),
	}

	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)

	return d
}

// newID generates a unique resource ID.
func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// === Capabilities ===

// SupportsCompute returns whether compute shaders are supported.
func (d *Device) SupportsCompute() bool { return true }

// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
func (d *Device) MaxWorkgroupSize() [3]uint32 { return d.maxWorkgroup }

// === Shader Compilation ===

// CreateShaderModule compiles WGSL to SPIR-V via naga and creates a module.
func (d *Device) CreateShaderModule(wgsl string, label string) (gpu.ShaderModuleID, error) {
	if wgsl == "" {
		return gpu.InvalidID, fmt.Errorf("wgpu: empty shader source")
	}

	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create shader module: %w", err)
	}

	id := gpu.ShaderModuleID(d.newID())

	d.mu.Lock()
	d.shaderModules[id] = module
	d.mu.Unlock()

	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(id gpu.ShaderModuleID) {
	d.mu.Lock()
	module, ok := d.shaderModules[id]
	if ok {
		delete(d.shaderModules, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyShaderModule(module)
	}
}

// === Buffer Management ===

// CreateBuffer creates a GPU buffer.
func (d *Device) CreateBuffer(size int, usage gpu.BufferUsage) (gpu.BufferID, error) {
	if size <= 0 {
		return gpu.InvalidID, fmt.Errorf("wgpu: buffer size must be positive")
	}

	buffer, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "",
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create buffer: %w", err)
	}

	id := gpu.BufferID(d.newID())

	d.mu.Lock()
	d.buffers[id] = buffer
	d.mu.Unlock()

	return id, nil
}

// DestroyBuffer releases a GPU buffer.
func (d *Device) DestroyBuffer(id gpu.BufferID) {
	d.mu.Lock()
	buffer, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBuffer(buffer)
	}
}

// WriteBuffer writes data to a buffer.
func (d *Device) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) {
	d.mu.RLock()
	buffer, ok := d.buffers[id]
	d.mu.RUnlock()

	if ok && len(data) > 0 {
		d.queue.WriteBuffer(buffer, offset, data)
	}
}

// === Texture Management ===

// CreateTexture creates a 2D GPU texture and a default view for binding.
func (d *Device) CreateTexture(width, height uint32, format gpu.TextureFormat, usage gpu.TextureUsage) (gpu.TextureID, error) {
	if width == 0 || height == 0 {
		return gpu.InvalidID, fmt.Errorf("wgpu: texture dimensions must be positive")
	}

	texture, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: "",
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        convertTextureFormat(format),
		Usage:         convertTextureUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create texture: %w", err)
	}

	view, err := d.device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label: "",
	})
	if err != nil {
		d.device.DestroyTexture(texture)
		return gpu.InvalidID, fmt.Errorf("wgpu: create texture view: %w", err)
	}

	id := gpu.TextureID(d.newID())

	d.mu.Lock()
	d.textures[id] = textureRecord{
		texture: texture,
		view:    view,
		width:   width,
		height:  height,
		format:  format,
	}
	d.mu.Unlock()

	return id, nil
}

// DestroyTexture releases a GPU texture.
func (d *Device) DestroyTexture(id gpu.TextureID) {
	d.mu.Lock()
	rec, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyTextureView(rec.view)
		d.device.DestroyTexture(rec.texture)
	}
}

// WriteTexture writes data to a texture.
func (d *Device) WriteTexture(id gpu.TextureID, data []byte) {
	d.mu.RLock()
	rec, ok := d.textures[id]
	d.mu.RUnlock()

	if !ok || len(data) == 0 {
		return
	}

	dst := &hal.ImageCopyTexture{
		Texture:  rec.texture,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   gputypes.TextureAspectAll,
	}

	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  rec.width * bytesPerPixel(rec.format),
		RowsPerImage: rec.height,
	}

	size := &hal.Extent3D{
		Width:              rec.width,
		Height:             rec.height,
		DepthOrArrayLayers: 1,
	}

	d.queue.WriteTexture(dst, data, layout, size)
}

// ReadTexture reads texture contents back to the CPU.
// This submits a copy to a staging buffer and blocks on a fence.
func (d *Device) ReadTexture(id gpu.TextureID) ([]byte, error) {
	d.mu.RLock()
	rec, ok := d.textures[id]
	d.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("wgpu: texture %d not found", id)
	}

	// WebGPU (and DX12) requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := rec.width * bytesPerPixel(rec.format)
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(rec.height)

	stagingBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixelbuf_readback_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(stagingBuf)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pixelbuf_readback",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("texture-readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	// Storage textures sit in GENERAL layout; transition for the copy and
	// back so the next compute pass sees the expected layout.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: rec.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageStorageBinding,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(rec.texture, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: rec.height},
		TextureBase:  hal.ImageCopyTexture{Texture: rec.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: rec.width, Height: rec.height, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: rec.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageStorageBinding,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer cmdBuf.Destroy()

	fence, err := d.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("wgpu: submit: %w", err)
	}
	if _, err := d.device.Wait(fence, 1, 5*time.Second); err != nil {
		return nil, fmt.Errorf("wgpu: wait for fence: %w", err)
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(rec.height)], nil
	}

	// Strip per-row padding from the aligned readback data.
	tight := make([]byte, uint64(bytesPerRow)*uint64(rec.height))
	for row := uint32(0); row < rec.height; row++ {
		srcOff := uint64(row) * uint64(alignedBytesPerRow)
		dstOff := uint64(row) * uint64(bytesPerRow)
		copy(tight[dstOff:dstOff+uint64(bytesPerRow)], readback[srcOff:srcOff+uint64(bytesPerRow)])
	}
	return tight, nil
}

// === Pipeline Management ===

// CreateBindGroupLayout creates a bind group layout.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDesc) (gpu.BindGroupLayoutID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: nil bind group layout descriptor")
	}

	halEntries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		halEntries[i] = convertBindGroupLayoutEntry(entry)
	}

	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: halEntries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}

	id := gpu.BindGroupLayoutID(d.newID())

	d.mu.Lock()
	d.bindGroupLayouts[id] = layout
	d.mu.Unlock()

	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (d *Device) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) {
	d.mu.Lock()
	layout, ok := d.bindGroupLayouts[id]
	if ok {
		delete(d.bindGroupLayouts, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBindGroupLayout(layout)
	}
}

// CreatePipelineLayout creates a pipeline layout.
func (d *Device) CreatePipelineLayout(layouts []gpu.BindGroupLayoutID) (gpu.PipelineLayoutID, error) {
	d.mu.RLock()
	halLayouts := make([]hal.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		layout, ok := d.bindGroupLayouts[id]
		if !ok {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("wgpu: bind group layout %d not found", id)
		}
		halLayouts[i] = layout
	}
	d.mu.RUnlock()

	pipelineLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "",
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	id := gpu.PipelineLayoutID(d.newID())

	d.mu.Lock()
	d.pipelineLayouts[id] = pipelineLayout
	d.mu.Unlock()

	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(id gpu.PipelineLayoutID) {
	d.mu.Lock()
	layout, ok := d.pipelineLayouts[id]
	if ok {
		delete(d.pipelineLayouts, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyPipelineLayout(layout)
	}
}

// CreateComputePipeline creates a compute pipeline.
func (d *Device) CreateComputePipeline(desc *gpu.ComputePipelineDesc) (gpu.ComputePipelineID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: nil compute pipeline descriptor")
	}

	d.mu.RLock()
	pipelineLayout, layoutOK := d.pipelineLayouts[desc.Layout]
	shaderModule, moduleOK := d.shaderModules[desc.ShaderModule]
	d.mu.RUnlock()

	if !layoutOK {
		return gpu.InvalidID, fmt.Errorf("wgpu: pipeline layout %d not found", desc.Layout)
	}
	if !moduleOK {
		return gpu.InvalidID, fmt.Errorf("wgpu: shader module %d not found", desc.ShaderModule)
	}

	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     shaderModule,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}

	id := gpu.ComputePipelineID(d.newID())

	d.mu.Lock()
	d.computePipelines[id] = pipeline
	d.mu.Unlock()

	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (d *Device) DestroyComputePipeline(id gpu.ComputePipelineID) {
	d.mu.Lock()
	pipeline, ok := d.computePipelines[id]
	if ok {
		delete(d.computePipelines, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyComputePipeline(pipeline)
	}
}

// CreateBindGroup creates a bind group.
//
// A buffer or texture entry whose resource is unknown reports
// gpu.ErrResourceNotReady so preparation can retry once the upload lands.
func (d *Device) CreateBindGroup(layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	d.mu.RLock()
	halLayout, ok := d.bindGroupLayouts[layout]
	if !ok {
		d.mu.RUnlock()
		return gpu.InvalidID, fmt.Errorf("wgpu: bind group layout %d not found", layout)
	}

	halEntries := make([]gputypes.BindGroupEntry, len(entries))
	for i, entry := range entries {
		halEntry, err := d.convertBindGroupEntry(entry)
		if err != nil {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("wgpu: bind group entry %d: %w", entry.Binding, err)
		}
		halEntries[i] = halEntry
	}
	d.mu.RUnlock()

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "",
		Layout:  halLayout,
		Entries: halEntries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create bind group: %w", err)
	}

	id := gpu.BindGroupID(d.newID())

	d.mu.Lock()
	d.bindGroups[id] = bindGroup
	d.mu.Unlock()

	return id, nil
}

// DestroyBindGroup releases a bind group.
func (d *Device) DestroyBindGroup(id gpu.BindGroupID) {
	d.mu.Lock()
	group, ok := d.bindGroups[id]
	if ok {
		delete(d.bindGroups, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBindGroup(group)
	}
}

// === Command Recording and Execution ===

// BeginComputePass begins a compute pass on the frame's shared encoder.
func (d *Device) BeginComputePass(label string) gpu.ComputePassEncoder {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Create a new encoder if we don't have one
	if !d.hasEncoder {
		encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
			Label: "pixelbuf_frame",
		})
		if err != nil {
			// Return a no-op encoder on error
			return &computePassEncoder{device: d}
		}

		if err := encoder.BeginEncoding("pixelbuf-frame"); err != nil {
			return &computePassEncoder{device: d}
		}

		d.encoder = encoder
		d.hasEncoder = true
	}

	halPass := d.encoder.BeginComputePass(&hal.ComputePassDescriptor{
		Label: label,
	})

	return &computePassEncoder{
		device: d,
		pass:   halPass,
	}
}

// Submit submits recorded commands to the GPU.
func (d *Device) Submit() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.hasEncoder || d.encoder == nil {
		return
	}

	cmdBuffer, err := d.encoder.EndEncoding()
	if err != nil {
		d.encoder = nil
		d.hasEncoder = false
		return
	}

	// Submit without fence (fire and forget)
	_ = d.queue.Submit([]hal.CommandBuffer{cmdBuffer}, nil, 0)

	cmdBuffer.Destroy()
	d.encoder = nil
	d.hasEncoder = false
}

// WaitIdle waits for all GPU operations to complete.
func (d *Device) WaitIdle() {
	// Submit any pending work first
	d.Submit()

	fence, err := d.device.CreateFence()
	if err != nil {
		return
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit(nil, fence, 1); err != nil {
		return
	}

	_, _ = d.device.Wait(fence, 1, 5*time.Second)
}

// release destroys all tracked resources. Called by Backend.Close.
func (d *Device) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, g := range d.bindGroups {
		d.device.DestroyBindGroup(g)
	}
	for _, p := range d.computePipelines {
		d.device.DestroyComputePipeline(p)
	}
	for _, l := range d.pipelineLayouts {
		d.device.DestroyPipelineLayout(l)
	}
	for _, l := range d.bindGroupLayouts {
		d.device.DestroyBindGroupLayout(l)
	}
	for _, m := range d.shaderModules {
		d.device.DestroyShaderModule(m)
	}
	for _, rec := range d.textures {
		d.device.DestroyTextureView(rec.view)
		d.device.DestroyTexture(rec.texture)
	}
	for _, b := range d.buffers {
		d.device.DestroyBuffer(b)
	}

	d.bindGroups = make(map[gpu.BindGroupID]hal.BindGroup)
	d.computePipelines = make(map[gpu.ComputePipelineID]hal.ComputePipeline)
	d.pipelineLayouts = make(map[gpu.PipelineLayoutID]hal.PipelineLayout)
	d.bindGroupLayouts = make(map[gpu.BindGroupLayoutID]hal.BindGroupLayout)
	d.shaderModules = make(map[gpu.ShaderModuleID]hal.ShaderModule)
	d.textures = make(map[gpu.TextureID]textureRecord)
	d.buffers = make(map[gpu.BufferID]hal.Buffer)
}

// === Type Conversion Helpers ===

// bytesPerPixel returns the pixel stride of a texture format.
func bytesPerPixel(format gpu.TextureFormat) uint32 {
	switch format {
	case gpu.TextureFormatRGBA32Float:
		return 16
	default:
		return 4
	}
}

// convertBufferUsage converts gpu.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage gpu.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage

	if usage&gpu.BufferUsageMapRead != 0 {
		result |= gputypes.BufferUsageMapRead
	}
	if usage&gpu.BufferUsageMapWrite != 0 {
		result |= gputypes.BufferUsageMapWrite
	}
	if usage&gpu.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpu.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpu.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&gpu.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}

	return result
}

// convertTextureFormat converts gpu.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format gpu.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case gpu.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case gpu.TextureFormatRGBA32Float:
		return gputypes.TextureFormatRGBA32Float
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// convertTextureUsage converts gpu.TextureUsage to gputypes.TextureUsage.
func convertTextureUsage(usage gpu.TextureUsage) gputypes.TextureUsage {
	var result gputypes.TextureUsage

	if usage&gpu.TextureUsageCopySrc != 0 {
		result |= gputypes.TextureUsageCopySrc
	}
	if usage&gpu.TextureUsageCopyDst != 0 {
		result |= gputypes.TextureUsageCopyDst
	}
	if usage&gpu.TextureUsageTextureBinding != 0 {
		result |= gputypes.TextureUsageTextureBinding
	}
	if usage&gpu.TextureUsageStorageBinding != 0 {
		result |= gputypes.TextureUsageStorageBinding
	}
	if usage&gpu.TextureUsageRenderAttachment != 0 {
		result |= gputypes.TextureUsageRenderAttachment
	}

	return result
}

// convertBindGroupLayoutEntry converts gpu.BindGroupLayoutEntry to gputypes.BindGroupLayoutEntry.
func convertBindGroupLayoutEntry(entry gpu.BindGroupLayoutEntry) gputypes.BindGroupLayoutEntry {
	result := gputypes.BindGroupLayoutEntry{
		Binding:    entry.Binding,
		Visibility: gputypes.ShaderStageCompute,
	}

	switch entry.Type {
	case gpu.BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeReadOnlyStorageBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeStorageTexture:
		result.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        gputypes.StorageTextureAccessReadWrite,
			Format:        convertTextureFormat(entry.Format),
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	}

	return result
}

// convertBindGroupEntry converts gpu.BindGroupEntry to gputypes.BindGroupEntry.
// Must be called with mu.RLock held.
func (d *Device) convertBindGroupEntry(entry gpu.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	result := gputypes.BindGroupEntry{
		Binding: entry.Binding,
	}

	// Determine resource type based on which ID is non-zero
	switch {
	case entry.Buffer != gpu.InvalidID:
		buffer, ok := d.buffers[entry.Buffer]
		if !ok {
			return result, fmt.Errorf("buffer %d: %w", entry.Buffer, gpu.ErrResourceNotReady)
		}
		result.Resource = gputypes.BufferBinding{
			Buffer: buffer.NativeHandle(),
			Offset: entry.Offset,
			Size:   entry.Size,
		}
	case entry.Texture != gpu.InvalidID:
		rec, ok := d.textures[entry.Texture]
		if !ok {
			return result, fmt.Errorf("texture %d: %w", entry.Texture, gpu.ErrResourceNotReady)
		}
		result.Resource = gputypes.TextureViewBinding{
			TextureView: rec.view.NativeHandle(),
		}
	default:
		return result, fmt.Errorf("entry binds no resource")
	}

	return result, nil
}

// === Compute Pass Encoder ===

// computePassEncoder implements gpu.ComputePassEncoder over the HAL pass.
type computePassEncoder struct {
	device *Device
	pass   hal.ComputePassEncoder
}

// SetPipeline sets the active compute pipeline.
func (e *computePassEncoder) SetPipeline(pipeline gpu.ComputePipelineID) {
	if e.pass == nil {
		return
	}

	e.device.mu.RLock()
	halPipeline, ok := e.device.computePipelines[pipeline]
	e.device.mu.RUnlock()

	if ok {
		e.pass.SetPipeline(halPipeline)
	}
}

// SetBindGroup sets a bind group at the specified index.
func (e *computePassEncoder) SetBindGroup(index uint32, group gpu.BindGroupID) {
	if e.pass == nil {
		return
	}

	e.device.mu.RLock()
	halGroup, ok := e.device.bindGroups[group]
	e.device.mu.RUnlock()

	if ok {
		e.pass.SetBindGroup(index, halGroup, nil)
	}
}

// Dispatch dispatches compute workgroups.
func (e *computePassEncoder) Dispatch(x, y, z uint32) {
	if e.pass == nil {
		return
	}
	e.pass.Dispatch(x, y, z)
}

// End finishes the compute pass.
func (e *computePassEncoder) End() {
	if e.pass == nil {
		return
	}
	e.pass.End()
}

// Interface guard.
var _ gpu.Device = (*Device)(nil)
