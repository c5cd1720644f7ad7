package webgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/pixelbuf/gpu"
)

// Device implements gpu.Device over cogentcore/webgpu.
//
// WGSL is handed to the WebGPU implementation unchanged; no SPIR-V
// translation happens on this path.
//
// Thread Safety: Device is safe for concurrent use from multiple goroutines.
type Device struct {
	mu    sync.RWMutex
	dev   *wgpu.Device
	queue *wgpu.Queue

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpu IDs to wgpu objects
	buffers          map[gpu.BufferID]*wgpu.Buffer
	textures         map[gpu.TextureID]textureRecord
	shaderModules    map[gpu.ShaderModuleID]*wgpu.ShaderModule
	computePipelines map[gpu.ComputePipelineID]*wgpu.ComputePipeline
	bindGroupLayouts map[gpu.BindGroupLayoutID]*wgpu.BindGroupLayout
	pipelineLayouts  map[gpu.PipelineLayoutID]*wgpu.PipelineLayout
	bindGroups       map[gpu.BindGroupID]*wgpu.BindGroup

	// Command encoder for current frame
	encoder *wgpu.CommandEncoder
}

type textureRecord struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
	format  gpu.TextureFormat
}

// NewDevice creates a Device wrapping the given wgpu device.
func NewDevice(dev *wgpu.Device) *Device {
	d := &Device{
		dev:              dev,
		queue:            dev.GetQueue(),
		buffers:          make(map[gpu.BufferID]*wgpu.Buffer),
		textures:         make(map[gpu.TextureID]textureRecord),
		shaderModules:    make(map[gpu.ShaderModuleID]*wgpu.ShaderModule),
		computePipelines: make(map[gpu.ComputePipelineID]*wgpu.ComputePipeline),
		bindGroupLayouts: make(map[gpu.BindGroupLayoutID]*wgpu.BindGroupLayout),
		pipelineLayouts:  make(map[gpu.PipelineLayoutID]*wgpu.PipelineLayout),
		bindGroups:       make(map[gpu.BindGroupID]*wgpu.BindGroup),
	}
	d.nextID.Store(1)
	return d
}

func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// === Capabilities ===

// SupportsCompute returns whether compute shaders are supported.
func (d *Device) SupportsCompute() bool { return true }

// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
// These are the WebGPU guaranteed minimums.
func (d *Device) MaxWorkgroupSize() [3]uint32 {
	return [3]uint32{256, 256, 64}
}

// === Shader Compilation ===

// CreateShaderModule creates a shader module from WGSL source.
func (d *Device) CreateShaderModule(wgsl string, label string) (gpu.ShaderModuleID, error) {
	if wgsl == "" {
		return gpu.InvalidID, fmt.Errorf("webgpu: empty shader source")
	}

	module, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create shader module: %w", err)
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
		module.Release()
	}
}

// === Buffer Management ===

// CreateBuffer creates a GPU buffer.
func (d *Device) CreateBuffer(size int, usage gpu.BufferUsage) (gpu.BufferID, error) {
	if size <= 0 {
		return gpu.InvalidID, fmt.Errorf("webgpu: buffer size must be positive")
	}

	buffer, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "",
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create buffer: %w", err)
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
		buffer.Release()
	}
}

// WriteBuffer writes data to a buffer.
func (d *Device) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) {
	d.mu.RLock()
	buffer, ok := d.buffers[id]
	d.mu.RUnlock()

	if ok && len(data) > 0 {
		_ = d.queue.WriteBuffer(buffer, offset, data)
	}
}

// === Texture Management ===

// CreateTexture creates a 2D GPU texture and a default view for binding.
func (d *Device) CreateTexture(width, height uint32, format gpu.TextureFormat, usage gpu.TextureUsage) (gpu.TextureID, error) {
	if width == 0 || height == 0 {
		return gpu.InvalidID, fmt.Errorf("webgpu: texture dimensions must be positive")
	}

	texture, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        convertTextureFormat(format),
		Usage:         convertTextureUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return gpu.InvalidID, fmt.Errorf("webgpu: create texture view: %w", err)
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
		rec.view.Release()
		rec.texture.Release()
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

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  rec.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  rec.width * bytesPerPixel(rec.format),
			RowsPerImage: rec.height,
		},
		&wgpu.Extent3D{Width: rec.width, Height: rec.height, DepthOrArrayLayers: 1},
	)
}

// ReadTexture reads texture contents back to the CPU through a mapped
// staging buffer.
func (d *Device) ReadTexture(id gpu.TextureID) ([]byte, error) {
	d.mu.RLock()
	rec, ok := d.textures[id]
	d.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("webgpu: texture %d not found", id)
	}

	// WebGPU requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := rec.width * bytesPerPixel(rec.format)
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(rec.height)

	staging, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "pixelbuf_readback_staging",
		Size:  stagingSize,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create staging buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := d.dev.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	defer encoder.Release()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  rec.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  alignedBytesPerRow,
				RowsPerImage: rec.height,
			},
		},
		&wgpu.Extent3D{Width: rec.width, Height: rec.height, DepthOrArrayLayers: 1},
	)

	cb, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("webgpu: finish encoder: %w", err)
	}
	d.queue.Submit(cb)
	cb.Release()

	done := false
	err = staging.MapAsync(wgpu.MapModeRead, 0, stagingSize, func(wgpu.BufferMapAsyncStatus) {
		done = true
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	for i := 0; i < 1000 && !done; i++ {
		d.dev.Poll(true, nil)
	}
	defer staging.Unmap()

	mapped := staging.GetMappedRange(0, 0)
	readback := make([]byte, len(mapped))
	copy(readback, mapped)

	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(rec.height)], nil
	}

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
		return gpu.InvalidID, fmt.Errorf("webgpu: nil bind group layout descriptor")
	}

	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		entries[i] = convertBindGroupLayoutEntry(entry)
	}

	layout, err := d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create bind group layout: %w", err)
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
		layout.Release()
	}
}

// CreatePipelineLayout creates a pipeline layout.
func (d *Device) CreatePipelineLayout(layouts []gpu.BindGroupLayoutID) (gpu.PipelineLayoutID, error) {
	d.mu.RLock()
	wgpuLayouts := make([]*wgpu.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		layout, ok := d.bindGroupLayouts[id]
		if !ok {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("webgpu: bind group layout %d not found", id)
		}
		wgpuLayouts[i] = layout
	}
	d.mu.RUnlock()

	layout, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "",
		BindGroupLayouts: wgpuLayouts,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create pipeline layout: %w", err)
	}

	id := gpu.PipelineLayoutID(d.newID())

	d.mu.Lock()
	d.pipelineLayouts[id] = layout
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
		layout.Release()
	}
}

// CreateComputePipeline creates a compute pipeline.
func (d *Device) CreateComputePipeline(desc *gpu.ComputePipelineDesc) (gpu.ComputePipelineID, error) {
	if desc == nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: nil compute pipeline descriptor")
	}

	d.mu.RLock()
	layout, layoutOK := d.pipelineLayouts[desc.Layout]
	module, moduleOK := d.shaderModules[desc.ShaderModule]
	d.mu.RUnlock()

	if !layoutOK {
		return gpu.InvalidID, fmt.Errorf("webgpu: pipeline layout %d not found", desc.Layout)
	}
	if !moduleOK {
		return gpu.InvalidID, fmt.Errorf("webgpu: shader module %d not found", desc.ShaderModule)
	}

	pipeline, err := d.dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create compute pipeline: %w", err)
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
		pipeline.Release()
	}
}

// CreateBindGroup creates a bind group.
//
// A buffer or texture entry whose resource is unknown reports
// gpu.ErrResourceNotReady so preparation can retry once the upload lands.
func (d *Device) CreateBindGroup(layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	d.mu.RLock()
	wgpuLayout, ok := d.bindGroupLayouts[layout]
	if !ok {
		d.mu.RUnlock()
		return gpu.InvalidID, fmt.Errorf("webgpu: bind group layout %d not found", layout)
	}

	wgpuEntries := make([]wgpu.BindGroupEntry, len(entries))
	for i, entry := range entries {
		wgpuEntry, err := d.convertBindGroupEntry(entry)
		if err != nil {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("webgpu: bind group entry %d: %w", entry.Binding, err)
		}
		wgpuEntries[i] = wgpuEntry
	}
	d.mu.RUnlock()

	bindGroup, err := d.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  wgpuLayout,
		Entries: wgpuEntries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("webgpu: create bind group: %w", err)
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
		group.Release()
	}
}

// === Command Recording and Execution ===

// BeginComputePass begins a compute pass on the frame's shared encoder.
func (d *Device) BeginComputePass(label string) gpu.ComputePassEncoder {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.encoder == nil {
		encoder, err := d.dev.CreateCommandEncoder(nil)
		if err != nil {
			// Return a no-op encoder on error
			return &computePassEncoder{device: d}
		}
		d.encoder = encoder
	}

	pass := d.encoder.BeginComputePass(&wgpu.ComputePassDescriptor{
		Label: label,
	})

	return &computePassEncoder{
		device: d,
		pass:   pass,
	}
}

// Submit submits recorded commands to the GPU.
func (d *Device) Submit() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.encoder == nil {
		return
	}

	cb, err := d.encoder.Finish(nil)
	d.encoder.Release()
	d.encoder = nil
	if err != nil {
		return
	}

	d.queue.Submit(cb)
	cb.Release()
}

// WaitIdle waits for all GPU operations to complete.
func (d *Device) WaitIdle() {
	d.Submit()
	d.dev.Poll(true, nil)
}

// release destroys all tracked resources. Called by Backend.Close.
func (d *Device) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, g := range d.bindGroups {
		g.Release()
	}
	for _, p := range d.computePipelines {
		p.Release()
	}
	for _, l := range d.pipelineLayouts {
		l.Release()
	}
	for _, l := range d.bindGroupLayouts {
		l.Release()
	}
	for _, m := range d.shaderModules {
		m.Release()
	}
	for _, rec := range d.textures {
		rec.view.Release()
		rec.texture.Release()
	}
	for _, b := range d.buffers {
		b.Release()
	}

	d.bindGroups = make(map[gpu.BindGroupID]*wgpu.BindGroup)
	d.computePipelines = make(map[gpu.ComputePipelineID]*wgpu.ComputePipeline)
	d.pipelineLayouts = make(map[gpu.PipelineLayoutID]*wgpu.PipelineLayout)
	d.bindGroupLayouts = make(map[gpu.BindGroupLayoutID]*wgpu.BindGroupLayout)
	d.shaderModules = make(map[gpu.ShaderModuleID]*wgpu.ShaderModule)
	d.textures = make(map[gpu.TextureID]textureRecord)
	d.buffers = make(map[gpu.BufferID]*wgpu.Buffer)
}

// === Type Conversion Helpers ===

func bytesPerPixel(format gpu.TextureFormat) uint32 {
	switch format {
	case gpu.TextureFormatRGBA32Float:
		return 16
	default:
		return 4
	}
}

func convertBufferUsage(usage gpu.BufferUsage) wgpu.BufferUsage {
	var result wgpu.BufferUsage

	if usage&gpu.BufferUsageMapRead != 0 {
		result |= wgpu.BufferUsageMapRead
	}
	if usage&gpu.BufferUsageMapWrite != 0 {
		result |= wgpu.BufferUsageMapWrite
	}
	if usage&gpu.BufferUsageCopySrc != 0 {
		result |= wgpu.BufferUsageCopySrc
	}
	if usage&gpu.BufferUsageCopyDst != 0 {
		result |= wgpu.BufferUsageCopyDst
	}
	if usage&gpu.BufferUsageUniform != 0 {
		result |= wgpu.BufferUsageUniform
	}
	if usage&gpu.BufferUsageStorage != 0 {
		result |= wgpu.BufferUsageStorage
	}

	return result
}

func convertTextureFormat(format gpu.TextureFormat) wgpu.TextureFormat {
	switch format {
	case gpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSRGB:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case gpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gpu.TextureFormatRGBA32Float:
		return wgpu.TextureFormatRGBA32Float
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

func convertTextureUsage(usage gpu.TextureUsage) wgpu.TextureUsage {
	var result wgpu.TextureUsage

	if usage&gpu.TextureUsageCopySrc != 0 {
		result |= wgpu.TextureUsageCopySrc
	}
	if usage&gpu.TextureUsageCopyDst != 0 {
		result |= wgpu.TextureUsageCopyDst
	}
	if usage&gpu.TextureUsageTextureBinding != 0 {
		result |= wgpu.TextureUsageTextureBinding
	}
	if usage&gpu.TextureUsageStorageBinding != 0 {
		result |= wgpu.TextureUsageStorageBinding
	}
	if usage&gpu.TextureUsageRenderAttachment != 0 {
		result |= wgpu.TextureUsageRenderAttachment
	}

	return result
}

func convertBindGroupLayoutEntry(entry gpu.BindGroupLayoutEntry) wgpu.BindGroupLayoutEntry {
	result := wgpu.BindGroupLayoutEntry{
		Binding:    entry.Binding,
		Visibility: wgpu.ShaderStageCompute,
	}

	switch entry.Type {
	case gpu.BindingTypeUniformBuffer:
		result.Buffer = wgpu.BufferBindingLayout{
			Type:             wgpu.BufferBindingTypeUniform,
			MinBindingSize:   entry.MinBindingSize,
			HasDynamicOffset: false,
		}
	case gpu.BindingTypeStorageBuffer:
		result.Buffer = wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeReadOnlyStorageBuffer:
		result.Buffer = wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeFilteringSampler:
		result.Sampler = wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		}
	case gpu.BindingTypeNonFilteringSampler:
		result.Sampler = wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeNonFiltering,
		}
	case gpu.BindingTypeComparisonSampler:
		result.Sampler = wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeComparison,
		}
	case gpu.BindingTypeSampledTexture:
		result.Texture = wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	case gpu.BindingTypeStorageTexture:
		result.StorageTexture = wgpu.StorageTextureBindingLayout{
			Access:        wgpu.StorageTextureAccessReadWrite,
			Format:        convertTextureFormat(entry.Format),
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	}

	return result
}

// convertBindGroupEntry converts gpu.BindGroupEntry to wgpu.BindGroupEntry.
// Must be called with mu.RLock held.
func (d *Device) convertBindGroupEntry(entry gpu.BindGroupEntry) (wgpu.BindGroupEntry, error) {
	result := wgpu.BindGroupEntry{
		Binding: entry.Binding,
	}

	switch {
	case entry.Buffer != gpu.InvalidID:
		buffer, ok := d.buffers[entry.Buffer]
		if !ok {
			return result, fmt.Errorf("buffer %d: %w", entry.Buffer, gpu.ErrResourceNotReady)
		}
		result.Buffer = buffer
		result.Offset = entry.Offset
		if entry.Size == 0 {
			result.Size = wgpu.WholeSize
		} else {
			result.Size = entry.Size
		}
	case entry.Texture != gpu.InvalidID:
		rec, ok := d.textures[entry.Texture]
		if !ok {
			return result, fmt.Errorf("texture %d: %w", entry.Texture, gpu.ErrResourceNotReady)
		}
		result.TextureView = rec.view
	default:
		return result, fmt.Errorf("entry binds no resource")
	}

	return result, nil
}

// === Compute Pass Encoder ===

// computePassEncoder implements gpu.ComputePassEncoder.
type computePassEncoder struct {
	device *Device
	pass   *wgpu.ComputePassEncoder
}

// SetPipeline sets the active compute pipeline.
func (e *computePassEncoder) SetPipeline(pipeline gpu.ComputePipelineID) {
	if e.pass == nil {
		return
	}

	e.device.mu.RLock()
	p, ok := e.device.computePipelines[pipeline]
	e.device.mu.RUnlock()

	if ok {
		e.pass.SetPipeline(p)
	}
}

// SetBindGroup sets a bind group at the specified index.
func (e *computePassEncoder) SetBindGroup(index uint32, group gpu.BindGroupID) {
	if e.pass == nil {
		return
	}

	e.device.mu.RLock()
	g, ok := e.device.bindGroups[group]
	e.device.mu.RUnlock()

	if ok {
		e.pass.SetBindGroup(index, g, nil)
	}
}

// Dispatch dispatches compute workgroups.
func (e *computePassEncoder) Dispatch(x, y, z uint32) {
	if e.pass == nil {
		return
	}
	e.pass.DispatchWorkgroups(x, y, z)
}

// End finishes the compute pass.
func (e *computePassEncoder) End() {
	if e.pass == nil {
		return
	}
	_ = e.pass.End()
	e.pass.Release()
}

// Interface guard.
var _ gpu.Device = (*Device)(nil)
