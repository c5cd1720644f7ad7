// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"sync"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/backend"
	"github.com/gogpu/pixelbuf/gpu"
)

// Engine setup errors.
var (
	// ErrEngineFinalized is returned when stages or graph nodes are added
	// after Finalize.
	ErrEngineFinalized = errors.New("render: engine already finalized")

	// ErrEngineNotFinalized is returned by RunFrame before Finalize.
	ErrEngineNotFinalized = errors.New("render: engine not finalized")
)

// FrameContext is the view of the world a stage function receives.
//
// Stage functions run single-threaded within a frame, so no locking is
// needed to consume the context. The ImageEvents slice is drained from the
// image store exactly once per frame by the engine and shared by all stages.
type FrameContext struct {
	// Device is the frame's GPU device.
	Device gpu.Device

	// Images is the simulation-side image asset store.
	Images *asset.Store[*pixelbuf.Image]

	// GpuImages is the render-side texture table, current as of this
	// frame's upload step.
	GpuImages *GpuImages

	// Pipelines is the shared compute pipeline cache.
	Pipelines *gpu.PipelineCache

	// ImageEvents holds the image store events drained for this frame,
	// in mutation order.
	ImageEvents []asset.Event
}

// StageFunc is a function scheduled into one of the engine's frame stages.
type StageFunc func(ctx *FrameContext)

// EngineOption configures an Engine during creation.
type EngineOption func(*engineOptions)

type engineOptions struct {
	device gpu.Device
	handle DeviceHandle
	loader gpu.SourceLoader
	images *asset.Store[*pixelbuf.Image]
}

// WithDevice supplies the GPU device the engine should use. When omitted,
// the engine initializes the best available registered backend.
func WithDevice(dev gpu.Device) EngineOption {
	return func(o *engineOptions) {
		o.device = dev
	}
}

// WithDeviceHandle supplies the host application's GPU context. Host
// integration layers reach it back through Engine.Host. A handle whose
// Device is nil (NullDeviceHandle included) is accepted; the engine then
// runs on the device it was given or on its own backend.
func WithDeviceHandle(h DeviceHandle) EngineOption {
	return func(o *engineOptions) {
		o.handle = h
	}
}

// WithSourceLoader supplies the loader that resolves path-based shader
// references. Typically an *asset.Server. When omitted, only inline shader
// source can be used.
func WithSourceLoader(loader gpu.SourceLoader) EngineOption {
	return func(o *engineOptions) {
		o.loader = loader
	}
}

// WithImages supplies an existing image asset store. When omitted, the
// engine creates its own, reachable via Images().
func WithImages(store *asset.Store[*pixelbuf.Image]) EngineOption {
	return func(o *engineOptions) {
		o.images = store
	}
}

// Engine owns the per-frame pipeline: the stage schedules, the render
// graph, the image texture table and the pipeline cache.
//
// Setup happens once: register stage functions and graph nodes, then call
// Finalize. After Finalize the schedules are frozen and RunFrame may be
// called once per frame. Engine methods are safe for concurrent use, but
// RunFrame itself must not be called concurrently with itself.
type Engine struct {
	mu        sync.Mutex
	finalized bool

	extract []StageFunc
	prepare []StageFunc
	queue   []StageFunc

	graph     *Graph
	images    *asset.Store[*pixelbuf.Image]
	gpuImages *GpuImages
	pipelines *gpu.PipelineCache

	device gpu.Device
	host   DeviceHandle

	// backend is non-nil only when the engine initialized it itself and
	// therefore owns its shutdown.
	backend backend.Backend
}

// NewEngine creates an engine.
//
// Without WithDevice, the best available registered backend is initialized
// and owned by the engine; import a backend package for its side effects to
// make it available:
//
//	import _ "github.com/gogpu/pixelbuf/backend/wgpu"
func NewEngine(opts ...EngineOption) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		graph:     NewGraph(),
		gpuImages: NewGpuImages(),
		pipelines: gpu.NewPipelineCache(o.loader),
		images:    o.images,
		device:    o.device,
		host:      o.handle,
	}
	if e.images == nil {
		e.images = asset.NewStore[*pixelbuf.Image]()
	}
	if e.host == nil {
		e.host = NullDeviceHandle{}
	} else if e.host.Device() != nil {
		pixelbuf.Logger().Info("render engine attached to host device",
			"surface_format", e.host.SurfaceFormat())
	}

	if e.device == nil {
		b, err := backend.InitDefault()
		if err != nil {
			return nil, err
		}
		e.backend = b
		e.device = b.Device()
		pixelbuf.Logger().Info("render engine using backend", "backend", b.Name())
	}

	return e, nil
}

// Device returns the engine's GPU device.
func (e *Engine) Device() gpu.Device {
	return e.device
}

// Host returns the host application's GPU context. NullDeviceHandle when
// no handle was supplied.
func (e *Engine) Host() DeviceHandle {
	return e.host
}

// Images returns the image asset store.
func (e *Engine) Images() *asset.Store[*pixelbuf.Image] {
	return e.images
}

// GpuImages returns the render-side image texture table.
func (e *Engine) GpuImages() *GpuImages {
	return e.gpuImages
}

// Pipelines returns the shared compute pipeline cache.
func (e *Engine) Pipelines() *gpu.PipelineCache {
	return e.pipelines
}

// Graph returns the render graph for node and edge registration.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// AddExtract schedules fn into the Extract stage.
func (e *Engine) AddExtract(fn StageFunc) error {
	return e.addStage(&e.extract, fn)
}

// AddPrepare schedules fn into the Prepare stage. The engine's image upload
// step always runs before scheduled prepare functions.
func (e *Engine) AddPrepare(fn StageFunc) error {
	return e.addStage(&e.prepare, fn)
}

// AddQueue schedules fn into the Queue stage.
func (e *Engine) AddQueue(fn StageFunc) error {
	return e.addStage(&e.queue, fn)
}

func (e *Engine) addStage(stage *[]StageFunc, fn StageFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return ErrEngineFinalized
	}
	*stage = append(*stage, fn)
	return nil
}

// Finalize freezes the engine's schedules and validates the render graph.
// Adding stages or graph nodes after Finalize fails with ErrEngineFinalized.
func (e *Engine) Finalize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finalized {
		return ErrEngineFinalized
	}
	if err := e.graph.validate(); err != nil {
		return err
	}
	e.finalized = true
	return nil
}

// RunFrame executes one frame: Extract, Prepare, Queue, then the render
// graph, followed by a single submit. Must be called after Finalize.
func (e *Engine) RunFrame() error {
	e.mu.Lock()
	if !e.finalized {
		e.mu.Unlock()
		return ErrEngineNotFinalized
	}
	e.mu.Unlock()

	ctx := &FrameContext{
		Device:      e.device,
		Images:      e.images,
		GpuImages:   e.gpuImages,
		Pipelines:   e.pipelines,
		ImageEvents: e.images.DrainEvents(),
	}

	for _, fn := range e.extract {
		fn(ctx)
	}

	// Prepare begins with the engine-owned steps: textures are current
	// before any scheduled prepare function looks at GpuImages, and the
	// pipeline cache gets its per-frame creation attempt.
	e.gpuImages.upload(e.device, e.images, ctx.ImageEvents)
	e.pipelines.Process(e.device)

	for _, fn := range e.prepare {
		fn(ctx)
	}
	for _, fn := range e.queue {
		fn(ctx)
	}

	e.graph.Update()
	err := e.graph.Run(&EncoderContext{Device: e.device})
	if e.device != nil {
		e.device.Submit()
	}
	return err
}

// Close releases engine-owned GPU resources. The pipeline cache and image
// textures are always destroyed; the backend is closed only if the engine
// initialized it itself.
func (e *Engine) Close() {
	e.pipelines.DestroyAll(e.device)
	e.gpuImages.destroyAll(e.device)
	if e.backend != nil {
		e.backend.Close()
		e.backend = nil
		e.device = nil
	}
}
