package gpu

import (
	"fmt"
	"hash"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/pixelbuf"
)

// CachedPipelineID identifies a pipeline tracked by a PipelineCache.
type CachedPipelineID uint64

// PipelineState is the lifecycle state of a cached pipeline.
type PipelineState uint8

// Pipeline states.
const (
	// PipelineQueued means the pipeline has not been created yet, either
	// because Process has not run or because its shader source is still
	// loading.
	PipelineQueued PipelineState = iota

	// PipelineOk means the pipeline was created and is ready to dispatch.
	PipelineOk

	// PipelineError means creation failed permanently. Err returns the cause.
	PipelineError
)

// String returns the state name.
func (s PipelineState) String() string {
	switch s {
	case PipelineQueued:
		return "queued"
	case PipelineOk:
		return "ok"
	case PipelineError:
		return "error"
	default:
		return "unknown"
	}
}

// PipelineDescriptor describes a compute pipeline to queue.
type PipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Shader names the compute shader, inline or by asset path.
	Shader ShaderRef

	// EntryPoint is the compute shader entry point function name.
	// Defaults to "main" if empty.
	EntryPoint string

	// Layouts are the bind group layouts, in group order.
	Layouts []BindGroupLayoutDesc
}

// PipelineCache creates compute pipelines asynchronously and caches them by
// descriptor hash.
//
// Queue registers a descriptor and returns a stable ID; queueing an identical
// descriptor returns the existing ID. Process, called once per frame with the
// active device, attempts creation for every queued pipeline. A pipeline whose
// shader source cannot be resolved yet simply stays queued and is retried on
// the next Process call; a device-side creation failure is recorded as a
// permanent error.
//
// Thread Safety:
// PipelineCache is safe for concurrent use. It uses RWMutex with double-check
// locking for efficient reads and safe writes.
type PipelineCache struct {
	// mu protects mutable state.
	mu sync.RWMutex

	// loader resolves path-based shader references. May be nil, in which
	// case path references fail permanently.
	loader SourceLoader

	// entries stores pipelines by ID.
	entries map[CachedPipelineID]*pipelineEntry

	// byHash deduplicates identical descriptors.
	byHash map[uint64]CachedPipelineID

	// nextID is the next pipeline ID to hand out.
	nextID CachedPipelineID

	// hits counts descriptor dedupe hits (atomic for lock-free reads).
	hits uint64

	// misses counts new descriptors (atomic for lock-free reads).
	misses uint64
}

type pipelineEntry struct {
	desc     PipelineDescriptor
	state    PipelineState
	err      error
	module   ShaderModuleID
	layouts  []BindGroupLayoutID
	layout   PipelineLayoutID
	pipeline ComputePipelineID
}

// NewPipelineCache creates an empty pipeline cache. The loader resolves
// path-based shader references and may be nil if only inline source is used.
func NewPipelineCache(loader SourceLoader) *PipelineCache {
	return &PipelineCache{
		loader:  loader,
		entries: make(map[CachedPipelineID]*pipelineEntry),
		byHash:  make(map[uint64]CachedPipelineID),
	}
}

// Queue registers a pipeline descriptor and returns its cache ID.
//
// Queueing a descriptor identical to an already-queued one returns the same
// ID without duplicating any GPU work. Creation happens later, in Process.
func (c *PipelineCache) Queue(desc PipelineDescriptor) CachedPipelineID {
	descHash := hashPipelineDescriptor(&desc)

	// Fast path: read lock
	c.mu.RLock()
	if id, ok := c.byHash[descHash]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return id
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byHash[descHash]; ok {
		atomic.AddUint64(&c.hits, 1)
		return id
	}

	c.nextID++
	id := c.nextID
	c.entries[id] = &pipelineEntry{desc: desc, state: PipelineQueued}
	c.byHash[descHash] = id
	atomic.AddUint64(&c.misses, 1)

	return id
}

// Process attempts creation for every queued pipeline.
//
// Call once per frame with the active device. Pipelines whose shader source
// is not resolvable yet stay queued; device-side failures transition to
// PipelineError and are not retried.
func (c *PipelineCache) Process(dev Device) {
	if dev == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.entries {
		if e.state != PipelineQueued {
			continue
		}

		src, ok := c.resolveSource(id, e)
		if !ok {
			continue // still loading, retry next frame
		}

		if err := c.create(dev, e, src); err != nil {
			e.state = PipelineError
			e.err = err
			pixelbuf.Logger().Error("compute pipeline creation failed",
				"pipeline", uint64(id), "label", e.desc.Label, "error", err)
			continue
		}

		e.state = PipelineOk
		pixelbuf.Logger().Debug("compute pipeline ready",
			"pipeline", uint64(id), "label", e.desc.Label)
	}
}

// resolveSource returns the WGSL source for an entry, or ok=false if the
// source is not available yet. A path reference with no loader configured is
// a permanent error, recorded on the entry and logged. The entry leaves the
// queued state on a permanent error, so each failure logs once.
func (c *PipelineCache) resolveSource(id CachedPipelineID, e *pipelineEntry) (string, bool) {
	if src, ok := e.desc.Shader.Source(); ok {
		return src, true
	}
	path, ok := e.desc.Shader.Path()
	if !ok {
		e.state = PipelineError
		e.err = fmt.Errorf("gpu: pipeline %q has no shader source", e.desc.Label)
		pixelbuf.Logger().Error("compute shader source resolution failed",
			"pipeline", uint64(id), "label", e.desc.Label, "error", e.err)
		return "", false
	}
	if c.loader == nil {
		e.state = PipelineError
		e.err = fmt.Errorf("gpu: pipeline %q references shader path %q but no source loader is configured",
			e.desc.Label, path)
		pixelbuf.Logger().Error("compute shader source resolution failed",
			"pipeline", uint64(id), "label", e.desc.Label, "error", e.err)
		return "", false
	}
	src, err := c.loader.ShaderSource(path)
	if err != nil {
		// The source may still be loading or may appear later. Stay queued.
		return "", false
	}
	return src, true
}

// create builds the shader module, layouts and pipeline for an entry.
// Partial resources are released on failure.
func (c *PipelineCache) create(dev Device, e *pipelineEntry, src string) error {
	entry := e.desc.EntryPoint
	if entry == "" {
		entry = "main"
	}

	module, err := dev.CreateShaderModule(src, e.desc.Label)
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	layouts := make([]BindGroupLayoutID, 0, len(e.desc.Layouts))
	for i := range e.desc.Layouts {
		bgl, err := dev.CreateBindGroupLayout(&e.desc.Layouts[i])
		if err != nil {
			for _, l := range layouts {
				dev.DestroyBindGroupLayout(l)
			}
			dev.DestroyShaderModule(module)
			return fmt.Errorf("create bind group layout %d: %w", i, err)
		}
		layouts = append(layouts, bgl)
	}

	layout, err := dev.CreatePipelineLayout(layouts)
	if err != nil {
		for _, l := range layouts {
			dev.DestroyBindGroupLayout(l)
		}
		dev.DestroyShaderModule(module)
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	pipeline, err := dev.CreateComputePipeline(&ComputePipelineDesc{
		Label:        e.desc.Label,
		Layout:       layout,
		ShaderModule: module,
		EntryPoint:   entry,
	})
	if err != nil {
		dev.DestroyPipelineLayout(layout)
		for _, l := range layouts {
			dev.DestroyBindGroupLayout(l)
		}
		dev.DestroyShaderModule(module)
		return fmt.Errorf("create compute pipeline: %w", err)
	}

	e.module = module
	e.layouts = layouts
	e.layout = layout
	e.pipeline = pipeline
	return nil
}

// State returns the lifecycle state of a cached pipeline.
// Unknown IDs report PipelineQueued.
func (c *PipelineCache) State(id CachedPipelineID) PipelineState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[id]; ok {
		return e.state
	}
	return PipelineQueued
}

// Pipeline returns the compute pipeline for a cache ID.
// The second return is false until the pipeline reaches PipelineOk.
func (c *PipelineCache) Pipeline(id CachedPipelineID) (ComputePipelineID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || e.state != PipelineOk {
		return InvalidID, false
	}
	return e.pipeline, true
}

// BindGroupLayout returns the created bind group layout at the given group
// index. The second return is false until the pipeline reaches PipelineOk.
func (c *PipelineCache) BindGroupLayout(id CachedPipelineID, group int) (BindGroupLayoutID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok || e.state != PipelineOk || group < 0 || group >= len(e.layouts) {
		return InvalidID, false
	}
	return e.layouts[group], true
}

// Err returns the creation error for a pipeline in PipelineError state,
// or nil otherwise.
func (c *PipelineCache) Err(id CachedPipelineID) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[id]; ok && e.state == PipelineError {
		return e.err
	}
	return nil
}

// Stats returns the number of descriptor dedupe hits and misses.
// These values are read atomically and may not be perfectly synchronized.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// Size returns the number of tracked pipelines.
func (c *PipelineCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// DestroyAll destroys all created pipeline resources and clears the cache.
// After calling DestroyAll the cache is empty and ready for reuse.
func (c *PipelineCache) DestroyAll(dev Device) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dev != nil {
		for _, e := range c.entries {
			if e.state != PipelineOk {
				continue
			}
			dev.DestroyComputePipeline(e.pipeline)
			dev.DestroyPipelineLayout(e.layout)
			for _, l := range e.layouts {
				dev.DestroyBindGroupLayout(l)
			}
			dev.DestroyShaderModule(e.module)
		}
	}

	c.entries = make(map[CachedPipelineID]*pipelineEntry)
	c.byHash = make(map[uint64]CachedPipelineID)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

// =============================================================================
// Hash Functions
// =============================================================================

// hashPipelineDescriptor computes an FNV-1a hash for a pipeline descriptor.
//
// The hash covers everything that affects the created pipeline: shader
// reference, entry point and bind group layouts. The label is excluded.
func hashPipelineDescriptor(desc *PipelineDescriptor) uint64 {
	h := fnv.New64a()

	src, _ := desc.Shader.Source()
	hashWriteString(h, src)
	path, _ := desc.Shader.Path()
	hashWriteString(h, path)
	hashWriteString(h, desc.EntryPoint)

	hashWriteUint32(h, uint32(len(desc.Layouts)))
	for i := range desc.Layouts {
		layout := &desc.Layouts[i]
		hashWriteUint32(h, uint32(len(layout.Entries)))
		for j := range layout.Entries {
			e := &layout.Entries[j]
			hashWriteUint32(h, e.Binding)
			hashWriteUint32(h, uint32(e.Type))
			hashWriteUint64(h, e.MinBindingSize)
			hashWriteUint32(h, uint32(e.Format))
		}
	}

	return h.Sum64()
}

// hashWriteUint32 writes a uint32 to the hash.
func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	_, _ = h.Write(buf[:])
}

// hashWriteUint64 writes a uint64 to the hash.
func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

// hashWriteString writes a length-prefixed string to the hash.
func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}
