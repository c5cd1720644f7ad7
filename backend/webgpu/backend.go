// Package webgpu provides a GPU backend using the WebGPU API via
// cogentcore/webgpu (wgpu-native on desktop, the browser API under wasm).
package webgpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/backend"
	"github.com/gogpu/pixelbuf/gpu"
)

func init() {
	backend.Register(backend.BackendWebGPU, func() backend.Backend {
		return &Backend{}
	})
}

// Backend owns a headless WebGPU device.
type Backend struct {
	mu       sync.Mutex
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	wgpuDev  *wgpu.Device
	device   *Device
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendWebGPU }

// Init requests an adapter and device. No surface is created; the device is
// used for compute and texture upload only.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		return nil
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return fmt.Errorf("webgpu: create instance: %w", backend.ErrBackendNotAvailable)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return fmt.Errorf("webgpu: request adapter: %w", err)
	}

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "pixelbuf",
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return fmt.Errorf("webgpu: request device: %w", err)
	}

	b.instance = instance
	b.adapter = adapter
	b.wgpuDev = dev
	b.device = NewDevice(dev)

	pixelbuf.Logger().Info("webgpu backend initialized")
	return nil
}

// Close releases the device, adapter and instance.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		b.device.release()
		b.device = nil
	}
	if b.wgpuDev != nil {
		b.wgpuDev.Release()
		b.wgpuDev = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Device returns the backend's device, or nil before Init.
func (b *Backend) Device() gpu.Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return nil
	}
	return b.device
}
