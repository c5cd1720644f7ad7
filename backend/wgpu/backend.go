// Package wgpu provides the native GPU backend using gogpu/wgpu.
package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/backend"
	"github.com/gogpu/pixelbuf/gpu"
)

func init() {
	backend.Register(backend.BackendWgpu, func() backend.Backend {
		return &Backend{}
	})
}

// Backend owns a standalone Vulkan device opened through the wgpu HAL.
type Backend struct {
	mu       sync.Mutex
	instance hal.Instance
	halDev   hal.Device
	device   *Device
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendWgpu }

// Init acquires a GPU adapter and opens a device.
// Discrete and integrated GPUs are preferred over software adapters.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		return nil
	}

	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("wgpu: vulkan backend not available: %w", backend.ErrBackendNotAvailable)
	}

	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("wgpu: no GPU adapters found: %w", backend.ErrBackendNotAvailable)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}

	b.instance = instance
	b.halDev = openDev.Device
	b.device = NewDevice(openDev.Device, openDev.Queue, &limits)

	pixelbuf.Logger().Info("wgpu backend initialized", "adapter", selected.Info.Name)
	return nil
}

// Close releases the device and instance.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		b.device.release()
		b.device = nil
	}
	if b.halDev != nil {
		b.halDev.Destroy()
		b.halDev = nil
	}
	if b.instance != nil {
		b.instance.Destroy()
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
