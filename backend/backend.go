package backend

import (
	"errors"

	"github.com/gogpu/pixelbuf/gpu"
)

// Backend names.
const (
	// BackendWgpu is the native backend over the gogpu/wgpu HAL.
	BackendWgpu = "wgpu"

	// BackendWebGPU is the backend over the WebGPU API (browser or Dawn).
	BackendWebGPU = "webgpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend owns a GPU device for the frame pipeline.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "wgpu", "webgpu").
	Name() string

	// Init initializes the backend and acquires a device.
	// This must be called before Device.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the backend's device.
	// Returns nil before Init or after Close.
	Device() gpu.Device
}
