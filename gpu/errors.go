package gpu

import (
	"errors"
	"fmt"
)

// Device and bind group errors.
var (
	// ErrResourceNotReady indicates a binding resource is not yet available
	// on the GPU. The condition is transient; callers retry on a later frame.
	ErrResourceNotReady = errors.New("gpu: resource not ready")

	// ErrNoCompute is returned by backends that cannot run compute shaders.
	ErrNoCompute = errors.New("gpu: compute shaders not supported")

	// ErrNilDevice is returned when an operation requires a device and none
	// was provided.
	ErrNilDevice = errors.New("gpu: device is nil")
)

// InvalidSamplerTypeError indicates a bind group entry supplied a sampler
// whose type contradicts the layout. This mismatch cannot heal on its own,
// so preparation drops the offending instance instead of retrying it.
type InvalidSamplerTypeError struct {
	// Binding is the binding index of the offending entry.
	Binding uint32

	// Got is the sampler type that was supplied.
	Got BindingType

	// Want is the sampler type the layout requires.
	Want BindingType
}

func (e *InvalidSamplerTypeError) Error() string {
	return fmt.Sprintf("gpu: binding %d: invalid sampler type %s, layout requires %s",
		e.Binding, e.Got, e.Want)
}

// IsTransientBindError reports whether a bind group creation error should be
// retried on a later frame. A missing resource is expected to appear once its
// upload completes; everything else is treated as permanent.
func IsTransientBindError(err error) bool {
	return errors.Is(err, ErrResourceNotReady)
}
