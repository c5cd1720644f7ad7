package compute

import "errors"

// Registration errors. These indicate static configuration defects and are
// reported at startup, never at runtime.
var (
	// ErrNoShaderSource is returned by Register when the descriptor names
	// no shader, neither inline nor by path.
	ErrNoShaderSource = errors.New("compute: descriptor has no shader source")

	// ErrNoWorkgroups is returned by Register when the descriptor has no
	// workgroup sizing function.
	ErrNoWorkgroups = errors.New("compute: descriptor has no workgroups function")
)
