// Package backend provides the GPU backend registry.
//
// Backend packages register themselves via init():
//
//	import _ "github.com/gogpu/pixelbuf/backend/wgpu"   // native HAL backend
//	import _ "github.com/gogpu/pixelbuf/backend/webgpu" // browser/Dawn backend
//
// The render engine selects the best available backend through Default().
package backend
