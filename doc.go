// Package pixelbuf provides a pixel-addressable framebuffer backed by a GPU
// texture, with an optional compute-shader path that updates the buffer
// every frame without round-tripping pixel data through host memory.
//
// # Overview
//
// A pixel buffer is an ordinary image asset: a rectangular RGBA8 surface the
// application can read and write pixel by pixel through a [Frame]. For cheap
// updates that is all you need:
//
//	img := pixelbuf.NewImage(256, 256)
//	frame := pixelbuf.FrameOf(img)
//	frame.PerPixel(func(x, y int, _ pixelbuf.Pixel) pixelbuf.Pixel {
//	    return pixelbuf.Pixel{R: uint8(x), G: uint8(y), A: 255}
//	})
//
// For expensive per-pixel functions the compute subsystem runs a user compute
// shader over the buffer on the GPU instead. See the compute package: a shader
// type is registered once, attached to any number of pixel buffers, and
// dispatched automatically every frame by the render engine.
//
// # Architecture
//
// The library is organized into:
//   - Root package: Pixel, Image, Frame, library logging
//   - asset: identity-keyed stores with per-frame change events
//   - gpu: the narrow GPU capability interface and the compute pipeline cache
//   - backend: pluggable gpu.Device implementations (gogpu/wgpu, cogentcore/webgpu)
//   - render: per-frame stage scheduling, render graph, GPU image table
//   - compute: extraction, resource preparation and compute dispatch
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down. Pixels are
// stored row-major, 4 bytes per pixel (RGBA).
package pixelbuf

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
