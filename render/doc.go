// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the per-frame pipeline that moves pixel buffer
// state to the GPU.
//
// The package is organized around three pieces:
//
//   - Engine: owns the stage schedules (Extract, Prepare, Queue) and runs
//     them in order each frame, followed by the render graph.
//   - Graph: labeled nodes connected by ordering edges, executed in a
//     stable topological order and terminated by the Present node.
//   - GpuImages: the render-side table mapping image assets to GPU
//     textures, kept in sync with the image store's change events.
//
// # Key Principle
//
// The engine RECEIVES a GPU device, it does not have to create one. A host
// application hands its device in via WithDevice; standalone use falls back
// to the best registered backend. Either way, downstream stages only ever
// see the gpu.Device abstraction.
//
// # Frame Anatomy
//
// RunFrame executes single-threaded, in a fixed order:
//
//  1. Extract: snapshot simulation-side state into per-frame views.
//  2. Prepare: upload image assets (engine-owned, always first), process
//     the pipeline cache, then run registered prepare functions.
//  3. Queue: build the frame's dispatch work lists.
//  4. Graph: Update then Run every node in topological order, then Submit.
//
// Everything after Extract operates on snapshots; mutating asset stores
// during Prepare or Queue affects the next frame, not the current one.
package render
