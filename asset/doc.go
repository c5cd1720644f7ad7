// Package asset provides identity-keyed asset storage with a per-frame
// change-event feed.
//
// A Store holds assets of one kind (images, shader instances) behind opaque
// numeric identities. Every mutation is recorded as an Event; the render-side
// extraction stage drains the accumulated events exactly once per frame and
// uses them to drive GPU resource invalidation. The store itself never talks
// to the GPU.
package asset
