// Package compute schedules user compute shaders over pixel buffer images.
//
// A shader type is a Go type implementing Instance, registered once with
// Register. Registration wires four per-frame stage functions and a render
// graph node into the engine:
//
//   - extract snapshots the type's attachments, shader asset changes and
//     image invalidations for the frame
//   - prepare (images) keeps a cache of storage-texture bind groups for the
//     attached targets
//   - prepare (shaders) keeps a cache of user bind groups, retrying
//     transiently failed instances frame over frame
//   - queue joins the two caches over the attachments into the frame's
//     dispatch list
//
// The node starts in a loading state and dispatches nothing until the
// type's compute pipeline has compiled; once ready it records one dispatch
// per prepared attachment, sized by the descriptor's workgroup function.
//
// Each registered type owns isolated state. Two shader types never share
// caches, queues or asset stores.
package compute
