package compute

import (
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// dispatchEntry is one compute dispatch: the two bind groups and the
// workgroup extents for a single attachment.
type dispatchEntry struct {
	textureBindGroup gpu.BindGroupID
	userBindGroup    gpu.BindGroupID
	workgroupsX      uint32
	workgroupsY      uint32
}

// buildQueue joins the prepared caches over the frame's attachments into
// the dispatch list, in attachment order. An attachment whose target or
// shader is not prepared contributes nothing. The queue lives exactly one
// frame.
func (r *Registration[S]) buildQueue(ctx *render.FrameContext) {
	r.queue = r.queue[:0]

	for _, att := range r.extractedFrame.attachments {
		tex, ok := r.cache.textures[att.Target]
		if !ok {
			continue
		}
		sh, ok := r.cache.shaders[att.Shader]
		if !ok {
			continue
		}
		wx, wy := r.desc.Workgroups(tex.width, tex.height)
		r.queue = append(r.queue, dispatchEntry{
			textureBindGroup: tex.bindGroup,
			userBindGroup:    sh.bindGroup,
			workgroupsX:      wx,
			workgroupsY:      wy,
		})
	}
}
