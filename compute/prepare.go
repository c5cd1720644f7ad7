package compute

import (
	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// prepareImages keeps the texture half of the resource cache current.
//
// Invalidated entries are evicted first, then every attached target without
// an entry gets one if its image is resolvable in GpuImages. An unresolvable
// image is skipped silently and retried implicitly next frame. Stale entries
// for detached targets are pruned last.
func (r *Registration[S]) prepareImages(ctx *render.FrameContext) {
	snap := &r.extractedFrame

	r.cache.invalidate(ctx.Device, snap.invalidated)

	// Bind groups need the pipeline's texture layout, which exists only
	// once the pipeline compiled. Until then every target stays pending,
	// which is fine: the node dispatches nothing while loading anyway.
	layout, layoutOK := ctx.Pipelines.BindGroupLayout(r.pipeline, 0)

	live := make(map[asset.ID]struct{}, len(snap.attachments))
	for _, att := range snap.attachments {
		live[att.Target] = struct{}{}

		if _, ok := r.cache.textures[att.Target]; ok {
			continue
		}
		if !layoutOK {
			continue
		}
		img, ok := ctx.GpuImages.Get(att.Target)
		if !ok {
			pixelbuf.Logger().Debug("target image not resolvable yet",
				"shader", r.desc.Label, "target", uint64(att.Target))
			continue
		}
		if err := r.cache.upsertTexture(ctx.Device, layout, att.Target, img); err != nil {
			pixelbuf.Logger().Error("texture bind group creation failed",
				"shader", r.desc.Label, "target", uint64(att.Target), "error", err)
		}
	}

	r.cache.prune(ctx.Device, live)
}

// retryEntry is a shader instance whose bind group construction failed
// transiently, carried to the next frame.
type retryEntry[S Instance] struct {
	id    asset.ID
	value S
}

// prepareShaders keeps the shader half of the resource cache current.
//
// Last frame's transient failures are re-attempted first, in FIFO order;
// a renewed transient failure goes to the back of the new queue. Removed
// assets are dropped next. Newly changed assets are attempted last. A
// permanent failure is logged once and the asset is excluded until it
// changes again.
func (r *Registration[S]) prepareShaders(ctx *render.FrameContext) {
	snap := &r.extractedFrame

	var requeue []retryEntry[S]
	pending := r.retry
	r.retry = nil

	for _, e := range pending {
		r.attemptShader(ctx, e, &requeue)
	}

	for _, id := range snap.removed {
		r.cache.removeShader(ctx.Device, id)
		// Drop any retry carried over for the removed asset.
		kept := requeue[:0]
		for _, e := range requeue {
			if e.id != id {
				kept = append(kept, e)
			}
		}
		requeue = kept
	}

	for _, ch := range snap.changed {
		r.attemptShader(ctx, retryEntry[S]{id: ch.id, value: ch.value}, &requeue)
	}

	r.retry = requeue
}

// attemptShader tries to build one instance's bind group, classifying the
// failure. Transient failures go to the retry queue; permanent ones drop
// the instance with an error log.
func (r *Registration[S]) attemptShader(ctx *render.FrameContext, e retryEntry[S], requeue *[]retryEntry[S]) {
	layout, ok := ctx.Pipelines.BindGroupLayout(r.pipeline, 1)
	if !ok {
		// Pipeline still compiling. Transient by definition.
		*requeue = append(*requeue, e)
		return
	}

	err := r.cache.upsertShader(ctx.Device, layout, ctx.GpuImages, e.id, e.value)
	if err == nil {
		return
	}
	if gpu.IsTransientBindError(err) {
		pixelbuf.Logger().Debug("shader bind group not ready, will retry",
			"shader", r.desc.Label, "asset", uint64(e.id), "error", err)
		*requeue = append(*requeue, e)
		return
	}
	pixelbuf.Logger().Error("shader bind group creation failed",
		"shader", r.desc.Label, "asset", uint64(e.id), "error", err)
}
