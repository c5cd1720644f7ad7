package compute

import (
	"sort"

	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/render"
)

// changedShader pairs a shader asset identity with the value snapshot taken
// at extraction time. Later stages never re-read the store.
type changedShader[S Instance] struct {
	id    asset.ID
	value S
}

// extracted is the per-frame snapshot one registration's downstream stages
// consume. It is rebuilt from scratch every frame.
type extracted[S Instance] struct {
	// attachments is the full attachment set, ordered by entity.
	attachments []Attachment

	// changed holds shader assets that were added, modified or finished
	// loading this frame, deduplicated. An asset that was also removed
	// this frame is absent; removal wins.
	changed []changedShader[S]

	// removed lists shader assets removed this frame.
	removed []asset.ID

	// invalidated names target images whose GPU backing appeared, changed
	// or went away this frame, restricted to targets the attachments
	// reference.
	invalidated map[asset.ID]struct{}
}

// extract builds the frame snapshot. Runs first in the frame; everything
// after it operates on the snapshot only.
func (r *Registration[S]) extract(ctx *render.FrameContext) {
	snap := extracted[S]{invalidated: make(map[asset.ID]struct{})}

	r.mu.Lock()
	snap.attachments = make([]Attachment, 0, len(r.attachments))
	for _, att := range r.attachments {
		snap.attachments = append(snap.attachments, att)
	}
	r.mu.Unlock()
	sort.Slice(snap.attachments, func(i, j int) bool {
		return snap.attachments[i].Entity < snap.attachments[j].Entity
	})

	// Shader asset churn. Removal wins over change within a frame.
	events := r.shaders.DrainEvents()
	removedSet := make(map[asset.ID]struct{})
	var changedOrder []asset.ID
	changedSet := make(map[asset.ID]struct{})

	for _, ev := range events {
		switch ev.Kind {
		case asset.Added, asset.Modified, asset.LoadedWithDependencies:
			if _, ok := changedSet[ev.ID]; !ok {
				changedSet[ev.ID] = struct{}{}
				changedOrder = append(changedOrder, ev.ID)
			}
		case asset.Removed:
			if _, ok := removedSet[ev.ID]; !ok {
				removedSet[ev.ID] = struct{}{}
				snap.removed = append(snap.removed, ev.ID)
			}
		}
	}

	for _, id := range changedOrder {
		if _, gone := removedSet[id]; gone {
			continue
		}
		value, ok := r.shaders.Get(id)
		if !ok {
			continue
		}
		snap.changed = append(snap.changed, changedShader[S]{id: id, value: value})
	}

	// Image invalidations, filtered to targets in active use.
	targets := make(map[asset.ID]struct{}, len(snap.attachments))
	for _, att := range snap.attachments {
		targets[att.Target] = struct{}{}
	}
	for _, ev := range ctx.ImageEvents {
		switch ev.Kind {
		case asset.Added, asset.Modified, asset.Removed, asset.LoadedWithDependencies:
			if _, inUse := targets[ev.ID]; inUse {
				snap.invalidated[ev.ID] = struct{}{}
			}
		}
	}

	r.extractedFrame = snap
}
