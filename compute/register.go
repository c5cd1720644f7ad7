package compute

import (
	"sync"

	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// defaultLabel is used when a descriptor carries no label.
const defaultLabel = "pixelbuf-compute"

// Registration is the live state of one registered shader type: its asset
// store, attachments, resource cache and dispatch node. Created by Register;
// there is no way to unregister.
type Registration[S Instance] struct {
	desc Descriptor

	shaders *asset.Store[S]

	// mu guards attachments, which the host mutates between frames.
	mu          sync.Mutex
	attachments map[Entity]Attachment

	pipelines *gpu.PipelineCache
	pipeline  gpu.CachedPipelineID

	// Per-frame state, owned by the stage functions.
	extractedFrame extracted[S]
	cache          *resourceCache
	retry          []retryEntry[S]
	queue          []dispatchEntry

	node *Node[S]
}

// Register wires a shader type into the engine.
//
// It creates the type's asset store, queues its compute pipeline (group 0
// is always the target's storage texture, group 1 the descriptor's user
// layout), schedules the four stage functions and adds the dispatch node to
// the render graph ordered before presentation.
//
// Register must be called before engine.Finalize; afterwards it fails with
// render.ErrEngineFinalized.
func Register[S Instance](engine *render.Engine, desc Descriptor) (*Registration[S], error) {
	if desc.Source.IsZero() {
		return nil, ErrNoShaderSource
	}
	if desc.Workgroups == nil {
		return nil, ErrNoWorkgroups
	}
	if desc.Label == "" {
		desc.Label = defaultLabel
	}

	r := &Registration[S]{
		desc:        desc,
		shaders:     asset.NewStore[S](),
		attachments: make(map[Entity]Attachment),
		pipelines:   engine.Pipelines(),
		cache:       newResourceCache(),
	}
	r.node = &Node[S]{reg: r}

	r.pipeline = r.pipelines.Queue(gpu.PipelineDescriptor{
		Label:      desc.Label,
		Shader:     desc.Source,
		EntryPoint: desc.EntryPoint,
		Layouts: []gpu.BindGroupLayoutDesc{
			gpu.TextureBindGroupLayout(),
			desc.UserLayout,
		},
	})

	if err := engine.AddExtract(r.extract); err != nil {
		return nil, err
	}
	if err := engine.AddPrepare(r.prepareImages); err != nil {
		return nil, err
	}
	if err := engine.AddPrepare(r.prepareShaders); err != nil {
		return nil, err
	}
	if err := engine.AddQueue(r.buildQueue); err != nil {
		return nil, err
	}

	g := engine.Graph()
	if err := g.AddNode(desc.Label, r.node); err != nil {
		return nil, err
	}
	if err := g.AddNodeEdge(desc.Label, render.PresentLabel); err != nil {
		return nil, err
	}

	return r, nil
}

// Shaders returns the type's shader asset store. Hosts add, modify and
// remove instances through it.
func (r *Registration[S]) Shaders() *asset.Store[S] {
	return r.shaders
}

// Node returns the registration's dispatch node.
func (r *Registration[S]) Node() *Node[S] {
	return r.node
}

// Attach associates an entity's target image with a shader instance.
// Re-attaching an entity replaces its previous attachment.
func (r *Registration[S]) Attach(entity Entity, target, shader asset.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[entity] = Attachment{Entity: entity, Target: target, Shader: shader}
}

// Detach removes an entity's attachment. Detaching an unknown entity is a
// no-op.
func (r *Registration[S]) Detach(entity Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attachments, entity)
}

// Attached returns the number of current attachments.
func (r *Registration[S]) Attached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attachments)
}
