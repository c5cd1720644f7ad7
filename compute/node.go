package compute

import (
	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// NodeState is the lifecycle state of a registration's dispatch node.
type NodeState uint8

// Node states.
const (
	// NodeLoading means the compute pipeline has not finished compiling.
	// The node dispatches nothing in this state.
	NodeLoading NodeState = iota

	// NodeReady means the pipeline compiled and dispatches are recorded
	// every frame. The transition from NodeLoading is monotonic; a node
	// never returns to loading.
	NodeReady
)

// String returns the state name.
func (s NodeState) String() string {
	switch s {
	case NodeLoading:
		return "loading"
	case NodeReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Node dispatches one registration's compute work inside the render graph.
type Node[S Instance] struct {
	reg   *Registration[S]
	state NodeState
}

// State returns the node's current lifecycle state.
func (n *Node[S]) State() NodeState {
	return n.state
}

// Update checks pipeline readiness once per frame and performs the single
// loading-to-ready transition.
func (n *Node[S]) Update() {
	if n.state != NodeLoading {
		return
	}
	if n.reg.pipelines.State(n.reg.pipeline) == gpu.PipelineOk {
		n.state = NodeReady
		pixelbuf.Logger().Debug("compute node ready", "shader", n.reg.desc.Label)
	}
}

// Run records one compute pass covering the frame's dispatch queue.
// Skipped frames while loading are silent; that is the expected behavior
// during asynchronous shader compilation, not an error.
func (n *Node[S]) Run(ctx *render.EncoderContext) error {
	if n.state != NodeReady {
		return nil
	}
	queue := n.reg.queue
	if len(queue) == 0 {
		return nil
	}

	pipeline, ok := n.reg.pipelines.Pipeline(n.reg.pipeline)
	if !ok {
		// Ready without a cached pipeline should be unreachable; skip
		// the frame rather than fail it.
		pixelbuf.Logger().Error("compute pipeline missing while ready",
			"shader", n.reg.desc.Label)
		return nil
	}

	pass := ctx.Device.BeginComputePass(n.reg.desc.Label)
	pass.SetPipeline(pipeline)
	for _, e := range queue {
		pass.SetBindGroup(0, e.textureBindGroup)
		pass.SetBindGroup(1, e.userBindGroup)
		pass.Dispatch(e.workgroupsX, e.workgroupsY, 1)
	}
	pass.End()
	return nil
}
