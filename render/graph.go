// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/gpu"
)

// PresentLabel is the label of the built-in terminal node. Every graph has
// it; nodes that produce frame output declare an edge to it so they run
// before presentation.
const PresentLabel = "present"

// Graph setup errors.
var (
	// ErrDuplicateNode is returned when a node label is added twice.
	ErrDuplicateNode = errors.New("render: duplicate graph node label")

	// ErrUnknownNode is returned when an edge references a label that was
	// never added.
	ErrUnknownNode = errors.New("render: unknown graph node label")

	// ErrGraphCycle is returned when the declared edges contain a cycle.
	ErrGraphCycle = errors.New("render: graph contains a cycle")
)

// EncoderContext carries per-frame GPU access into graph nodes.
type EncoderContext struct {
	// Device is the frame's GPU device. Nodes begin their own compute
	// passes on it; the engine submits once after the graph has run.
	Device gpu.Device
}

// Node is a unit of render graph work.
//
// Update runs every frame before any node's Run and is where a node checks
// asynchronous state (pipeline readiness, for example). Run records GPU
// commands for the frame. A Run error is logged and does not stop the
// remaining nodes.
type Node interface {
	Update()
	Run(ctx *EncoderContext) error
}

// presentNode is the built-in terminal node. It records nothing itself; it
// exists so other nodes have a stable label to order themselves before.
type presentNode struct{}

func (presentNode) Update()                        {}
func (presentNode) Run(ctx *EncoderContext) error { return nil }

// Graph holds labeled nodes and the ordering edges between them.
//
// Execution order is a topological sort of the declared edges. Nodes with no
// ordering relation run in insertion order, so execution is deterministic
// across frames. Structure errors (duplicate labels, unknown edge endpoints,
// cycles) surface at setup time, not during the frame loop.
type Graph struct {
	nodes map[string]Node
	order []string            // insertion order, for stable sorting
	edges map[string][]string // from -> to: from runs before to

	// sorted is the cached execution order, rebuilt when dirty.
	sorted []string
	dirty  bool
}

// NewGraph creates a graph containing only the Present node.
func NewGraph() *Graph {
	g := &Graph{
		nodes: make(map[string]Node),
		edges: make(map[string][]string),
		dirty: true,
	}
	g.nodes[PresentLabel] = presentNode{}
	g.order = append(g.order, PresentLabel)
	return g
}

// AddNode adds a node under the given label.
func (g *Graph) AddNode(label string, n Node) error {
	if _, ok := g.nodes[label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, label)
	}
	g.nodes[label] = n
	g.order = append(g.order, label)
	g.dirty = true
	return nil
}

// AddNodeEdge declares that the node labeled from runs before the node
// labeled to. Both labels must already be present.
func (g *Graph) AddNodeEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	g.edges[from] = append(g.edges[from], to)
	g.dirty = true
	return nil
}

// Len returns the number of nodes, including the Present node.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// validate rebuilds the cached execution order, reporting a cycle if the
// declared edges admit no topological order.
func (g *Graph) validate() error {
	if !g.dirty {
		return nil
	}

	indegree := make(map[string]int, len(g.nodes))
	for label := range g.nodes {
		indegree[label] = 0
	}
	for _, tos := range g.edges {
		for _, to := range tos {
			indegree[to]++
		}
	}

	// Kahn's algorithm. The ready set is kept in insertion order so nodes
	// without ordering constraints run in the order they were added.
	pos := make(map[string]int, len(g.order))
	for i, label := range g.order {
		pos[label] = i
	}

	var ready []string
	for _, label := range g.order {
		if indegree[label] == 0 {
			ready = append(ready, label)
		}
	}

	sorted := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		label := ready[0]
		ready = ready[1:]
		sorted = append(sorted, label)

		for _, to := range g.edges[label] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
		sort.Slice(ready, func(i, j int) bool { return pos[ready[i]] < pos[ready[j]] })
	}

	if len(sorted) != len(g.nodes) {
		return ErrGraphCycle
	}

	g.sorted = sorted
	g.dirty = false
	return nil
}

// Update calls Update on every node in execution order.
func (g *Graph) Update() {
	for _, label := range g.sorted {
		g.nodes[label].Update()
	}
}

// Run calls Run on every node in execution order. A node error is logged
// and execution continues; the first error is returned after all nodes ran.
func (g *Graph) Run(ctx *EncoderContext) error {
	var first error
	for _, label := range g.sorted {
		if err := g.nodes[label].Run(ctx); err != nil {
			pixelbuf.Logger().Error("render graph node failed",
				"node", label, "error", err)
			if first == nil {
				first = fmt.Errorf("render: node %q: %w", label, err)
			}
		}
	}
	return first
}
