// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package scalar implements reverse-mode automatic differentiation over scalar (float64) values.
//
// The main elements in the package are:
//
//   - Graph: an arena that owns every Node created for one computation. Nodes refer to each other
//     by NodeId, which is simply their index in the arena. Dropping the Graph releases all of its nodes.
//
//   - Node: one value in the computation. It holds its forward value, its accumulated gradient, the ids
//     of the operands that produced it and the NodeType of the operation. Leaves are created with Const
//     or Graph.Parameter, and all other nodes are created by the operations in this package
//     (Add, Sub, Mul, Div, Pow, Exp, Sigmoid, Tanh, Relu, Neg, Increment, Reciprocal).
//
//   - Backward: computes the gradient of a root node with respect to every node it transitively
//     depends on, accumulating into each Node's gradient.
//
// # Error Handling
//
// Like the rest of GoMLX, building a graph "throws" errors with panic (using github.com/gomlx/exceptions)
// when the contract is violated: nil nodes, mixing nodes of different graphs, using a finalized graph.
// Numeric issues (division by zero, fractional powers of negative numbers) are not errors: they yield
// NaN or ±Inf exactly as the math package does, both in values and gradients.
//
// # Gradient accumulation
//
// Gradients are accumulated, never overwritten. Calling Backward twice on overlapping graphs sums the
// results of both passes, use Graph.ZeroGradients (or Node.ZeroGradient) in between if that is not wanted.
//
// A Graph is not safe for concurrent use.
package scalar

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
)

// NodeId is the index of a Node within its Graph.
type NodeId int

// InvalidNodeId indicates a node that is not registered in a Graph.
const InvalidNodeId = NodeId(-1)

// Graph owns the nodes of a computation.
//
// Nodes are appended in creation order, and since every operation only takes already existing
// nodes as operands, the NodeId order is always a valid topological order: operands have smaller
// ids than the nodes that use them.
type Graph struct {
	name string

	// nodes is the arena: a node's NodeId is its index here.
	nodes []*Node

	// parameters holds the named leaves created with Graph.Parameter, in creation order.
	parameters          []*Node
	parameterNameToNode map[string]*Node

	// traced indicates whether to save a stack-trace of where each node was created.
	traced bool

	finalized bool
}

// NewGraph creates an empty Graph. The name is only used for printing.
func NewGraph(name string) *Graph {
	return &Graph{
		name:                name,
		parameterNameToNode: make(map[string]*Node),
	}
}

// Name of the graph, as given to NewGraph.
func (g *Graph) Name() string {
	return g.name
}

// IsValid returns whether the Graph is in a usable state: not nil and not finalized.
func (g *Graph) IsValid() bool {
	return g != nil && !g.finalized
}

// AssertValid panics if graph is nil or has been finalized.
func (g *Graph) AssertValid() {
	if g == nil {
		exceptions.Panicf("the Graph is nil")
	}
	if g.finalized {
		exceptions.Panicf("Graph %q has been finalized already", g.name)
	}
}

// Finalize releases all nodes of the graph. Any further use of the graph or its nodes panics.
func (g *Graph) Finalize() {
	if g == nil || g.finalized {
		return
	}
	g.nodes = nil
	g.parameters = nil
	g.parameterNameToNode = nil
	g.finalized = true
}

// SetTraced defines whether each node created should also save a stack-trace of where it was created.
// Useful for debugging, see Node.Trace.
func (g *Graph) SetTraced(traced bool) {
	g.traced = traced
}

// NumNodes returns the number of nodes created so far in the graph.
func (g *Graph) NumNodes() int {
	g.AssertValid()
	return len(g.nodes)
}

// Nodes returns all nodes in creation order (which is a topological order). The returned slice
// must not be modified.
func (g *Graph) Nodes() []*Node {
	g.AssertValid()
	return g.nodes
}

// NodeById returns the node with the given id. It panics if the id is out of range.
func (g *Graph) NodeById(id NodeId) *Node {
	g.AssertValid()
	if id < 0 || int(id) >= len(g.nodes) {
		exceptions.Panicf("invalid NodeId %d for Graph %q with %d nodes", id, g.name, len(g.nodes))
	}
	return g.nodes[id]
}

// registerNode appends the node to the arena and sets its id.
func (g *Graph) registerNode(node *Node) NodeId {
	node.id = NodeId(len(g.nodes))
	g.nodes = append(g.nodes, node)
	return node.id
}

// Parameter creates a named leaf node with the given value. Parameters are usually the values with
// respect to which one wants gradients, e.g. the weights of a model.
//
// It panics if a parameter with the same name was already created in this graph.
func (g *Graph) Parameter(name string, value float64) *Node {
	g.AssertValid()
	if name == "" {
		exceptions.Panicf("Graph(%q).Parameter() requires a non-empty name", g.name)
	}
	if _, found := g.parameterNameToNode[name]; found {
		exceptions.Panicf("Graph(%q).Parameter(%q): parameter already exists", g.name, name)
	}
	node := newNode(g, NodeTypeParameter, value)
	node.label = name
	g.parameters = append(g.parameters, node)
	g.parameterNameToNode[name] = node
	return node
}

// ParameterByName returns the parameter with the given name, or nil if it doesn't exist.
func (g *Graph) ParameterByName(name string) *Node {
	g.AssertValid()
	return g.parameterNameToNode[name]
}

// Parameters returns the parameter nodes in creation order.
func (g *Graph) Parameters() []*Node {
	g.AssertValid()
	return g.parameters
}

// ZeroGradients resets the gradient of every node in the graph to 0.
func (g *Graph) ZeroGradients() {
	g.AssertValid()
	for _, node := range g.nodes {
		node.gradient = 0
	}
}

// String lists all the nodes of the graph, one per line.
func (g *Graph) String() string {
	if g == nil {
		return "Graph(nil)"
	}
	if g.finalized {
		return fmt.Sprintf("Graph(%q, finalized)", g.name)
	}
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "Graph %q: %d nodes\n", g.name, len(g.nodes))
	for _, node := range g.nodes {
		_, _ = fmt.Fprintf(&sb, "\t#%d %s\n", node.id, node.describe())
	}
	return sb.String()
}
