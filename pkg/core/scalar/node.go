// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Node represents one scalar value in the computation graph, and can be used as input to further operations.
//
// It stores the forward value (immutable after creation), the gradient accumulated by Backward, and the ids
// of its operands in the Graph, which are used to back-propagate gradients.
//
// Node.String pretty-prints a node. To see the full graph with all nodes, use Graph.String.
type Node struct {
	graph  *Graph
	id     NodeId
	opType NodeType

	// inputs are the edges of the computation graph, as ids in graph.nodes.
	inputs []NodeId

	value    float64
	gradient float64

	// exponent is the static (non-differentiated) exponent of a NodeTypePow node.
	exponent float64

	// label is cosmetic only.
	label string

	trace error // Stack-trace of where Node was created. Stored if graph.traced is true.
}

// newNode creates and registers a node in the graph. The inputs must already be validated to belong to g.
func newNode(g *Graph, opType NodeType, value float64, inputs ...*Node) *Node {
	node := &Node{
		graph:  g,
		opType: opType,
		value:  value,
	}
	if len(inputs) > 0 {
		node.inputs = make([]NodeId, len(inputs))
		for ii, input := range inputs {
			node.inputs[ii] = input.id
		}
	}
	if g.traced {
		node.trace = errors.Errorf("stack-trace of %s node creation", opType)
	}
	g.registerNode(node)
	return node
}

// Graph that holds this Node.
func (n *Node) Graph() *Graph {
	if n == nil {
		return nil
	}
	return n.graph
}

// Id is the unique id of this node within the Graph.
func (n *Node) Id() NodeId {
	if n == nil {
		return InvalidNodeId
	}
	return n.id
}

// Value returns the forward value of the node.
func (n *Node) Value() float64 {
	return n.value
}

// Gradient returns the accumulated gradient of the last root passed to Backward with respect to this node.
// It is 0 if no Backward pass reached this node.
func (n *Node) Gradient() float64 {
	return n.gradient
}

// ZeroGradient resets the gradient of this node only.
func (n *Node) ZeroGradient() {
	n.gradient = 0
}

// Label returns the cosmetic label of the node. Parameters are labeled with their names.
func (n *Node) Label() string {
	return n.label
}

// SetLabel sets a cosmetic label for the node, and returns the node itself, so it can be chained.
func (n *Node) SetLabel(label string) *Node {
	n.label = label
	return n
}

// AssertValid panics if `n` is nil, or if its graph is invalid.
func (n *Node) AssertValid() {
	if n == nil {
		exceptions.Panicf("Node is nil")
	}
	if n.opType == NodeTypeInvalid {
		exceptions.Panicf("Node in an invalid state")
	}
	n.graph.AssertValid()
}

// Trace returns stack-trace in form of an error, of when the node was created.
// Only available if enabled by `Graph.SetTraced(true)`.
func (n *Node) Trace() error {
	return n.trace
}

// String implements the `fmt.Stringer` interface.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	return fmt.Sprintf("Node(data=%g, label=%s, grad=%g)", n.value, n.label, n.gradient)
}

// describe is a longer version of String, including the operation and the operands' ids.
func (n *Node) describe() string {
	parts := []string{n.String()}
	if n.opType.IsLeaf() {
		parts = append(parts, n.opType.String())
	} else {
		ids := make([]string, len(n.inputs))
		for ii, id := range n.inputs {
			ids[ii] = fmt.Sprintf("#%d", id)
		}
		parts = append(parts, fmt.Sprintf("%q(%s)", n.opType.OpTag(), strings.Join(ids, ", ")))
	}
	if n.opType == NodeTypePow {
		parts = append(parts, fmt.Sprintf("[exponent=%g]", n.exponent))
	}
	return strings.Join(parts, " ")
}
