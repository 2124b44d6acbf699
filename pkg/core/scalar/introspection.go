// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar

import "github.com/gomlx/exceptions"

// This file defines methods that allow for introspection of the graph. They never change any state.

// Type identify the operation performed by the node.
func (n *Node) Type() NodeType {
	if n == nil {
		return NodeTypeInvalid
	}
	return n.opType
}

// OpTag returns the symbol of the operation that created the node (e.g. "+", "*", "tanh"), or "" for leaves.
func (n *Node) OpTag() string {
	return n.Type().OpTag()
}

// IsLeaf returns whether the node is a constant or a parameter.
func (n *Node) IsLeaf() bool {
	return n.Type().IsLeaf()
}

// NumInputs returns the number of operands of the node.
func (n *Node) NumInputs() int {
	return len(n.inputs)
}

// InputIds returns the ids of the operands of the node. The returned slice must not be modified.
func (n *Node) InputIds() []NodeId {
	return n.inputs
}

// Inputs are the operands of the node, in order. Leaves return nil.
func (n *Node) Inputs() []*Node {
	if len(n.inputs) == 0 {
		return nil
	}
	n.AssertValid()
	inputs := make([]*Node, len(n.inputs))
	for ii, id := range n.inputs {
		inputs[ii] = n.graph.nodes[id]
	}
	return inputs
}

// Exponent returns the static exponent of a Pow node. It panics for other node types.
func (n *Node) Exponent() float64 {
	if n.Type() != NodeTypePow {
		exceptions.Panicf("Exponent() called on a %s node, only available for Pow nodes", n.Type())
	}
	return n.exponent
}

// IsConstantExpression returns whether the node depends only on constants, that is, there is no
// Parameter in its sub-graph.
func (n *Node) IsConstantExpression() bool {
	n.AssertValid()
	visited := make([]bool, len(n.graph.nodes))
	return isConstantTraverseSubGraph(n, visited)
}

func isConstantTraverseSubGraph(node *Node, visited []bool) bool {
	if visited[node.id] {
		return true
	}
	visited[node.id] = true
	if node.opType == NodeTypeParameter {
		return false
	}
	for _, id := range node.inputs {
		if !isConstantTraverseSubGraph(node.graph.nodes[id], visited) {
			return false
		}
	}
	return true
}
