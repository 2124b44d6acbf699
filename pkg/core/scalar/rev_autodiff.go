// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar

import (
	"math"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// This file implements reverse-mode automatic differentiation, using the VJP (Vector Jacobian Product) of
// each node type. For scalars the "vector" is simply the gradient of the root with respect to the node, and
// the VJP is that gradient multiplied by the local derivative of the node with respect to each of its inputs.
//
// Conventions:
//
//   - root node: the node whose gradient we want, with respect to every node it depends on.
//   - adjoint: the accumulated gradient of the root with respect to a node, stored in Node.gradient. It is
//     the sum of the VJPs pushed back by every consumer of the node.

// VJP returns the contribution to the gradient of each of the inputs of `node`, given `v`, the accumulated
// gradient of the root with respect to `node`.
//
// It must return either nil (no gradient flows to any input) or one value per input, in the order of
// node.Inputs(). It must only read node and its inputs' values: the backward pass does the accumulation.
type VJP func(node *Node, v float64) []float64

// VJPRegistration maps each node type to its implementation of VJP. For experimentation one can
// dynamically change it.
//
// NodeTypeRelu is registered with nilVJP: gradient doesn't flow back through Relu.
var VJPRegistration = map[NodeType]VJP{
	NodeTypeConstant:   nilVJP,
	NodeTypeParameter:  nilVJP,
	NodeTypeAdd:        addVJP,
	NodeTypeSub:        addVJP,
	NodeTypeMul:        mulVJP,
	NodeTypeDiv:        mulVJP,
	NodeTypePow:        powVJP,
	NodeTypeExp:        expVJP,
	NodeTypeSigmoid:    sigmoidVJP,
	NodeTypeTanh:       tanhVJP,
	NodeTypeRelu:       nilVJP,
	NodeTypeNeg:        negVJP,
	NodeTypeIncrement:  incrementVJP,
	NodeTypeReciprocal: reciprocalVJP,
}

// VisitHook is called by Backward for each node, in processing order (root first), just before
// its gradient is pushed back to its inputs.
type VisitHook func(node *Node)

// TopologicalOrder returns root and all the nodes it depends on, ordered such that every node comes after
// all of its inputs. Shared sub-graphs are listed only once.
func TopologicalOrder(root *Node) []*Node {
	root.AssertValid()
	g := root.graph
	visited := make([]bool, len(g.nodes))
	order := make([]*Node, 0, int(root.id)+1)
	var buildTopo func(node *Node)
	buildTopo = func(node *Node) {
		if visited[node.id] {
			return
		}
		visited[node.id] = true
		for _, id := range node.inputs {
			buildTopo(g.nodes[id])
		}
		order = append(order, node)
	}
	buildTopo(root)
	return order
}

// Backward computes the gradient of root with respect to every node it depends on, and accumulates
// it into each node's gradient. The gradient of root is set to 1.
//
// Each node's VJP is invoked exactly once, in reverse topological order, so a node shared by several
// consumers has all their contributions summed before it pushes its own gradient further back.
//
// Gradients are not reset: nodes reached by a previous Backward pass keep their values and the new
// contributions are added to them. Use Graph.ZeroGradients to start anew.
//
// Optional hooks are called for each node in processing order, for diagnostics.
func Backward(root *Node, hooks ...VisitHook) {
	order := TopologicalOrder(root)
	g := root.graph
	root.gradient = 1

	if klog.V(2).Enabled() {
		klog.Infof("Backward(%s) in graph %q: %d nodes, processing order:", root, g.name, len(order))
		for ii := len(order) - 1; ii >= 0; ii-- {
			klog.Infof("\t#%d %s", order[ii].id, order[ii].describe())
		}
	}

	for ii := len(order) - 1; ii >= 0; ii-- {
		node := order[ii]
		for _, hook := range hooks {
			hook(node)
		}
		vjpFn, found := VJPRegistration[node.opType]
		if !found {
			exceptions.Panicf("graph has node %s of type %s, for which no gradient is defined", node, node.opType)
		}
		inputsVJPs := vjpFn(node, node.gradient)
		if inputsVJPs == nil {
			continue
		}
		if len(inputsVJPs) != len(node.inputs) {
			exceptions.Panicf("VJP(%s) returned %d values, but it has %d inputs, implementation of "+
				"auto-differentiation for node type %s failed", node, len(inputsVJPs), len(node.inputs), node.opType)
		}
		for jj, id := range node.inputs {
			g.nodes[id].gradient += inputsVJPs[jj]
		}
	}
}

// Gradient resets all gradients in root's graph, runs Backward from root, and returns the gradients of root
// with respect to each of the given nodes.
func Gradient(root *Node, nodes ...*Node) []float64 {
	root.AssertValid()
	validateBuildingGraphFromInputs(append([]*Node{root}, nodes...)...)
	root.graph.ZeroGradients()
	Backward(root)
	gradients := make([]float64, len(nodes))
	for ii, node := range nodes {
		gradients[ii] = node.gradient
	}
	return gradients
}

// nilVJP returns no gradient: used for leaves and for operations that don't back-propagate.
func nilVJP(_ *Node, _ float64) []float64 {
	return nil
}

func (n *Node) inputValue(ii int) float64 {
	return n.graph.nodes[n.inputs[ii]].value
}

// addVJP is used by Add and Sub: Sub's second input is already the negated rhs.
func addVJP(_ *Node, v float64) []float64 {
	return []float64{v, v}
}

// mulVJP is used by Mul and Div: Div's second input is already the reciprocal of rhs.
func mulVJP(node *Node, v float64) []float64 {
	return []float64{node.inputValue(1) * v, node.inputValue(0) * v}
}

func powVJP(node *Node, v float64) []float64 {
	k := node.exponent
	return []float64{k * math.Pow(node.inputValue(0), k-1) * v}
}

func expVJP(node *Node, v float64) []float64 {
	return []float64{node.value * v}
}

func sigmoidVJP(node *Node, v float64) []float64 {
	return []float64{node.value * (1 - node.value) * v}
}

func tanhVJP(node *Node, v float64) []float64 {
	return []float64{(1 - node.value*node.value) * v}
}

func negVJP(_ *Node, v float64) []float64 {
	return []float64{-v}
}

func incrementVJP(_ *Node, v float64) []float64 {
	return []float64{v}
}

func reciprocalVJP(node *Node, v float64) []float64 {
	return []float64{-math.Pow(node.inputValue(0), -2) * v}
}
