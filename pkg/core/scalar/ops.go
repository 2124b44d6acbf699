// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar

import (
	"math"

	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// Number is any Go integer or float type that can be promoted to a constant Node.
type Number interface {
	constraints.Integer | constraints.Float
}

// validateBuildingGraphFromInputs checks that all inputs are valid and belong to the same Graph, and
// returns that Graph. It panics otherwise.
func validateBuildingGraphFromInputs(inputs ...*Node) (g *Graph) {
	if len(inputs) == 0 {
		exceptions.Panicf("no input nodes given to build operation")
	}
	for ii, input := range inputs {
		if input == nil {
			exceptions.Panicf("input #%d of operation is nil", ii)
		}
		input.AssertValid()
		if g == nil {
			g = input.graph
		} else if input.graph != g {
			exceptions.Panicf("combining nodes from different graphs (%q and %q) is not allowed: input #%d",
				g.name, input.graph.name, ii)
		}
	}
	return g
}

// Const promotes a Go number to a constant leaf node in the graph.
func Const[T Number](g *Graph, value T) *Node {
	g.AssertValid()
	return newNode(g, NodeTypeConstant, float64(value))
}

// Add returns a node with lhs + rhs.
func Add(lhs, rhs *Node) *Node {
	g := validateBuildingGraphFromInputs(lhs, rhs)
	return newNode(g, NodeTypeAdd, lhs.value+rhs.value, lhs, rhs)
}

// Sub returns a node with lhs - rhs.
//
// It's built as lhs + (rhs * -1): its operands are lhs and the negated rhs node, and it back-propagates
// like Add.
func Sub(lhs, rhs *Node) *Node {
	g := validateBuildingGraphFromInputs(lhs, rhs)
	negated := Mul(rhs, Const(g, -1))
	return newNode(g, NodeTypeSub, lhs.value+negated.value, lhs, negated)
}

// Mul returns a node with lhs * rhs.
func Mul(lhs, rhs *Node) *Node {
	g := validateBuildingGraphFromInputs(lhs, rhs)
	return newNode(g, NodeTypeMul, lhs.value*rhs.value, lhs, rhs)
}

// Div returns a node with lhs / rhs.
//
// It's built as lhs * rhs**-1: its operands are lhs and the reciprocal power node, and it back-propagates
// like Mul. Dividing by zero yields ±Inf (or NaN for 0/0) and is not an error.
func Div(lhs, rhs *Node) *Node {
	g := validateBuildingGraphFromInputs(lhs, rhs)
	inverse := PowScalar(rhs, -1)
	return newNode(g, NodeTypeDiv, lhs.value*inverse.value, lhs, inverse)
}

// Pow returns a node with base ** exponent.
//
// The exponent is taken as a constant: its value is read when the node is built and no gradient flows
// back to it. The only operand of the new node is base.
func Pow(base, exponent *Node) *Node {
	validateBuildingGraphFromInputs(base, exponent)
	return powWithExponent(base, exponent.value)
}

// PowScalar returns a node with base ** exponent, for a constant exponent.
func PowScalar[T Number](base *Node, exponent T) *Node {
	validateBuildingGraphFromInputs(base)
	return powWithExponent(base, float64(exponent))
}

func powWithExponent(base *Node, exponent float64) *Node {
	node := newNode(base.graph, NodeTypePow, math.Pow(base.value, exponent), base)
	node.exponent = exponent
	return node
}

// Exp returns a node with e^x.
func Exp(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	return newNode(g, NodeTypeExp, math.Exp(x.value), x)
}

// Sigmoid returns a node with the logistic function 1/(1+e^-x).
func Sigmoid(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	return newNode(g, NodeTypeSigmoid, 1/(1+math.Exp(-x.value)), x)
}

// Tanh returns a node with the hyperbolic tangent of x.
func Tanh(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	return newNode(g, NodeTypeTanh, math.Tanh(x.value), x)
}

// Relu returns a node with x if x > 0, or 0 otherwise.
//
// Relu is treated as a constant by Backward: no gradient flows back through it to x.
func Relu(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	value := 0.0
	if x.value > 0 {
		value = x.value
	}
	return newNode(g, NodeTypeRelu, value, x)
}

// Neg returns a node with -x.
func Neg(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	return newNode(g, NodeTypeNeg, -x.value, x)
}

// Increment returns a node with x + 1.
func Increment(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	return newNode(g, NodeTypeIncrement, 1+x.value, x)
}

// Reciprocal returns a node with 1/x. For x == 0 it yields +Inf or -Inf.
func Reciprocal(x *Node) *Node {
	g := validateBuildingGraphFromInputs(x)
	return newNode(g, NodeTypeReciprocal, 1/x.value, x)
}

// AddScalar returns x + value, promoting value to a constant node.
func AddScalar[T Number](x *Node, value T) *Node {
	validateBuildingGraphFromInputs(x)
	return Add(x, Const(x.graph, value))
}

// ScalarAdd returns value + x, promoting value to a constant node. It's equivalent to AddScalar.
func ScalarAdd[T Number](value T, x *Node) *Node {
	validateBuildingGraphFromInputs(x)
	return Add(Const(x.graph, value), x)
}

// SubScalar returns x - value, promoting value to a constant node.
func SubScalar[T Number](x *Node, value T) *Node {
	validateBuildingGraphFromInputs(x)
	return Sub(x, Const(x.graph, value))
}

// ScalarSub returns value - x, promoting value to a constant node.
func ScalarSub[T Number](value T, x *Node) *Node {
	validateBuildingGraphFromInputs(x)
	return Sub(Const(x.graph, value), x)
}

// MulScalar returns x * value, promoting value to a constant node.
func MulScalar[T Number](x *Node, value T) *Node {
	validateBuildingGraphFromInputs(x)
	return Mul(x, Const(x.graph, value))
}

// ScalarMul returns value * x, promoting value to a constant node. It's equivalent to MulScalar.
func ScalarMul[T Number](value T, x *Node) *Node {
	validateBuildingGraphFromInputs(x)
	return Mul(Const(x.graph, value), x)
}

// DivScalar returns x / value, promoting value to a constant node.
func DivScalar[T Number](x *Node, value T) *Node {
	validateBuildingGraphFromInputs(x)
	return Div(x, Const(x.graph, value))
}

// ScalarDiv returns value / x, promoting value to a constant node.
func ScalarDiv[T Number](value T, x *Node) *Node {
	validateBuildingGraphFromInputs(x)
	return Div(Const(x.graph, value), x)
}

// Square returns x**2.
func Square(x *Node) *Node {
	return PowScalar(x, 2)
}

// Sum adds all the given nodes, from left to right. It panics if no node is given.
func Sum(nodes ...*Node) *Node {
	if len(nodes) == 0 {
		exceptions.Panicf("Sum() requires at least one node")
	}
	validateBuildingGraphFromInputs(nodes...)
	sum := nodes[0]
	for _, node := range nodes[1:] {
		sum = Add(sum, node)
	}
	return sum
}

// Mean returns the average of the given nodes. It panics if no node is given.
func Mean(nodes ...*Node) *Node {
	if len(nodes) == 0 {
		exceptions.Panicf("Mean() requires at least one node")
	}
	return DivScalar(Sum(nodes...), len(nodes))
}
