// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar_test

import (
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestBinaryOps(t *testing.T) {
	testCases := []struct {
		name     string
		build    func(g *Graph) *Node
		want     float64
		wantOp   string
		wantType NodeType
	}{
		{"add", func(g *Graph) *Node { return Add(Const(g, 1), Const(g, 2)) }, 3, "+", NodeTypeAdd},
		{"radd", func(g *Graph) *Node { return ScalarAdd(2, Const(g, 1)) }, 3, "+", NodeTypeAdd},
		{"sub", func(g *Graph) *Node { return Sub(Const(g, 1), Const(g, 2)) }, -1, "-", NodeTypeSub},
		{"mul", func(g *Graph) *Node { return Mul(Const(g, 2), Const(g, 3)) }, 6, "*", NodeTypeMul},
		{"rmul", func(g *Graph) *Node { return MulScalar(Const(g, 1), 2) }, 2, "*", NodeTypeMul},
		{"pow", func(g *Graph) *Node { return Pow(Const(g, 3), Const(g, 2)) }, 9, "**", NodeTypePow},
		{"truediv", func(g *Graph) *Node { return DivScalar(Const(g, 4), 2) }, 2, "/", NodeTypeDiv},
		{"div", func(g *Graph) *Node { return Div(Const(g, 4), Const(g, 2)) }, 2, "/", NodeTypeDiv},
		{"rsub", func(g *Graph) *Node { return ScalarSub(10, Const(g, 4)) }, 6, "-", NodeTypeSub},
		{"rdiv", func(g *Graph) *Node { return ScalarDiv(1, Const(g, 4)) }, 0.25, "/", NodeTypeDiv},
		{"float32 literal", func(g *Graph) *Node { return AddScalar(Const(g, 0.5), float32(0.25)) }, 0.75, "+", NodeTypeAdd},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGraph(tc.name)
			node := tc.build(g)
			assert.Equal(t, tc.want, node.Value())
			assert.Equal(t, tc.wantOp, node.OpTag())
			assert.Equal(t, tc.wantType, node.Type())
		})
	}
}

func TestUnaryOps(t *testing.T) {
	g := NewGraph("unary")
	assert.Equal(t, math.Exp(4), Exp(Const(g, 4)).Value())
	assert.Equal(t, 1.0, Exp(Const(g, 0)).Value())
	assert.Equal(t, 0.5, Sigmoid(Const(g, 0)).Value())
	assert.Equal(t, 0.0, Tanh(Const(g, 0)).Value())
	assert.InDelta(t, math.Tanh(0.7), Tanh(Const(g, 0.7)).Value(), 1e-12)
	assert.Equal(t, 0.0, Relu(Const(g, -3)).Value())
	assert.Equal(t, 3.0, Relu(Const(g, 3)).Value())
	assert.Equal(t, -3.0, Neg(Const(g, 3)).Value())
	assert.Equal(t, 4.0, Increment(Const(g, 3)).Value())
	assert.Equal(t, 0.25, Reciprocal(Const(g, 4)).Value())

	tags := map[string]*Node{
		"exp":     Exp(Const(g, 1)),
		"sigmoid": Sigmoid(Const(g, 1)),
		"tanh":    Tanh(Const(g, 1)),
		"relu":    Relu(Const(g, 1)),
		"*-1":     Neg(Const(g, 1)),
		"+1":      Increment(Const(g, 1)),
		"1/x":     Reciprocal(Const(g, 1)),
	}
	for tag, node := range tags {
		assert.Equal(t, tag, node.OpTag())
		assert.Len(t, node.Inputs(), 1)
	}
	assert.Equal(t, "", Const(g, 1).OpTag())
	assert.Equal(t, "", g.Parameter("w", 1).OpTag())
}

func TestTwinOperands(t *testing.T) {
	g := NewGraph("twin")
	a := Const(g, 1)
	c := Add(a, a)
	assert.Equal(t, 2.0, c.Value())
	assert.Equal(t, "+", c.OpTag())

	d := Sub(a, a)
	assert.Equal(t, 0.0, d.Value())
	assert.Equal(t, "-", d.OpTag())
}

func TestPromotionIsCommutative(t *testing.T) {
	g := NewGraph("promotion")
	x := Const(g, 1)
	left := ScalarAdd(2, x)
	right := AddScalar(x, 2)
	assert.Equal(t, left.Value(), right.Value())
	assert.Equal(t, left.OpTag(), right.OpTag())

	left = ScalarMul(-3, x)
	right = MulScalar(x, -3)
	assert.Equal(t, left.Value(), right.Value())
	assert.Equal(t, "*", left.OpTag())
	assert.Equal(t, "*", right.OpTag())

	// Promoted literal becomes a constant leaf operand.
	inputs := right.Inputs()
	require.Len(t, inputs, 2)
	assert.Same(t, x, inputs[0])
	assert.Equal(t, NodeTypeConstant, inputs[1].Type())
	assert.Equal(t, -3.0, inputs[1].Value())
}

func TestPipelineScenario(t *testing.T) {
	g := NewGraph("pipeline")
	a := Const(g, 2).SetLabel("a")
	b := Const(g, -3).SetLabel("b")
	c := Const(g, 10).SetLabel("c")
	e := Mul(a, b)
	d := Add(e, c)
	assert.Equal(t, -6.0, e.Value())
	assert.Equal(t, 4.0, d.Value())
	assert.Equal(t, "+", d.OpTag())
	assert.Equal(t, "*", e.OpTag())
	require.Len(t, d.Inputs(), 2)
	assert.ElementsMatch(t, []*Node{e, c}, d.Inputs())
	assert.ElementsMatch(t, []*Node{a, b}, e.Inputs())

	// Only primitives besides a, and swapped order.
	g2 := NewGraph("pipeline_primitives")
	a2 := Const(g2, 2)
	e2 := ScalarMul(-3, a2)
	d2 := AddScalar(e2, 10)
	assert.Equal(t, -6.0, e2.Value())
	assert.Equal(t, 4.0, d2.Value())
	assert.Equal(t, "*", e2.OpTag())
	assert.Equal(t, "+", d2.OpTag())
}

func TestSubAndDivComposition(t *testing.T) {
	g := NewGraph("composition")
	a, b := Const(g, 5), Const(g, 3)
	sub := Sub(a, b)
	inputs := sub.Inputs()
	require.Len(t, inputs, 2)
	assert.Same(t, a, inputs[0])
	assert.Equal(t, NodeTypeMul, inputs[1].Type())
	assert.Equal(t, -3.0, inputs[1].Value())

	div := Div(a, b)
	inputs = div.Inputs()
	require.Len(t, inputs, 2)
	assert.Same(t, a, inputs[0])
	assert.Equal(t, NodeTypePow, inputs[1].Type())
	assert.Equal(t, -1.0, inputs[1].Exponent())
	assert.InDelta(t, 5.0/3.0, div.Value(), 1e-12)
}

func TestPowExponentIsNotAnOperand(t *testing.T) {
	g := NewGraph("pow")
	a, k := Const(g, 3), Const(g, 2)
	p := Pow(a, k)
	require.Len(t, p.Inputs(), 1)
	assert.Same(t, a, p.Inputs()[0])
	assert.Equal(t, 2.0, p.Exponent())
	assert.Panics(t, func() { _ = a.Exponent() })
}

func TestNumericEdgeCases(t *testing.T) {
	g := NewGraph("numeric")
	assert.True(t, math.IsInf(Div(Const(g, 1), Const(g, 0)).Value(), 1))
	assert.True(t, math.IsInf(Reciprocal(Const(g, 0)).Value(), 1))
	assert.True(t, math.IsNaN(Div(Const(g, 0), Const(g, 0)).Value()))
	assert.True(t, math.IsNaN(PowScalar(Const(g, -8), 1.0/3.0).Value()))

	// NaN flows into the gradients too.
	x := g.Parameter("x", 0)
	y := Reciprocal(x)
	Backward(y)
	assert.True(t, math.IsInf(x.Gradient(), -1))
}

func TestComposites(t *testing.T) {
	g := NewGraph("composites")
	xs := []*Node{Const(g, 1), Const(g, 2), Const(g, 6)}
	assert.Equal(t, 9.0, Sum(xs...).Value())
	assert.Equal(t, 3.0, Mean(xs...).Value())
	assert.Equal(t, 36.0, Square(xs[2]).Value())
	assert.Same(t, xs[0], Sum(xs[0]))
	assert.Panics(t, func() { _ = Sum() })
	assert.Panics(t, func() { _ = Mean() })
}

func TestContractViolations(t *testing.T) {
	g1, g2 := NewGraph("g1"), NewGraph("g2")
	x1, x2 := Const(g1, 1), Const(g2, 2)

	err := exceptions.Try(func() { _ = Add(x1, x2) })
	require.NotNil(t, err)
	assert.Contains(t, err.(error).Error(), "different graphs")

	assert.Panics(t, func() { _ = Mul(x1, nil) })
	assert.Panics(t, func() { _ = Exp(nil) })

	g1.Parameter("w", 1)
	assert.Panics(t, func() { g1.Parameter("w", 2) })
	assert.Panics(t, func() { g1.Parameter("", 2) })

	g1.Finalize()
	assert.False(t, g1.IsValid())
	assert.Panics(t, func() { _ = Neg(x1) })
	assert.Panics(t, func() { _ = Const(g1, 1) })
}
