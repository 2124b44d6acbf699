// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package scalar_test

import (
	"testing"

	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphArena(t *testing.T) {
	g := NewGraph("arena")
	assert.Equal(t, "arena", g.Name())
	a := g.Parameter("a", 2)
	b := Const(g, 3)
	c := Mul(a, b)
	require.Equal(t, 3, g.NumNodes())
	for ii, node := range g.Nodes() {
		assert.Equal(t, NodeId(ii), node.Id())
		assert.Same(t, node, g.NodeById(node.Id()))
		assert.Same(t, g, node.Graph())
	}
	assert.Equal(t, []NodeId{a.Id(), b.Id()}, c.InputIds())
	assert.Equal(t, 2, c.NumInputs())
	assert.Panics(t, func() { _ = g.NodeById(NodeId(3)) })
	assert.Panics(t, func() { _ = g.NodeById(InvalidNodeId) })

	assert.Same(t, a, g.ParameterByName("a"))
	assert.Nil(t, g.ParameterByName("b"))
	assert.Equal(t, []*Node{a}, g.Parameters())
	assert.Equal(t, InvalidNodeId, (*Node)(nil).Id())
}

func TestNodeIntrospection(t *testing.T) {
	g := NewGraph("introspection")
	a := g.Parameter("a", 2)
	b := Const(g, -3).SetLabel("b")
	e := Mul(a, b).SetLabel("e")
	assert.Equal(t, "Node(data=-6, label=e, grad=0)", e.String())
	assert.Equal(t, "a", a.Label())
	assert.True(t, a.IsLeaf())
	assert.True(t, b.IsLeaf())
	assert.False(t, e.IsLeaf())
	assert.Nil(t, a.Inputs())
	assert.False(t, e.IsConstantExpression())
	assert.True(t, Exp(b).IsConstantExpression())
	assert.Equal(t, "Node(nil)", (*Node)(nil).String())
	assert.Equal(t, NodeTypeInvalid, (*Node)(nil).Type())

	s := g.String()
	assert.Contains(t, s, `Graph "introspection": 3 nodes`)
	assert.Contains(t, s, `"*"(#0, #1)`)

	g.Finalize()
	assert.Contains(t, g.String(), "finalized")
	assert.Equal(t, "Graph(nil)", (*Graph)(nil).String())
}

func TestTraced(t *testing.T) {
	g := NewGraph("traced")
	x := Const(g, 1)
	assert.Nil(t, x.Trace())
	g.SetTraced(true)
	y := Neg(x)
	require.Error(t, y.Trace())
	assert.Contains(t, y.Trace().Error(), "Neg")
}

func TestNodeTypeEnum(t *testing.T) {
	assert.Equal(t, "Reciprocal", NodeTypeReciprocal.String())
	nodeType, err := NodeTypeString("sigmoid")
	require.NoError(t, err)
	assert.Equal(t, NodeTypeSigmoid, nodeType)
	_, err = NodeTypeString("softmax")
	require.Error(t, err)
	assert.True(t, NodeTypeConstant.IsLeaf())
	assert.False(t, NodeTypeAdd.IsLeaf())
	for _, nodeType := range NodeTypeValues() {
		if nodeType == NodeTypeInvalid || nodeType.IsLeaf() {
			assert.Empty(t, nodeType.OpTag())
		} else {
			assert.NotEmpty(t, nodeType.OpTag(), "node type %s", nodeType)
			assert.Contains(t, VJPRegistration, nodeType)
		}
	}
}
