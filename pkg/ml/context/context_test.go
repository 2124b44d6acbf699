// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package context_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/scalargrad/pkg/core/scalar"
	. "github.com/gomlx/scalargrad/pkg/ml/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestContextScopes(t *testing.T) {
	ctx := New()
	assert.Equal(t, RootScope, ctx.Scope())
	ctx2 := ctx.In("a")
	assert.Equal(t, "/a", ctx2.Scope())
	assert.Equal(t, "/a/layer_1", ctx2.Inf("layer_%d", 1).Scope())
	assert.Equal(t, RootScope, ctx.Scope(), "In() must not change the original Context")
	assert.Equal(t, "/x/y", ctx.InAbsPath("/x/y").Scope())

	assert.Panics(t, func() { ctx.In("") })
	assert.Panics(t, func() { ctx.In("a/b") })
	assert.Panics(t, func() { ctx.InAbsPath("a") })
	assert.Panics(t, func() { ctx.InAbsPath("/a/") })

	scope, name := SplitScope("/a/b/w")
	assert.Equal(t, "/a/b", scope)
	assert.Equal(t, "w", name)
	scope, name = SplitScope("/w")
	assert.Equal(t, RootScope, scope)
	assert.Equal(t, "w", name)
	assert.Equal(t, "/w", JoinScope(RootScope, "w"))
	assert.Equal(t, "/a/w", JoinScope("/a", "w"))
}

func TestParams(t *testing.T) {
	ctx := New()
	ctx.SetParams(map[string]any{"x": 10, "y": 20, "z": 40})
	ctxA := ctx.In("a")
	ctxA.SetParam("y", 30)
	ctxAB := ctxA.In("b")
	ctxAB.SetParam("x", 100)

	assert.Equal(t, 100, GetParamOr(ctxAB, "x", 0))
	assert.Equal(t, 30, GetParamOr(ctxAB, "y", 0))
	assert.Equal(t, 40, GetParamOr(ctxAB, "z", 0))
	assert.Equal(t, -1, GetParamOr(ctxAB, "w", -1))
	assert.Equal(t, 10, GetParamOr(ctx, "x", 0))

	// Conversion from int to float64.
	assert.Equal(t, 30.0, GetParamOr(ctxA, "y", 0.0))

	// Invalid conversions panic.
	ctx.SetParam("name", "tanh")
	assert.Panics(t, func() { _ = GetParamOr(ctx, "name", 0.0) })
	assert.Panics(t, func() { _ = GetParamOr(ctx, "x", "") })

	// nil values return the default.
	ctx.SetParam("nil", nil)
	assert.Equal(t, 0.5, GetParamOr(ctx, "nil", 0.5))

	var enumerated []string
	ctx.EnumerateParams(func(scope, key string, value any) {
		enumerated = append(enumerated, fmt.Sprintf("%s:%s=%v", scope, key, value))
	})
	assert.Equal(t, []string{
		"/:name=tanh", "/:nil=<nil>", "/:x=10", "/:y=20", "/:z=40",
		"/a:y=30",
		"/a/b:x=100",
	}, enumerated)
}

func TestRNG(t *testing.T) {
	sample := func(seed int) []float64 {
		ctx := New()
		ctx.SetParam(ParamRNGSeed, seed)
		rng := ctx.RNG()
		assert.Same(t, rng, ctx.In("other").RNG())
		return []float64{rng.Float64(), rng.Float64(), rng.Float64()}
	}
	assert.Equal(t, sample(7), sample(7))
	assert.NotEqual(t, sample(7), sample(8))
}

func TestVariables(t *testing.T) {
	ctx := New()
	ctxA := ctx.In("a")
	w := ctxA.VariableWithValue("w", 2)
	b := ctx.In("b").VariableWithValue("w", 3)
	assert.Equal(t, "/a/w", w.ScopeAndName())
	assert.Equal(t, "/a", w.Scope())
	assert.Equal(t, "w", w.Name())
	assert.True(t, w.Trainable)
	assert.Equal(t, 2, ctx.NumVariables())
	assert.Same(t, w, ctxA.GetVariable("w"))
	assert.Nil(t, ctx.GetVariable("w"))
	assert.Same(t, b, ctx.GetVariableByScopeAndName("/b/w"))
	assert.Nil(t, ctx.GetVariableByScopeAndName("/c/w"))

	err := exceptions.TryCatch[error](func() { ctxA.VariableWithValue("w", 5) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Panics(t, func() { ctxA.VariableWithInitializer("v", 1, 1) })
	v := ctxA.WithInitializer(func(fanIn, fanOut int) float64 { return float64(fanIn * fanOut) }).
		VariableWithInitializer("v", 2, 3)
	assert.Equal(t, 6.0, v.Value())

	var names []string
	ctx.EnumerateVariables(func(v *Variable) { names = append(names, v.String()) })
	assert.Equal(t, []string{"/a/w", "/b/w", "/a/v"}, names)
	names = nil
	ctxA.EnumerateVariablesInScope(func(v *Variable) { names = append(names, v.String()) })
	assert.Equal(t, []string{"/a/w", "/a/v"}, names)
}

func TestVariableNodeFor(t *testing.T) {
	ctx := New()
	w := ctx.In("layer").VariableWithValue("w", 3)
	g := scalar.NewGraph("step")
	_, found := w.GradientIn(g)
	assert.False(t, found)

	node := w.NodeFor(g)
	assert.Equal(t, scalar.NodeTypeParameter, node.Type())
	assert.Equal(t, "/layer/w", node.Label())
	assert.Equal(t, 3.0, node.Value())
	assert.Same(t, node, w.NodeFor(g), "variable must be materialized once per graph")

	y := scalar.Square(node)
	scalar.Backward(y)
	grad, found := w.GradientIn(g)
	require.True(t, found)
	assert.Equal(t, 6.0, grad)

	// A new value only affects new graphs.
	w.SetValue(5)
	assert.Equal(t, 3.0, w.NodeFor(g).Value())
	assert.Equal(t, 5.0, w.NodeFor(scalar.NewGraph("next")).Value())
}

func TestParamsYAML(t *testing.T) {
	ctx := New()
	ctx.SetParam("learning_rate", 0.05)
	err := ctx.ParseParamsYAML([]byte(`
learning_rate: 1
activation: tanh
/layer_1:
  activation: relu
/layer_1/inner:
  units: 3
`))
	require.NoError(t, err)
	lr, found := ctx.GetParam("learning_rate")
	require.True(t, found)
	assert.Equal(t, 1.0, lr)
	assert.Equal(t, "tanh", GetParamOr(ctx, "activation", ""))
	assert.Equal(t, "relu", GetParamOr(ctx.In("layer_1"), "activation", ""))
	assert.Equal(t, "relu", GetParamOr(ctx.In("layer_1").In("inner"), "activation", ""))
	assert.Equal(t, 3, GetParamOr(ctx.In("layer_1").In("inner"), "units", 0))

	require.Error(t, ctx.ParseParamsYAML([]byte("/scope: 1")))
	require.Error(t, ctx.ParseParamsYAML([]byte("nested:\n  a: 1")))
	require.Error(t, ctx.ParseParamsYAML([]byte("[1, 2")))

	filePath := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte("rng_seed: 3\n"), 0o600))
	require.NoError(t, ctx.LoadParamsYAML(filePath))
	assert.Equal(t, 3, GetParamOr(ctx, ParamRNGSeed, 0))
	err = ctx.LoadParamsYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}
