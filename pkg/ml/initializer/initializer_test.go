// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package initializer_test

import (
	"math"
	"testing"

	"github.com/gomlx/scalargrad/pkg/ml/context"
	. "github.com/gomlx/scalargrad/pkg/ml/initializer"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestConstant(t *testing.T) {
	assert.Equal(t, 0.0, Zero(3, 4))
	assert.Equal(t, 1.0, One(3, 4))
	assert.Equal(t, 0.5, Constant(0.5)(1, 1))
}

func TestUniform(t *testing.T) {
	initFn := Uniform(rand.New(rand.NewSource(1)), -2, 3)
	var sum float64
	const numSamples = 10000
	for range numSamples {
		v := initFn(1, 1)
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 3.0)
		sum += v
	}
	assert.InDelta(t, 0.5, sum/numSamples, 0.1)
	assert.Panics(t, func() { Uniform(rand.New(rand.NewSource(1)), 1, 0) })
}

func TestNormal(t *testing.T) {
	initFn := Normal(rand.New(rand.NewSource(1)), 2)
	var sum, sum2 float64
	const numSamples = 10000
	for range numSamples {
		v := initFn(1, 1)
		sum += v
		sum2 += v * v
	}
	mean := sum / numSamples
	assert.InDelta(t, 0.0, mean, 0.1)
	assert.InDelta(t, 2.0, math.Sqrt(sum2/numSamples-mean*mean), 0.1)
}

func TestGlorotUniform(t *testing.T) {
	initFn := GlorotUniform(rand.New(rand.NewSource(1)))
	limit := math.Sqrt(3.0 / 4.0)
	for range 1000 {
		v := initFn(2, 6)
		assert.LessOrEqual(t, math.Abs(v), limit)
	}
	// Non-positive fans are taken as 1.
	for range 100 {
		assert.LessOrEqual(t, math.Abs(initFn(0, 0)), math.Sqrt(3.0))
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.New()
	initFn := FromContext(ctx)
	for range 100 {
		v := initFn(1, 1)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
	ctx = ctx.WithInitializer(Constant(7))
	assert.Equal(t, 7.0, FromContext(ctx)(1, 1))
}
