// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package initializer provides initial values for the variables of a model, see
// context.VariableInitializer and context.Context.WithInitializer.
package initializer

import (
	"math"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/scalargrad/pkg/ml/context"
	"golang.org/x/exp/rand"
)

// Initializer is an alias to context.VariableInitializer:
//
//	func(fanIn, fanOut int) float64
type Initializer = context.VariableInitializer

var (
	// Zero initializes variables with zero.
	Zero Initializer = Constant(0)

	// One initializes variables with one.
	One Initializer = Constant(1)
)

// Constant returns an initializer that always returns value.
func Constant(value float64) Initializer {
	return func(_, _ int) float64 {
		return value
	}
}

// Uniform returns an initializer that generates random uniform values from [minValue, maxValue).
func Uniform(rng *rand.Rand, minValue, maxValue float64) Initializer {
	if maxValue < minValue {
		exceptions.Panicf("initializer.Uniform(min=%g, max=%g): max must be >= min", minValue, maxValue)
	}
	return func(_, _ int) float64 {
		return minValue + rng.Float64()*(maxValue-minValue)
	}
}

// Normal returns an initializer that generates random normal values with the given standard deviation
// and mean set to 0.
func Normal(rng *rand.Rand, stddev float64) Initializer {
	return func(_, _ int) float64 {
		return rng.NormFloat64() * stddev
	}
}

// GlorotUniform returns a Glorot uniform initializer, also called Xavier uniform initializer.
//
// It draws samples from a uniform distribution within `[-limit, limit]`, where
// `limit = sqrt(3 / ((fan_in + fan_out)/2))`. Non-positive fans are taken as 1.
func GlorotUniform(rng *rand.Rand) Initializer {
	return func(fanIn, fanOut int) float64 {
		fanIn, fanOut = max(fanIn, 1), max(fanOut, 1)
		limit := math.Sqrt(3.0 / (float64(fanIn+fanOut) / 2.0))
		return (2*rng.Float64() - 1) * limit
	}
}

// FromContext returns the initializer to use for the given context: the one set with
// context.Context.WithInitializer, or, if none is set, Uniform(ctx.RNG(), -1, 1).
func FromContext(ctx *context.Context) Initializer {
	if initFn := ctx.Initializer(); initFn != nil {
		return initFn
	}
	return Uniform(ctx.RNG(), -1, 1)
}
