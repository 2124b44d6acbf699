// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package train

import (
	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/gomlx/scalargrad/pkg/ml/context"
	"k8s.io/klog/v2"
)

const (
	// ParamLearningRate is the context parameter name for the learning rate.
	ParamLearningRate = "learning_rate"

	// SGDDefaultLearningRate is the default learning rate used by the SGD optimizer.
	SGDDefaultLearningRate = 0.05
)

// Optimizer updates the variables of a model from the gradients accumulated in a graph.
type Optimizer interface {
	// Update changes the value of the trainable variables, given the gradients accumulated in graph g.
	// Variables not used in g are left untouched.
	Update(g *Graph, vars []*context.Variable)
}

// SGD implements a Stochastic Gradient Descent optimizer: `v -= learning_rate · gradient`.
type SGD struct {
	ctx *context.Context
}

// NewSGD returns an SGD optimizer. The learning rate is read from the hyperparameter ParamLearningRate
// of ctx at every update (default SGDDefaultLearningRate), so it can be changed during training.
func NewSGD(ctx *context.Context) *SGD {
	return &SGD{ctx: ctx}
}

// LearningRate returns the current learning rate.
func (sgd *SGD) LearningRate() float64 {
	return context.GetParamOr(sgd.ctx, ParamLearningRate, SGDDefaultLearningRate)
}

// Update implements Optimizer.
func (sgd *SGD) Update(g *Graph, vars []*context.Variable) {
	learningRate := sgd.LearningRate()
	var numUpdated int
	for _, v := range vars {
		if !v.Trainable {
			continue
		}
		grad, found := v.GradientIn(g)
		if !found {
			continue
		}
		v.SetValue(v.Value() - learningRate*grad)
		numUpdated++
	}
	klog.V(3).Infof("SGD(learning_rate=%g) updated %d variables", learningRate, numUpdated)
}
