// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package train

import (
	"github.com/gomlx/exceptions"
	. "github.com/gomlx/scalargrad/pkg/core/scalar"
)

// LossFn takes the predictions and labels of a batch (one node per example) and returns the scalar loss.
type LossFn func(predictions, labels []*Node) *Node

func checkLossInputs(name string, predictions, labels []*Node) {
	if len(predictions) == 0 {
		exceptions.Panicf("%s requires at least one prediction", name)
	}
	if len(predictions) != len(labels) {
		exceptions.Panicf("%s got %d predictions but %d labels", name, len(predictions), len(labels))
	}
}

// MeanSquaredError returns the mean of (prediction - label)² over the examples.
func MeanSquaredError(predictions, labels []*Node) *Node {
	checkLossInputs("MeanSquaredError", predictions, labels)
	errs := make([]*Node, len(predictions))
	for ii, prediction := range predictions {
		errs[ii] = Square(Sub(prediction, labels[ii]))
	}
	return Mean(errs...)
}

// HingeLoss returns the mean of max(0, 1 - label·score) over the examples, for labels in {-1, +1}.
//
// Examples with a margin of at least 1 contribute a constant 0, so no gradient flows from them.
func HingeLoss(scores, labels []*Node) *Node {
	checkLossInputs("HingeLoss", scores, labels)
	g := scores[0].Graph()
	terms := make([]*Node, len(scores))
	for ii, score := range scores {
		term := ScalarSub(1, Mul(labels[ii], score))
		if term.Value() <= 0 {
			term = Const(g, 0)
		}
		terms[ii] = term
	}
	return Mean(terms...)
}

// L2Regularization returns alpha·Σ pᵢ² over the given parameter nodes.
func L2Regularization(params []*Node, alpha float64) *Node {
	if len(params) == 0 {
		exceptions.Panicf("L2Regularization requires at least one parameter")
	}
	squares := make([]*Node, len(params))
	for ii, p := range params {
		squares[ii] = Square(p)
	}
	return MulScalar(Sum(squares...), alpha)
}

// Accuracy returns the fraction of examples where the sign of the score matches the sign of the label.
// It is a metric only and builds no nodes.
func Accuracy(scores, labels []*Node) float64 {
	checkLossInputs("Accuracy", scores, labels)
	var correct int
	for ii, score := range scores {
		if (score.Value() > 0) == (labels[ii].Value() > 0) {
			correct++
		}
	}
	return float64(correct) / float64(len(scores))
}
