// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package train

import (
	"io"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/pkg/errors"
)

// Evaluate runs the model over all the batches of the dataset, until io.EOF, and returns the loss
// (averaged over the examples, weighting each batch by its size) and the sign Accuracy. Gradients
// are not computed and the variables are not changed.
//
// The dataset is reset before and after the evaluation.
func Evaluate(model Model, ds Dataset, lossFn LossFn) (loss, accuracy float64, err error) {
	ds.Reset()
	defer ds.Reset()
	var numExamples int
	for {
		inputs, labels, yieldErr := ds.Yield()
		if yieldErr == io.EOF {
			break
		}
		if yieldErr != nil {
			return 0, 0, errors.WithMessagef(yieldErr, "failed reading from dataset %q", ds.Name())
		}
		g := NewGraph("eval_" + ds.Name())
		err = exceptions.TryCatch[error](func() {
			predictions, labelNodes := callModel(g, model, inputs, labels)
			loss += lossFn(predictions, labelNodes).Value() * float64(len(inputs))
			accuracy += Accuracy(predictions, labelNodes) * float64(len(inputs))
		})
		g.Finalize()
		if err != nil {
			return 0, 0, errors.WithMessagef(err, "failed evaluating model on dataset %q", ds.Name())
		}
		numExamples += len(inputs)
	}
	if numExamples == 0 {
		return 0, 0, errors.Errorf("dataset %q has no examples to evaluate", ds.Name())
	}
	return loss / float64(numExamples), accuracy / float64(numExamples), nil
}

// callModel builds the model in g for each example, and returns its first output and the label, as nodes.
func callModel(g *Graph, model Model, inputs [][]float64, labels []float64) (predictions, labelNodes []*Node) {
	predictions = make([]*Node, len(inputs))
	labelNodes = make([]*Node, len(labels))
	for ii, example := range inputs {
		x := make([]*Node, len(example))
		for jj, value := range example {
			x[jj] = Const(g, value)
		}
		predictions[ii] = model.Call(g, x)[0]
		labelNodes[ii] = Const(g, labels[ii])
	}
	return
}
