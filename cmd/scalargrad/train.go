// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/gomlx/scalargrad/pkg/ml/context"
	"github.com/gomlx/scalargrad/pkg/ml/nn"
	"github.com/gomlx/scalargrad/pkg/ml/train"
	"github.com/gomlx/scalargrad/ui/commandline"
	"github.com/pkg/errors"
)

// toyDataset returns 4 examples with 3 inputs each, labeled -1 or +1.
func toyDataset() (*train.InMemoryDataset, error) {
	return train.NewInMemoryDataset("toy",
		[][]float64{
			{2, 3, -1},
			{3, -1, 0.5},
			{0.5, 1, 1},
			{1, 1, -1},
		},
		[]float64{1, -1, -1, 1}, 0)
}

// lossFromContext returns the loss selected by the "loss" hyperparameter: "mse" or "hinge".
func lossFromContext(ctx *context.Context) (train.LossFn, error) {
	switch name := context.GetParamOr(ctx, "loss", "mse"); name {
	case "mse":
		return train.MeanSquaredError, nil
	case "hinge":
		return train.HingeLoss, nil
	default:
		return nil, errors.Errorf("unknown loss %q, valid values are \"mse\" and \"hinge\"", name)
	}
}

// trainToyModel trains an MLP with two hidden layers on the toy dataset, and reports the results.
func trainToyModel(ctx *context.Context, hidden, steps int) error {
	ds, err := toyDataset()
	if err != nil {
		return err
	}
	lossFn, err := lossFromContext(ctx)
	if err != nil {
		return err
	}
	model := nn.NewMLP(ctx, ds.NumInputs(), hidden, hidden, 1)
	_, _ = fmt.Fprintf(commandline.Output, "%s\n\n", model)

	loop := train.NewLoop(ctx, model, ds, lossFn, train.NewSGD(ctx))
	commandline.AttachProgressBar(loop)
	if _, err = loop.RunSteps(steps); err != nil {
		return err
	}
	return commandline.ReportEval(model, lossFn, ds)
}
