// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains convenience UI tools for the command line: hyperparameter settings
// flags, a training progress bar, and tables describing computation graphs.
package commandline

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/scalargrad/pkg/ml/train"
)

// ReportEval reports on the command line the results of evaluating the model on the datasets
// using train.Evaluate.
func ReportEval(model train.Model, lossFn train.LossFn, datasets ...train.Dataset) error {
	_, _ = fmt.Fprintf(Output, "Model with %s parameters\n", humanize.Comma(int64(len(model.Parameters()))))
	for _, ds := range datasets {
		loss, accuracy, err := train.Evaluate(model, ds, lossFn)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(Output, "Results on %s:\n", ds.Name())
		_, _ = fmt.Fprintf(Output, "\tLoss: %.6g\n", loss)
		_, _ = fmt.Fprintf(Output, "\tAccuracy: %.2f%%\n", 100*accuracy)
	}
	return nil
}
