// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// scalargrad demonstrates the scalar autodiff engine.
//
// With -mode=pipeline it builds a few small expressions from -a, -b and -c, prints each node with its
// operands and operation, and renders the gradients of d = a*b + c.
//
// With -mode=train it trains a small MLP on a toy classification dataset, with hyperparameters set
// with -set and/or -config.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/scalargrad/pkg/ml/context"
	"github.com/gomlx/scalargrad/pkg/ml/nn/activations"
	"github.com/gomlx/scalargrad/pkg/ml/train"
	"github.com/gomlx/scalargrad/ui/commandline"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagMode = flag.String("mode", "pipeline", `Either "pipeline" or "train".`)

	flagA = flag.Float64("a", 2, "Value of a, for -mode=pipeline.")
	flagB = flag.Float64("b", -3, "Value of b, for -mode=pipeline.")
	flagC = flag.Float64("c", 10, "Value of c, for -mode=pipeline.")

	flagNumSteps = flag.Int("steps", 100, "Number of gradient descent steps to perform, for -mode=train.")
	flagConfig   = flag.String("config", "", "YAML file with hyperparameters, for -mode=train. "+
		"It is applied before -set.")
	flagHidden = flag.Int("hidden", 4, "Number of units in each of the two hidden layers, for -mode=train.")
)

// createDefaultContext sets the hyperparameters that can be changed with -set or -config.
func createDefaultContext() *context.Context {
	ctx := context.New()
	ctx.SetParams(map[string]any{
		train.ParamLearningRate:     train.SGDDefaultLearningRate,
		train.ParamL2Regularization: 0.0,
		activations.ParamActivation: "tanh",
		context.ParamRNGSeed:        42,
		"loss":                      "mse",
	})
	return ctx
}

func main() {
	klog.InitFlags(nil)
	ctx := createDefaultContext()
	settings := commandline.CreateContextSettingsFlag(ctx, "")
	flag.Parse()

	switch *flagMode {
	case "pipeline":
		runPipeline(os.Stdout, *flagA, *flagB, *flagC)
	case "train":
		if *flagConfig != "" {
			must.M(ctx.LoadParamsYAML(*flagConfig))
		}
		paramsSet := must.M1(commandline.ParseContextSettings(ctx, *settings))
		if len(paramsSet) > 0 {
			fmt.Printf("Hyperparameters set:\n%s\n\n", commandline.SprintModifiedContextSettings(ctx, paramsSet))
		}
		if err := trainToyModel(ctx, *flagHidden, *flagNumSteps); err != nil {
			klog.Fatalf("Training failed: %+v", err)
		}
	default:
		klog.Errorf("Unknown -mode=%q, see 'scalargrad -help'", *flagMode)
		os.Exit(1)
	}
}
