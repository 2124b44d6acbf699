// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package train implements losses, an SGD optimizer and a training Loop for models built with the
// scalar autodiff engine.
package train

import (
	"fmt"
	"io"
	"iter"
	"math"
	"sort"
	"time"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/gomlx/scalargrad/pkg/ml/context"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ParamL2Regularization is the context parameter name for the L2 regularization coefficient added
// to the loss by the Loop. Default is 0 (no regularization).
const ParamL2Regularization = "l2_regularization"

// Model is what a Loop trains: an MLP from package nn implements it.
type Model interface {
	// Call builds the model in graph g for one example and returns its outputs. The Loop uses the
	// first output as the prediction.
	Call(g *Graph, x []*Node) []*Node

	// Parameters returns the variables of the model.
	Parameters() []*context.Variable
}

// Priority for hooks, the lowest values are run first. Defaults to 0, but negative values are ok.
type Priority int

// OnStartFn is the type of OnStart hooks.
type OnStartFn func(loop *Loop) error

// OnStepFn is the type of OnStep hooks. It is called after the variables are updated, with the
// loss of the step.
type OnStepFn func(loop *Loop, loss float64) error

// OnEndFn is the type of OnEnd hooks.
type OnEndFn func(loop *Loop, loss float64) error

// Loop runs a training loop: for every step it builds a fresh graph with the model and loss for one
// batch, runs the backward pass and updates the variables with the optimizer, calling the registered
// hooks.
//
// It also converts graph building errors thrown with `panic` and return them
// instead as normal errors.
//
// The public attributes are meant for reading only.
type Loop struct {
	// LoopStep currently being executed. It starts at 0 and persists across calls to RunSteps.
	LoopStep int

	// StartStep is the value of LoopStep at the start of RunSteps.
	StartStep int

	// EndStep is one-past the last step to be executed in the current RunSteps.
	EndStep int

	// LastGraph is the graph of the last step executed, kept for inspection (e.g. for rendering it).
	LastGraph *Graph

	// TrainStepDurations collected during the last RunSteps.
	TrainStepDurations []time.Duration

	ctx     *context.Context
	model   Model
	ds      Dataset
	lossFn  LossFn
	opt     Optimizer
	onStart *priorityHooks[*hookWithName[OnStartFn]]
	onStep  *priorityHooks[*hookWithName[OnStepFn]]
	onEnd   *priorityHooks[*hookWithName[OnEndFn]]
}

// NewLoop creates a new training loop.
func NewLoop(ctx *context.Context, model Model, ds Dataset, lossFn LossFn, opt Optimizer) *Loop {
	return &Loop{
		ctx:     ctx,
		model:   model,
		ds:      ds,
		lossFn:  lossFn,
		opt:     opt,
		onStart: newPriorityHooks[*hookWithName[OnStartFn]](),
		onStep:  newPriorityHooks[*hookWithName[OnStepFn]](),
		onEnd:   newPriorityHooks[*hookWithName[OnEndFn]](),
	}
}

// Model being trained.
func (loop *Loop) Model() Model {
	return loop.model
}

// Dataset used for training.
func (loop *Loop) Dataset() Dataset {
	return loop.ds
}

// RunSteps runs the given number of steps and returns the loss of the last one. The dataset is reset
// whenever it reaches its end.
func (loop *Loop) RunSteps(steps int) (loss float64, err error) {
	if steps <= 0 {
		return 0, nil
	}
	loop.StartStep = loop.LoopStep
	loop.EndStep = loop.LoopStep + steps
	loop.TrainStepDurations = make([]time.Duration, 0, steps)
	for hook := range loop.onStart.All() {
		if err = hook.fn(loop); err != nil {
			return 0, errors.WithMessagef(err, "train.Loop.OnStart(hook %q)", hook.name)
		}
	}
	for ; loop.LoopStep < loop.EndStep; loop.LoopStep++ {
		inputs, labels, err := loop.yield()
		if err != nil {
			return 0, errors.WithMessagef(err, "Loop.RunSteps(%d)", steps)
		}
		start := time.Now()
		loss, err = loop.step(inputs, labels)
		loop.TrainStepDurations = append(loop.TrainStepDurations, time.Since(start))
		if err != nil {
			return 0, errors.WithMessagef(err, "Loop.RunSteps(%d): failed train step (LoopStep=%d)",
				steps, loop.LoopStep)
		}
		if err = loop.postStep(loss); err != nil {
			return 0, err
		}
	}
	for hook := range loop.onEnd.All() {
		if err = hook.fn(loop, loss); err != nil {
			return 0, errors.WithMessagef(err, "train.Loop.OnEnd(hook %q)", hook.name)
		}
	}
	return loss, nil
}

// yield returns the next batch, resetting the dataset once if it reached its end.
func (loop *Loop) yield() (inputs [][]float64, labels []float64, err error) {
	inputs, labels, err = loop.ds.Yield()
	if err == io.EOF {
		loop.ds.Reset()
		inputs, labels, err = loop.ds.Yield()
	}
	if err != nil {
		if err == io.EOF {
			return nil, nil, errors.Errorf("dataset %q yielded no examples after Reset()", loop.ds.Name())
		}
		return nil, nil, errors.WithMessagef(err, "failed reading from dataset %q", loop.ds.Name())
	}
	if len(inputs) == 0 {
		return nil, nil, errors.Errorf("dataset %q yielded an empty batch", loop.ds.Name())
	}
	return
}

// step builds the graph for one batch, runs backward and updates the variables.
func (loop *Loop) step(inputs [][]float64, labels []float64) (loss float64, err error) {
	if loop.LastGraph != nil {
		loop.LastGraph.Finalize()
	}
	g := NewGraph(fmt.Sprintf("train_step_%d", loop.LoopStep))
	loop.LastGraph = g
	err = exceptions.TryCatch[error](func() {
		predictions, labelNodes := callModel(g, loop.model, inputs, labels)
		lossNode := loop.lossFn(predictions, labelNodes).SetLabel("loss")
		if alpha := context.GetParamOr(loop.ctx, ParamL2Regularization, 0.0); alpha > 0 {
			params := make([]*Node, 0, len(loop.model.Parameters()))
			for _, v := range loop.model.Parameters() {
				params = append(params, v.NodeFor(g))
			}
			lossNode = Add(lossNode, L2Regularization(params, alpha)).SetLabel("loss")
		}
		Backward(lossNode)
		loop.opt.Update(g, loop.model.Parameters())
		loss = lossNode.Value()
	})
	return
}

func (loop *Loop) postStep(loss float64) error {
	for hook := range loop.onStep.All() {
		if err := hook.fn(loop, loss); err != nil {
			return errors.WithMessagef(err, "train.Loop.OnStep(hook %q)", hook.name)
		}
	}
	if math.IsNaN(loss) {
		return errors.Errorf("batch loss is NaN, training interrupted at step %d", loop.LoopStep)
	}
	if math.IsInf(loss, 0) {
		return errors.Errorf("batch loss is infinity (%f), training interrupted at step %d", loss, loop.LoopStep)
	}
	if klog.V(1).Enabled() {
		klog.Infof("step %d: loss=%g", loop.LoopStep, loss)
	}
	return nil
}

// MedianTrainStepDuration returns the median duration of the training steps of the last RunSteps.
func (loop *Loop) MedianTrainStepDuration() time.Duration {
	if len(loop.TrainStepDurations) == 0 {
		return 0
	}
	durations := make([]time.Duration, len(loop.TrainStepDurations))
	copy(durations, loop.TrainStepDurations)
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	return durations[len(durations)/2]
}

// OnStart adds a hook with given priority and name (for error reporting) to the start of RunSteps.
func (loop *Loop) OnStart(name string, priority Priority, fn OnStartFn) {
	loop.onStart.Add(priority, &hookWithName[OnStartFn]{
		name: name,
		fn:   fn,
	})
}

// OnStep adds a hook with given priority and name (for error reporting) to each step of a loop.
func (loop *Loop) OnStep(name string, priority Priority, fn OnStepFn) {
	loop.onStep.Add(priority, &hookWithName[OnStepFn]{
		name: name,
		fn:   fn,
	})
}

// OnEnd adds a hook with given priority and name (for error reporting) to the end of RunSteps.
func (loop *Loop) OnEnd(name string, priority Priority, fn OnEndFn) {
	loop.onEnd.Add(priority, &hookWithName[OnEndFn]{
		name: name,
		fn:   fn,
	})
}

// hookWithName stores a hook name and function.
type hookWithName[F any] struct {
	name string
	fn   F
}

// priorityHooks organizes hooks for type F per priority.
type priorityHooks[H any] struct {
	hooks map[Priority][]H
}

func newPriorityHooks[H any]() *priorityHooks[H] {
	return &priorityHooks[H]{
		hooks: make(map[Priority][]H),
	}
}

// Add hook at the given priority.
func (h *priorityHooks[H]) Add(priority Priority, hook H) {
	h.hooks[priority] = append(h.hooks[priority], hook)
}

// All returns an iterator over all registered hooks in priority order.
func (h *priorityHooks[H]) All() iter.Seq[H] {
	return func(yield func(H) bool) {
		keys := make([]Priority, 0, len(h.hooks))
		for key := range h.hooks {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return keys[i] < keys[j]
		})
		for _, key := range keys {
			for _, hook := range h.hooks[key] {
				if !yield(hook) {
					return
				}
			}
		}
	}
}
