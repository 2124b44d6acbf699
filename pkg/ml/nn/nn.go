// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package nn implements a small multi-layer perceptron on top of the scalar autodiff engine.
//
// Weights and biases are context.Variable values: they persist across graphs, and in each
// scalar.Graph they are materialized as parameter leaves (see context.Variable.NodeFor). A model is
// built once with NewMLP, and then called with Call in as many graphs as needed.
package nn

import (
	"fmt"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/scalargrad/pkg/core/scalar"
	"github.com/gomlx/scalargrad/pkg/ml/context"
	"github.com/gomlx/scalargrad/pkg/ml/initializer"
	"github.com/gomlx/scalargrad/pkg/ml/nn/activations"
)

// Neuron computes `activation(Σ wᵢ·xᵢ + b)` for a fixed number of inputs.
type Neuron struct {
	ctx        *context.Context
	weights    []*context.Variable
	bias       *context.Variable
	activation activations.Type
}

// NewNeuron creates a neuron with nin inputs in the scope of ctx. The weights are named "w_<i>" and
// the bias "b": they are initialized with initializer.FromContext(ctx), with fan-in nin and fan-out 1.
//
// The activation is read from the hyperparameter activations.ParamActivation (default "tanh"). If
// linear is true no activation is applied.
func NewNeuron(ctx *context.Context, nin int, linear bool) *Neuron {
	if nin <= 0 {
		exceptions.Panicf("nn.NewNeuron(scope=%q) requires a positive number of inputs, got %d", ctx.Scope(), nin)
	}
	initFn := initializer.FromContext(ctx)
	n := &Neuron{
		ctx:        ctx,
		weights:    make([]*context.Variable, nin),
		activation: activations.TypeNone,
	}
	for ii := range n.weights {
		n.weights[ii] = ctx.VariableWithValue(fmt.Sprintf("w_%d", ii), initFn(nin, 1))
	}
	n.bias = ctx.VariableWithValue("b", initFn(nin, 1))
	if !linear {
		n.activation = activations.FromName(context.GetParamOr(ctx, activations.ParamActivation, "tanh"))
	}
	return n
}

// NumInputs returns the number of inputs the neuron accepts.
func (n *Neuron) NumInputs() int {
	return len(n.weights)
}

// Activation returns the activation applied to the neuron output.
func (n *Neuron) Activation() activations.Type {
	return n.activation
}

// Call builds the neuron computation in the graph of the inputs x.
func (n *Neuron) Call(g *Graph, x []*Node) *Node {
	if len(x) != len(n.weights) {
		exceptions.Panicf("neuron %q takes %d inputs, got %d", n.ctx.Scope(), len(n.weights), len(x))
	}
	terms := make([]*Node, 0, len(x)+1)
	for ii, xi := range x {
		terms = append(terms, Mul(n.weights[ii].NodeFor(g), xi))
	}
	terms = append(terms, n.bias.NodeFor(g))
	return activations.Apply(n.activation, Sum(terms...))
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*context.Variable {
	params := make([]*context.Variable, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// Layer is a set of neurons taking the same inputs.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a layer of nout neurons, each with nin inputs. Neuron i is created in
// the sub-scope "neuron_<i>" of ctx.
func NewLayer(ctx *context.Context, nin, nout int, linear bool) *Layer {
	if nout <= 0 {
		exceptions.Panicf("nn.NewLayer(scope=%q) requires a positive number of outputs, got %d", ctx.Scope(), nout)
	}
	l := &Layer{neurons: make([]*Neuron, nout)}
	for ii := range l.neurons {
		l.neurons[ii] = NewNeuron(ctx.Inf("neuron_%d", ii), nin, linear)
	}
	return l
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// Call returns one output per neuron.
func (l *Layer) Call(g *Graph, x []*Node) []*Node {
	outputs := make([]*Node, len(l.neurons))
	for ii, neuron := range l.neurons {
		outputs[ii] = neuron.Call(g, x)
	}
	return outputs
}

// Parameters of all neurons, in order.
func (l *Layer) Parameters() []*context.Variable {
	var params []*context.Variable
	for _, neuron := range l.neurons {
		params = append(params, neuron.Parameters()...)
	}
	return params
}

// MLP is a multi-layer perceptron: hidden layers use the configured activation, and the last
// layer is linear.
type MLP struct {
	nin    int
	layers []*Layer
}

// NewMLP creates an MLP with nin inputs and one layer per element of nouts, each with the given
// number of outputs. Layer i is created in the sub-scope "layer_<i>" of ctx, so the activation
// can be configured per layer.
//
// Example:
//
//	ctx := context.New()
//	ctx.SetParam(activations.ParamActivation, "relu")
//	model := nn.NewMLP(ctx, 3, 4, 4, 1)
func NewMLP(ctx *context.Context, nin int, nouts ...int) *MLP {
	if len(nouts) == 0 {
		exceptions.Panicf("nn.NewMLP requires at least one layer")
	}
	m := &MLP{nin: nin, layers: make([]*Layer, len(nouts))}
	layerIn := nin
	for ii, nout := range nouts {
		m.layers[ii] = NewLayer(ctx.Inf("layer_%d", ii), layerIn, nout, ii == len(nouts)-1)
		layerIn = nout
	}
	return m
}

// NumInputs returns the number of inputs the model accepts.
func (m *MLP) NumInputs() int {
	return m.nin
}

// Layers returns the layers of the model.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

// Call builds the model in graph g, and returns the outputs of the last layer.
func (m *MLP) Call(g *Graph, x []*Node) []*Node {
	for _, layer := range m.layers {
		x = layer.Call(g, x)
	}
	return x
}

// CallValues is like Call, but takes the inputs as values, converted to constants of g.
func (m *MLP) CallValues(g *Graph, x []float64) []*Node {
	inputs := make([]*Node, len(x))
	for ii, value := range x {
		inputs[ii] = Const(g, value)
	}
	return m.Call(g, inputs)
}

// Parameters returns all variables of the model, flattened in creation order.
func (m *MLP) Parameters() []*context.Variable {
	var params []*context.Variable
	for _, layer := range m.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// ParameterNodes returns the parameter leaves of the model materialized in graph g.
func (m *MLP) ParameterNodes(g *Graph) []*Node {
	params := m.Parameters()
	nodes := make([]*Node, len(params))
	for ii, v := range params {
		nodes[ii] = v.NodeFor(g)
	}
	return nodes
}

// String implements fmt.Stringer.
func (m *MLP) String() string {
	s := fmt.Sprintf("MLP(%d inputs", m.nin)
	for ii, layer := range m.layers {
		s += fmt.Sprintf(", layer_%d: %d×%s", ii, len(layer.neurons), layer.neurons[0].activation)
	}
	return s + ")"
}
