// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package context

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/scalargrad/pkg/core/scalar"
)

// Variable is a value shared by all graphs built from a Context, typically a model weight.
//
// In each scalar.Graph the variable is materialized as a Parameter leaf node (see Variable.NodeFor),
// named after the variable's full scope and name. After a backward pass, the gradient with respect
// to the variable is the gradient of that node.
type Variable struct {
	name, scope string

	// Trainable indicates whether the variable is trainable.
	// If set to false, it won't be touched by optimizers.
	Trainable bool

	value float64
}

// Name of the variable within the scope.
func (v *Variable) Name() string {
	return v.name
}

// Scope where the variable was created.
func (v *Variable) Scope() string {
	return v.scope
}

// ScopeAndName returns the absolute path of the variable, e.g. "/layer_0/neuron_1/w_0". It's also
// the name of the Parameter node created for the variable in each graph.
func (v *Variable) ScopeAndName() string {
	return JoinScope(v.scope, v.name)
}

// Value returns the current value of the variable.
func (v *Variable) Value() float64 {
	return v.value
}

// SetValue updates the value of the variable. Graphs that already materialized the variable
// keep the value they were built with.
func (v *Variable) SetValue(value float64) {
	v.value = value
}

// NodeFor returns the Parameter node holding the variable's value in graph g, creating it if
// this is the first time the variable is used in g.
func (v *Variable) NodeFor(g *scalar.Graph) *scalar.Node {
	name := v.ScopeAndName()
	if node := g.ParameterByName(name); node != nil {
		return node
	}
	return g.Parameter(name, v.value)
}

// GradientIn returns the gradient accumulated for the variable in graph g, and whether the variable
// was used in g at all.
func (v *Variable) GradientIn(g *scalar.Graph) (gradient float64, found bool) {
	node := g.ParameterByName(v.ScopeAndName())
	if node == nil {
		return 0, false
	}
	return node.Gradient(), true
}

// String implements fmt.Stringer.
func (v *Variable) String() string {
	return v.ScopeAndName()
}

// VariableWithValue creates a new variable in the current scope with the given value.
//
// It panics if a variable with the same name already exists in the scope, use
// GetVariable to reuse an existing variable.
func (ctx *Context) VariableWithValue(name string, value float64) *Variable {
	if name == "" {
		exceptions.Panicf("Context.VariableWithValue() requires a non-empty name")
	}
	if ctx.GetVariable(name) != nil {
		exceptions.Panicf("variable %q already exists in scope %q", name, ctx.scope)
	}
	v := &Variable{
		name:      name,
		scope:     ctx.scope,
		Trainable: true,
		value:     value,
	}
	scopeVars, found := ctx.data.variablesMap[ctx.scope]
	if !found {
		scopeVars = make(map[string]*Variable)
		ctx.data.variablesMap[ctx.scope] = scopeVars
	}
	scopeVars[name] = v
	ctx.data.variables = append(ctx.data.variables, v)
	return v
}

// VariableWithInitializer creates a new variable in the current scope, initialized with the
// Context initializer (see WithInitializer). fanIn and fanOut are passed to the initializer.
//
// It panics if no initializer was set.
func (ctx *Context) VariableWithInitializer(name string, fanIn, fanOut int) *Variable {
	if ctx.initializer == nil {
		exceptions.Panicf("Context(scope=%q) has no initializer to create variable %q, see Context.WithInitializer",
			ctx.scope, name)
	}
	return ctx.VariableWithValue(name, ctx.initializer(fanIn, fanOut))
}

// GetVariable returns the variable with the given name in the current scope, or nil if it doesn't exist.
func (ctx *Context) GetVariable(name string) *Variable {
	scopeVars, found := ctx.data.variablesMap[ctx.scope]
	if !found {
		return nil
	}
	return scopeVars[name]
}

// GetVariableByScopeAndName returns the variable with the given absolute path, or nil if it doesn't exist.
func (ctx *Context) GetVariableByScopeAndName(scopeAndName string) *Variable {
	scope, name := SplitScope(scopeAndName)
	scopeVars, found := ctx.data.variablesMap[scope]
	if !found {
		return nil
	}
	return scopeVars[name]
}

// NumVariables returns the number of variables created in the Context, in all scopes.
func (ctx *Context) NumVariables() int {
	return len(ctx.data.variables)
}

// EnumerateVariables calls fn for every variable, in all scopes, in creation order.
func (ctx *Context) EnumerateVariables(fn func(v *Variable)) {
	for _, v := range ctx.data.variables {
		fn(v)
	}
}

// EnumerateVariablesInScope calls fn for the variables of the current scope and its sub-scopes,
// in creation order.
func (ctx *Context) EnumerateVariablesInScope(fn func(v *Variable)) {
	for _, v := range ctx.data.variables {
		if ctx.scope == RootScope || v.scope == ctx.scope || len(v.scope) > len(ctx.scope) &&
			v.scope[:len(ctx.scope)+1] == ctx.scope+ScopeSeparator {
			fn(v)
		}
	}
}
