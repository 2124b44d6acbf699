// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package context defines the Context and Variable types: Context organizes hyperparameters and
// variables, and Variable holds the persistent value of a trainable scalar.
//
// A model usually spawns one scalar.Graph per step (or per example): the graphs are short-lived
// and dropped after use, while the variables (the model weights) and hyperparameters live in
// the Context and are shared by all graphs.
package context

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/exceptions"
	"golang.org/x/exp/rand"
)

const (
	// ScopeSeparator is used between levels of scope. Scope names cannot use this character.
	ScopeSeparator = "/"

	// RootScope is the scope at the very root.
	RootScope = ScopeSeparator

	// ParamRNGSeed is the hyperparameter with the seed used by Context.RNG. Default is 42.
	ParamRNGSeed = "rng_seed"
)

// Context organizes information shared in a model (or anything else):
//
//  1. Variables: model variables or weights, see Variable.
//  2. Parameters: hyperparameters and also any arbitrary information that
//     needs sharing among the graph building functions using the Context.
//
// Both are organized in "scopes". The Context object is a thin wrapper that contains the current scope
// (similar to a current directory) and a link to the actual data. One can change scopes by using
// Context.In("new_scope"): it returns a new Context with the new scope set, but still pointing
// (sharing) all the data with the previous Context. E.g:
//
//	ctx := context.New()
//	ctx.SetParam("activation", "tanh")
//	layerCtx := ctx.In("output_layer")
//	layerCtx.SetParam("activation", "none")  // Only for the "output_layer" scope and its sub-scopes.
//
// A Context is not safe for concurrent use.
type Context struct {
	// scope for currently created variables and registration.
	scope string

	// initializer is used to initialize variable values, see Context.Initializer.
	initializer VariableInitializer

	data *contextData
}

// contextData stores all context information and is shared among various Context, which
// serve only as scoped references.
type contextData struct {
	params *scopedParams

	// variablesMap for this context organized per scope, and then by name.
	variablesMap map[string]map[string]*Variable

	// variables is a plain list of all variables, in creation order.
	variables []*Variable

	rng *rand.Rand
}

// VariableInitializer returns the initial value of a variable, given the number of inputs (fanIn) and
// outputs (fanOut) of the unit it belongs to. See package initializer for implementations.
type VariableInitializer func(fanIn, fanOut int) float64

// New returns an empty Context, with the scope set to the root.
func New() *Context {
	return &Context{
		scope: RootScope,
		data: &contextData{
			params:       newScopedParams(),
			variablesMap: make(map[string]map[string]*Variable),
		},
	}
}

// copy creates a copy of the Context, but sharing the same "data" component.
func (ctx *Context) copy() *Context {
	ctx2 := *ctx
	return &ctx2
}

// Scope returns the full scope path.
func (ctx *Context) Scope() string {
	return ctx.scope
}

// In returns a new reference to the Context with the extra given scope. No ScopeSeparator ("/") is
// allowed in scope.
func (ctx *Context) In(scope string) *Context {
	if scope == "" {
		exceptions.Panicf("cannot use empty scope for Context.In()")
	}
	if strings.Contains(scope, ScopeSeparator) {
		exceptions.Panicf("cannot use separator %q in scope element %q", ScopeSeparator, scope)
	}
	var newScope string
	if ctx.scope == RootScope {
		newScope = ScopeSeparator + scope
	} else {
		newScope = ctx.scope + ScopeSeparator + scope
	}
	return ctx.InAbsPath(newScope)
}

// Inf returns a new reference to the Context with the extra given scope, formatted with fmt.Sprintf.
func (ctx *Context) Inf(format string, args ...any) *Context {
	return ctx.In(fmt.Sprintf(format, args...))
}

// InAbsPath returns a new reference to the Context with the given absolute scope path.
// It must start with ScopeSeparator. Use RootScope for the root scope.
func (ctx *Context) InAbsPath(scopePath string) *Context {
	if !strings.HasPrefix(scopePath, ScopeSeparator) {
		exceptions.Panicf("absolute scope path must start with separator %q, instead got %q", ScopeSeparator, scopePath)
	}
	if len(scopePath) > 1 && strings.HasSuffix(scopePath, ScopeSeparator) {
		exceptions.Panicf("absolute scope path %q cannot end with separator %q", scopePath, ScopeSeparator)
	}
	ctx2 := ctx.copy()
	ctx2.scope = scopePath
	return ctx2
}

// SplitScope splits a "/scope/path/name" into its scope ("/scope/path") and name. If there
// is no scope, scope is returned empty.
func SplitScope(scopeAndName string) (scope, name string) {
	idx := strings.LastIndex(scopeAndName, ScopeSeparator)
	if idx < 0 {
		return "", scopeAndName
	}
	name = scopeAndName[idx+1:]
	if idx == 0 {
		return RootScope, name
	}
	return scopeAndName[:idx], name
}

// JoinScope joins a scope and a name with the ScopeSeparator.
func JoinScope(scope, name string) string {
	if scope == RootScope {
		return RootScope + name
	}
	return scope + ScopeSeparator + name
}

// WithInitializer returns a new reference to the Context, with the initializer set.
// It is used by the model building functions (see package nn) to initialize new variables.
func (ctx *Context) WithInitializer(initializer VariableInitializer) *Context {
	ctx2 := ctx.copy()
	ctx2.initializer = initializer
	return ctx2
}

// Initializer returns the initializer set with WithInitializer, or nil if none was set.
func (ctx *Context) Initializer() VariableInitializer {
	return ctx.initializer
}

// RNG returns the random number generator shared by all references to this Context. It is
// created on first use, seeded with the ParamRNGSeed hyperparameter (default 42), so models
// built with the same hyperparameters are initialized the same way.
func (ctx *Context) RNG() *rand.Rand {
	if ctx.data.rng == nil {
		seed := GetParamOr(ctx, ParamRNGSeed, 42)
		ctx.data.rng = rand.New(rand.NewSource(uint64(seed)))
	}
	return ctx.data.rng
}

// SetParam sets the given param in the current scope. It will be visible (by GetParam)
// within this scope and descendant scopes (but not by other scopes).
func (ctx *Context) SetParam(key string, value any) {
	ctx.data.params.Set(ctx.scope, key, value)
}

// SetParams sets a collection of parameters in the current scope.
func (ctx *Context) SetParams(keyValues map[string]any) {
	for key, value := range keyValues {
		ctx.SetParam(key, value)
	}
}

// GetParam returns the value for the given param key, searching successively from
// the current scope back to the root scope ("/"), in case the key is not found.
func (ctx *Context) GetParam(key string) (value any, found bool) {
	return ctx.data.params.Get(ctx.scope, key)
}

// EnumerateParams enumerates all parameters for all scopes, sorted by scope and key.
func (ctx *Context) EnumerateParams(fn func(scope, key string, value any)) {
	ctx.data.params.Enumerate(fn)
}

// GetParamOr either returns the value for the given param key in the context `ctx`,
// searching successively from the current scope back to the root scope ("/"), or if the
// key is not found or the key is set to nil, it returns the given default value.
//
// It tries to cast the value to the given type. If it fails, it tries to convert the
// value to the given type (so an `int` will be converted to a `float64` transparently).
// If that also fails, it panics with an explanatory error.
func GetParamOr[T any](ctx *Context, key string, defaultValue T) T {
	valueAny, found := ctx.GetParam(key)
	if !found || valueAny == nil {
		return defaultValue
	}
	if value, ok := valueAny.(T); ok {
		return value
	}
	v := reflect.ValueOf(valueAny)
	typeOfT := reflect.TypeOf(defaultValue)
	if typeOfT == nil || !v.CanConvert(typeOfT) || v.Kind() == reflect.String || typeOfT.Kind() == reflect.String {
		exceptions.Panicf("GetParamOr[%T](ctx, %q): ctx(scope=%q)[%q]=(%T) %#v, and cannot be converted to %T",
			defaultValue, key, ctx.Scope(), key, valueAny, valueAny, defaultValue)
	}
	return v.Convert(typeOfT).Interface().(T)
}
