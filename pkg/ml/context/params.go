// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package context

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// scopedParams provides a mapping from string to any data type that is "scoped":
//
//   - For every scope there is a map of string to data.
//   - Accessing a key triggers a search from the current scope up to the root scope, the
//     first result found is returned.
//
// Example: let's say the current scopedParams hold:
//
//	Scope: "/": { "x":10, "y": 20, "z": 40 }
//	Scope: "/a": { "y": 30 }
//	Scope: "/a/b": { "x": 100 }
//
//	scopedParams.Get("/a/b", "x") -> 100
//	scopedParams.Get("/a/b", "y") -> 30
//	scopedParams.Get("/a/b", "z") -> 40
//	scopedParams.Get("/a/b", "w") -> Not found.
type scopedParams struct {
	scopeToMap map[string]map[string]any
}

func newScopedParams() *scopedParams {
	return &scopedParams{scopeToMap: make(map[string]map[string]any)}
}

// Set sets the value for the given key, in the given scope.
func (p *scopedParams) Set(scope, key string, value any) {
	dataMap, found := p.scopeToMap[scope]
	if !found {
		dataMap = make(map[string]any)
		p.scopeToMap[scope] = dataMap
	}
	dataMap[key] = value
}

// Get retrieves the value for the given key in the given scope or any parent scope.
// E.g: Get("/a/b", "myKey") will search for "myKey" in scopes "/a/b", "/a" and "/"
// consecutively until "myKey" is found.
func (p *scopedParams) Get(scope, key string) (value any, found bool) {
	for {
		if dataMap, ok := p.scopeToMap[scope]; ok {
			if value, found = dataMap[key]; found {
				return
			}
		}
		if scope == RootScope {
			return nil, false
		}
		scope = parentScope(scope)
	}
}

// Enumerate calls fn for every parameter, sorted by scope and then by key.
func (p *scopedParams) Enumerate(fn func(scope, key string, value any)) {
	scopes := maps.Keys(p.scopeToMap)
	slices.Sort(scopes)
	for _, scope := range scopes {
		keyValues := p.scopeToMap[scope]
		keys := maps.Keys(keyValues)
		slices.Sort(keys)
		for _, key := range keys {
			fn(scope, key, keyValues[key])
		}
	}
}

// parentScope returns the scope one level up. The parent of a top-level scope is RootScope.
func parentScope(scope string) string {
	idx := strings.LastIndex(scope, ScopeSeparator)
	if idx <= 0 {
		return RootScope
	}
	return scope[:idx]
}
