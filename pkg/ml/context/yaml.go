// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package context

import (
	"os"
	"strings"

	"github.com/gomlx/scalargrad/pkg/support/fsutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadParamsYAML reads hyperparameters from a YAML file and sets them in the Context, see ParseParamsYAML.
//
// A leading "~" in filePath is expanded to the user's home directory.
func (ctx *Context) LoadParamsYAML(filePath string) error {
	filePath, err := fsutil.ExpandHome(filePath)
	if err != nil {
		return err
	}
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read hyperparameters from %q", filePath)
	}
	return errors.WithMessagef(ctx.ParseParamsYAML(contents), "hyperparameters file %q", filePath)
}

// ParseParamsYAML parses a YAML mapping of hyperparameters and sets them in the current scope.
//
// Keys starting with ScopeSeparator are sub-scopes (relative to the current scope) whose
// values must themselves be mappings of hyperparameters. E.g.:
//
//	learning_rate: 0.1
//	activation: tanh
//	/layer_1:
//	  activation: relu
//
// Integer values set for hyperparameters that already hold a float64 are stored as float64.
func (ctx *Context) ParseParamsYAML(contents []byte) error {
	var settings map[string]any
	if err := yaml.Unmarshal(contents, &settings); err != nil {
		return errors.Wrap(err, "failed to parse hyperparameters YAML")
	}
	return ctx.setParamsFromMap(settings)
}

func (ctx *Context) setParamsFromMap(settings map[string]any) error {
	for key, value := range settings {
		if strings.HasPrefix(key, ScopeSeparator) {
			subSettings, ok := value.(map[string]any)
			if !ok {
				return errors.Errorf("scope %q must hold a mapping of hyperparameters, got %T", key, value)
			}
			scopeCtx := ctx
			for _, part := range strings.Split(strings.Trim(key, ScopeSeparator), ScopeSeparator) {
				if part == "" {
					return errors.Errorf("invalid scope %q in hyperparameters", key)
				}
				scopeCtx = scopeCtx.In(part)
			}
			if err := scopeCtx.setParamsFromMap(subSettings); err != nil {
				return errors.WithMessagef(err, "in scope %q", key)
			}
			continue
		}
		if _, isMap := value.(map[string]any); isMap {
			return errors.Errorf("hyperparameter %q holds a mapping: sub-scopes must start with %q", key, ScopeSeparator)
		}
		if asInt, isInt := value.(int); isInt {
			if previous, found := ctx.GetParam(key); found {
				if _, isFloat := previous.(float64); isFloat {
					value = float64(asInt)
				}
			}
		}
		ctx.SetParam(key, value)
	}
	return nil
}
