// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gomlx/scalargrad/pkg/ml/context"
	"github.com/gomlx/scalargrad/pkg/support/fsutil"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// settingsFilePrefix marks a setting that names a file with more settings.
const settingsFilePrefix = "file:"

// ParseContextSettings updates the hyperparameters in ctx from settings, a list of "param=value"
// separated by ";", typically the value of the flag created by CreateContextSettingsFlag.
//
// Every param must already have a default value in the root scope of ctx: the type of the default
// (int, float64, bool or string) is the type the value is parsed to. A scoped param, like
// "/layer_0/activation=relu", sets the value only for that scope and its sub-scopes.
// Integers may use "_" as a digit separator (1_000).
//
// An entry "file:<path>" reads more settings from the file, where new lines also separate settings
// and lines starting with "#" are comments.
//
// It returns the list of params set, in the order they were given.
func ParseContextSettings(ctx *context.Context, settings string) (paramsSet []string, err error) {
	return parseSettingsList(ctx, strings.Split(settings, ";"), paramsSet)
}

func parseSettingsList(ctx *context.Context, settings []string, paramsSet []string) ([]string, error) {
	for _, setting := range settings {
		setting = strings.TrimSpace(setting)
		var err error
		switch {
		case setting == "" || strings.HasPrefix(setting, "#"):
			continue
		case strings.HasPrefix(setting, settingsFilePrefix):
			paramsSet, err = parseSettingsFile(ctx, strings.TrimPrefix(setting, settingsFilePrefix), paramsSet)
		default:
			var paramPath string
			if paramPath, err = applySetting(ctx, setting); err == nil {
				paramsSet = append(paramsSet, paramPath)
			}
		}
		if err != nil {
			return paramsSet, err
		}
	}
	return paramsSet, nil
}

// applySetting parses one "param=value" setting and sets it in ctx. It returns the param path.
func applySetting(ctx *context.Context, setting string) (paramPath string, err error) {
	paramPath, valueStr, found := strings.Cut(setting, "=")
	if !found || strings.Contains(valueStr, "=") {
		return "", errors.Errorf("invalid setting %q: the format is \"<param>=<value>\"", setting)
	}
	paramScope, paramName := context.SplitScope(paramPath)
	if paramScope != "" && !strings.HasPrefix(paramScope, context.ScopeSeparator) {
		return "", errors.Errorf("invalid setting %q: scope %q must be absolute (start with %q)",
			setting, paramScope, context.ScopeSeparator)
	}
	defaultValue, found := ctx.GetParam(paramName)
	if !found {
		return "", errors.Errorf("invalid setting %q: hyperparameter %q has no default value", setting, paramName)
	}
	value, err := parseValueAs(defaultValue, valueStr)
	if err != nil {
		return "", errors.WithMessagef(err, "invalid setting %q", setting)
	}
	if paramScope != "" {
		ctx = ctx.InAbsPath(paramScope)
	}
	ctx.SetParam(paramName, value)
	return paramPath, nil
}

// parseValueAs parses valueStr to the same type as defaultValue.
func parseValueAs(defaultValue any, valueStr string) (any, error) {
	valueStr = strings.TrimSpace(valueStr)
	var err error
	switch value := defaultValue.(type) {
	case string:
		return valueStr, nil
	case int:
		err = json.Unmarshal([]byte(strings.ReplaceAll(valueStr, "_", "")), &value)
		return value, errors.Wrapf(err, "%q is not an int", valueStr)
	case float64:
		err = json.Unmarshal([]byte(valueStr), &value)
		return value, errors.Wrapf(err, "%q is not a number", valueStr)
	case bool:
		err = json.Unmarshal([]byte(valueStr), &value)
		return value, errors.Wrapf(err, "%q is not a bool", valueStr)
	}
	return nil, errors.Errorf("hyperparameters of type %T can't be set from the command line", defaultValue)
}

func parseSettingsFile(ctx *context.Context, filePath string, paramsSet []string) ([]string, error) {
	filePath, err := fsutil.ExpandHome(filePath)
	if err != nil {
		return paramsSet, err
	}
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return paramsSet, errors.Wrapf(err, "failed to read settings file %q", filePath)
	}
	settings := strings.FieldsFunc(string(contents), func(r rune) bool { return r == '\n' || r == ';' })
	paramsSet, err = parseSettingsList(ctx, settings, paramsSet)
	return paramsSet, errors.WithMessagef(err, "settings file %q", filePath)
}

// CreateContextSettingsFlag creates a string flag named flagName (or "set" if empty), whose usage lists
// the hyperparameters defined in the root scope of ctx with their default values.
//
// It must be called before flag.Parse(), and its value given to ParseContextSettings.
func CreateContextSettingsFlag(ctx *context.Context, flagName string) *string {
	if flagName == "" {
		flagName = "set"
	}
	usage := []string{fmt.Sprintf(
		`Hyperparameters to set, as "param=value" separated by ";". Use %q to set a param only within a scope `+
			`(e.g. "/layer_0/activation=relu"), and "file:<path>" to read settings from a file. Known parameters:`,
		context.ScopeSeparator)}
	ctx.EnumerateParams(func(scope, key string, value any) {
		if scope == context.RootScope {
			usage = append(usage, fmt.Sprintf("  %q: default value is %v", key, value))
		}
	})
	return flag.String(flagName, "", strings.Join(usage, "\n"))
}

// SprintContextSettings returns one line per hyperparameter in ctx, in every scope.
func SprintContextSettings(ctx *context.Context) string {
	var lines []string
	ctx.EnumerateParams(func(scope, key string, value any) {
		lines = append(lines, formatSetting(context.JoinScope(scope, key), value))
	})
	return strings.Join(lines, "\n")
}

// SprintModifiedContextSettings returns one line per param in paramsSet (as returned by
// ParseContextSettings), sorted and without repetitions.
func SprintModifiedContextSettings(ctx *context.Context, paramsSet []string) string {
	paramsSet = slices.Clone(paramsSet)
	slices.Sort(paramsSet)
	paramsSet = slices.Compact(paramsSet)
	lines := make([]string, 0, len(paramsSet))
	for _, paramPath := range paramsSet {
		paramScope, paramName := context.SplitScope(paramPath)
		if paramScope == "" {
			paramScope = context.RootScope
		}
		if value, found := ctx.InAbsPath(paramScope).GetParam(paramName); found {
			lines = append(lines, formatSetting(paramPath, value))
		}
	}
	return strings.Join(lines, "\n")
}

func formatSetting(paramPath string, value any) string {
	return fmt.Sprintf("\t%q: (%T) %v", paramPath, value, value)
}
