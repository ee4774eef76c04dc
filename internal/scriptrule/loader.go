package scriptrule

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
)

// LoadError represents an error loading a rule script.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("script rule %s: %s", e.File, e.Message)
}

// Load reads and executes the script at path and returns its rule.
func Load(path string, logger *slog.Logger) (*Rule, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user configuration
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	thread := &starlark.Thread{
		Name: "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, msg string) {
			logger.Debug("script print", "path", path, "msg", msg)
		},
	}
	globals, err := starlark.ExecFile(thread, path, content, nil) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}
	globals.Freeze()

	rule, err := ruleFromGlobals(path, globals)
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	rule.pool = newThreadPool(0, logger)
	rule.logger = logger

	logger.Debug("loaded script rule", "rule", rule.id, "path", path)
	return rule, nil
}

// LoadAll loads every script in paths. Script IDs must be unique and must
// not shadow a registered rule.
func LoadAll(paths []string, logger *slog.Logger) ([]lint.Rule, error) {
	seen := make(map[string]string)
	rules := make([]lint.Rule, 0, len(paths))
	for _, path := range paths {
		rule, err := Load(path, logger)
		if err != nil {
			return nil, err
		}
		if _, ok := lint.GetRuleByID(rule.id); ok {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("rule ID %s is already defined by a built-in rule", rule.id)}
		}
		if other, ok := seen[rule.id]; ok {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("rule ID %s is already defined in %s", rule.id, other)}
		}
		seen[rule.id] = path
		rules = append(rules, rule)
	}
	return rules, nil
}

func ruleFromGlobals(path string, globals starlark.StringDict) (*Rule, error) {
	if _, ok := globals["id"]; !ok {
		return nil, fmt.Errorf("missing id")
	}
	id, err := globalString(globals, "id", "")
	if err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name, err := globalString(globals, "name", "script."+base)
	if err != nil {
		return nil, err
	}
	description, err := globalString(globals, "description", "")
	if err != nil {
		return nil, err
	}

	sevName, err := globalString(globals, "severity", "warning")
	if err != nil {
		return nil, err
	}
	severity, err := lint.ParseSeverity(sevName)
	if err != nil {
		return nil, fmt.Errorf("severity: %w", err)
	}

	var configKeys []string
	if v, ok := globals["options"]; ok {
		list, ok := v.(*starlark.List)
		if !ok {
			return nil, fmt.Errorf("options must be a list of strings, got %s", v.Type())
		}
		for i := 0; i < list.Len(); i++ {
			key, ok := starlark.AsString(list.Index(i))
			if !ok {
				return nil, fmt.Errorf("options[%d] must be a string", i)
			}
			configKeys = append(configKeys, key)
		}
	}

	checkVal, ok := globals["check"]
	if !ok {
		return nil, fmt.Errorf("missing check function")
	}
	check, ok := checkVal.(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("check must be a function, got %s", checkVal.Type())
	}
	if check.NumParams() != 2 {
		return nil, fmt.Errorf("check must take (program, options), got %d parameters", check.NumParams())
	}

	return &Rule{
		path:        path,
		id:          id,
		name:        name,
		description: description,
		severity:    severity,
		configKeys:  configKeys,
		check:       check,
	}, nil
}

// globalString reads a string global, or defaultVal when it is not defined.
func globalString(globals starlark.StringDict, name, defaultVal string) (string, error) {
	v, ok := globals[name]
	if !ok {
		return defaultVal, nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", name, v.Type())
	}
	return s, nil
}

// validateID checks that id is upper-case letters followed by digits, like
// the built-in rule IDs.
func validateID(id string) error {
	i := 0
	for i < len(id) && id[i] >= 'A' && id[i] <= 'Z' {
		i++
	}
	letters := i
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	if letters == 0 || i == letters || i != len(id) {
		return fmt.Errorf("invalid rule id %q: want upper-case letters followed by digits, e.g. XS01", id)
	}
	return nil
}
