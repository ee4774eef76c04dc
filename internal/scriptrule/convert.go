package scriptrule

import (
	"fmt"

	"go.starlark.net/starlark"
)

// goToStarlark converts a rule option value to a Starlark value.
// Supported types: string, int, int64, float64, bool, []string, []any, map[string]any
func goToStarlark(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case bool:
		return starlark.Bool(val), nil

	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil

	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := goToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil

	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, v := range val {
			sv, err := goToStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// optionsDict converts rule options to a Starlark dict. Nil options give an
// empty dict.
func optionsDict(opts map[string]any) (*starlark.Dict, error) {
	if opts == nil {
		return starlark.NewDict(0), nil
	}
	v, err := goToStarlark(opts)
	if err != nil {
		return nil, err
	}
	return v.(*starlark.Dict), nil
}

// attr reads a field from a dict or struct-like value returned by a script.
func attr(v starlark.Value, name string) (starlark.Value, bool, error) {
	switch val := v.(type) {
	case *starlark.Dict:
		return val.Get(starlark.String(name))
	case starlark.HasAttrs:
		field, err := val.Attr(name)
		if err != nil || field == nil {
			return nil, false, nil
		}
		return field, true, nil
	default:
		return nil, false, fmt.Errorf("want dict or struct, got %s", v.Type())
	}
}

// intAttr reads a required int field.
func intAttr(v starlark.Value, name string) (int, error) {
	field, ok, err := attr(v, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing %q", name)
	}
	var n int
	if err := starlark.AsInt(field, &n); err != nil {
		return 0, fmt.Errorf("%q: %w", name, err)
	}
	return n, nil
}

// stringAttr reads a required string field.
func stringAttr(v starlark.Value, name string) (string, error) {
	field, ok, err := attr(v, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("missing %q", name)
	}
	s, ok := starlark.AsString(field)
	if !ok {
		return "", fmt.Errorf("%q: want string, got %s", name, field.Type())
	}
	return s, nil
}
