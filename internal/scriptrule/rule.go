// Package scriptrule loads lint rules written in Starlark.
//
// A rule script defines its metadata as globals and a check function:
//
//	id = "XS01"
//	description = "BRK left in code."
//	severity = "error"          # optional, default "warning"
//	options = ["allow"]         # optional, accepted option keys
//
//	def check(program, options):
//	    return [
//	        {"message": "BRK instruction", "start": s.start, "end": s.end}
//	        for s in program.statements
//	        if s.kind == "instruction" and s.mnemonic == "BRK"
//	    ]
//
// Each returned finding is a dict (or struct) with message, start and end.
// Scripted rules run next to the built-in rules through lint.Analyzer.
package scriptrule

import (
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
	"github.com/leapstack-labs/ca65lint/pkg/parser"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Rule is a lint rule backed by a Starlark script.
type Rule struct {
	path        string
	id          string
	name        string
	description string
	severity    lint.Severity
	configKeys  []string
	check       *starlark.Function

	pool   *threadPool
	logger *slog.Logger
}

var _ lint.FallibleRule = (*Rule)(nil)

func (r *Rule) ID() string                     { return r.id }
func (r *Rule) Name() string                   { return r.name }
func (r *Rule) Group() string                  { return "script" }
func (r *Rule) Description() string            { return r.description }
func (r *Rule) DefaultSeverity() lint.Severity { return r.severity }
func (r *Rule) ConfigKeys() []string           { return r.configKeys }
func (r *Rule) Rationale() string              { return "Defined in " + r.path + "." }
func (r *Rule) BadExample() string             { return "" }
func (r *Rule) GoodExample() string            { return "" }

// Path returns the script file the rule was loaded from.
func (r *Rule) Path() string { return r.path }

// Check runs the script and drops any error. lint.Analyzer calls TryCheck.
func (r *Rule) Check(prog *parser.Program, opts map[string]any) []lint.Diagnostic {
	diags, err := r.TryCheck(prog, opts)
	if err != nil {
		r.logger.Warn("script rule failed", "rule", r.id, "path", r.path, "error", err)
		return nil
	}
	return diags
}

// TryCheck calls the script's check function with the program and options.
func (r *Rule) TryCheck(prog *parser.Program, opts map[string]any) ([]lint.Diagnostic, error) {
	optsDict, err := optionsDict(opts)
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	thread := r.pool.get("check:" + r.id)
	result, err := starlark.Call(thread, r.check, starlark.Tuple{programValue(prog), optsDict}, nil)
	if err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			return nil, fmt.Errorf("%s: %s", r.path, evalErr.Backtrace())
		}
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	r.pool.put(thread)

	diags, err := r.findings(result)
	if err != nil {
		return nil, fmt.Errorf("%s: check result: %w", r.path, err)
	}
	r.logger.Debug("script rule checked", "rule", r.id, "findings", len(diags))
	return diags, nil
}

// findings converts the value returned by check into diagnostics.
func (r *Rule) findings(result starlark.Value) ([]lint.Diagnostic, error) {
	if result == starlark.None {
		return nil, nil
	}
	iterable, ok := result.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("want list of findings, got %s", result.Type())
	}

	var diags []lint.Diagnostic
	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for i := 0; iter.Next(&item); i++ {
		message, err := stringAttr(item, "message")
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		start, err := intAttr(item, "start")
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		end, err := intAttr(item, "end")
		if err != nil {
			return nil, fmt.Errorf("finding %d: %w", i, err)
		}
		if start < 0 || end < start {
			return nil, fmt.Errorf("finding %d: invalid span [%d,%d)", i, start, end)
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   r.id,
			Severity: r.severity,
			Message:  message,
			Span:     token.NewSpan(start, end),
		})
	}
	return diags, nil
}
