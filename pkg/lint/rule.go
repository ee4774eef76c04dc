package lint

import (
	"github.com/leapstack-labs/ca65lint/pkg/parser"
)

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "LB01"
	ID() string

	// Name returns the human-readable name, e.g., "labels.unreferenced"
	Name() string

	// Group returns the category, e.g., "labels", "addressing"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Documentation
	Rationale() string
	BadExample() string
	GoodExample() string

	// Check analyzes a program and returns diagnostics.
	// The opts parameter contains rule-specific options from configuration.
	Check(prog *parser.Program, opts map[string]any) []Diagnostic
}

// FallibleRule is a Rule whose check can fail at runtime, such as a rule
// backed by a user script. The Analyzer calls TryCheck instead of Check.
type FallibleRule interface {
	Rule
	TryCheck(prog *parser.Program, opts map[string]any) ([]Diagnostic, error)
}

// CheckFunc analyzes a program and returns diagnostics.
type CheckFunc func(prog *parser.Program, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "LB01"
	Name        string    // Human-readable name, e.g., "labels.unreferenced"
	Group       string    // Category, e.g., "labels"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	ConfigKeys  []string  // Accepted option keys
	Check       CheckFunc // The check function

	Rationale   string // Why this rule exists
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the preferred form
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Group           string   `json:"group" yaml:"group"`
	Description     string   `json:"description" yaml:"description"`
	DefaultSeverity Severity `json:"default_severity" yaml:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
	Rationale       string   `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	BadExample      string   `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	GoodExample     string   `json:"good_example,omitempty" yaml:"good_example,omitempty"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	return RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
	}
}

// wrappedRuleDef adapts a RuleDef to the Rule interface.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement Rule.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                { return w.def.ID }
func (w *wrappedRuleDef) Name() string              { return w.def.Name }
func (w *wrappedRuleDef) Group() string             { return w.def.Group }
func (w *wrappedRuleDef) Description() string       { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }
func (w *wrappedRuleDef) Rationale() string         { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string        { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string       { return w.def.GoodExample }

func (w *wrappedRuleDef) Check(prog *parser.Program, opts map[string]any) []Diagnostic {
	if w.def.Check == nil {
		return nil
	}
	return w.def.Check(prog, opts)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
