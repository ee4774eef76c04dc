package lint

import (
	"fmt"

	"github.com/leapstack-labs/ca65lint/pkg/parser"
)

// Analyzer runs lint rules against a parsed program.
type Analyzer struct {
	config *Config
	extra  []Rule // rules not in the global registry, e.g. scripted rules
}

// NewAnalyzer creates a new analyzer with optional configuration. The
// registered rules are always run; extra adds rules local to this analyzer.
func NewAnalyzer(config *Config, extra ...Rule) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config, extra: extra}
}

// Rules returns the rules this analyzer runs, sorted by ID, before disabled
// rules are filtered out. An extra rule replaces a registered rule with the
// same ID.
func (a *Analyzer) Rules() []Rule {
	byID := make(map[string]Rule)
	for _, rule := range AllRules() {
		byID[rule.ID()] = rule
	}
	for _, rule := range a.extra {
		byID[rule.ID()] = rule
	}

	rules := make([]Rule, 0, len(byID))
	for _, rule := range byID {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// Analyze runs every enabled rule against prog and returns the combined,
// unordered diagnostics, minus those silenced by an ignore directive.
// Built-in rules never fail; an error is returned only when a FallibleRule
// fails, in which case no diagnostics are returned.
func (a *Analyzer) Analyze(prog *parser.Program) ([]Diagnostic, error) {
	if prog == nil {
		return nil, nil
	}

	sups := suppressions(prog)

	var diagnostics []Diagnostic
	for _, rule := range a.Rules() {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		opts := a.config.GetRuleOptions(rule.ID())

		var diags []Diagnostic
		if fallible, ok := rule.(FallibleRule); ok {
			var err error
			diags, err = fallible.TryCheck(prog, opts)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", rule.ID(), err)
			}
		} else {
			diags = rule.Check(prog, opts)
		}

		severity := a.config.GetSeverity(rule.ID(), rule.DefaultSeverity())
		if !a.config.Reports(severity) {
			continue
		}
		for _, d := range diags {
			d.RuleID = rule.ID()
			d.Severity = severity
			if suppressed(sups, d) {
				continue
			}
			diagnostics = append(diagnostics, d)
		}
	}

	return diagnostics, nil
}
