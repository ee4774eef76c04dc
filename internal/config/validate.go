package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
)

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, yaml)", c.Output)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q (valid: auto, always, never)", c.Color)
	}

	if _, err := lint.ParseSeverity(c.Severity); err != nil {
		return fmt.Errorf("severity: %w", err)
	}
	for id, sev := range c.Lint.Severity {
		if _, err := lint.ParseSeverity(sev); err != nil {
			return fmt.Errorf("lint.severity.%s: %w", id, err)
		}
	}
	return nil
}

// normalizeRuleID trims and upper-cases a rule ID. Environment variables
// arrive lower-cased.
func normalizeRuleID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ToLintConfig builds the rule engine configuration.
func (c *Config) ToLintConfig() (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	minSev, err := lint.ParseSeverity(c.Severity)
	if err != nil {
		return nil, err
	}
	lintCfg.MinSeverity = minSev

	for _, id := range c.Lint.Disabled {
		if id = normalizeRuleID(id); id != "" {
			lintCfg.Disable(id)
		}
	}
	for _, id := range c.Lint.Only {
		if id = normalizeRuleID(id); id != "" {
			lintCfg.Only(id)
		}
	}
	for id, s := range c.Lint.Severity {
		sev, err := lint.ParseSeverity(s)
		if err != nil {
			return nil, fmt.Errorf("lint.severity.%s: %w", id, err)
		}
		lintCfg.SetSeverity(normalizeRuleID(id), sev)
	}
	for id, opts := range c.Lint.Rules {
		lintCfg.SetRuleOptions(normalizeRuleID(id), opts)
	}
	return lintCfg, nil
}
