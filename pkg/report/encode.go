package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Entry is a located diagnostic in machine-readable form.
type Entry struct {
	RuleID   string `json:"rule_id" yaml:"rule_id"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

// FileReport holds the located diagnostics of one source file.
type FileReport struct {
	Path        string  `json:"path" yaml:"path"`
	Diagnostics []Entry `json:"diagnostics" yaml:"diagnostics"`
}

// NewFileReport locates and sorts diags against src.
func NewFileReport(path, src string, diags []lint.Diagnostic) FileReport {
	idx := token.NewLineIndex(src)
	entries := make([]Entry, 0, len(diags))
	for _, d := range Sort(diags) {
		loc := Locate(idx, d.Span.Start)
		entries = append(entries, Entry{
			RuleID:   d.RuleID,
			Severity: d.Severity.String(),
			Message:  d.Message,
			Line:     loc.Line,
			Column:   loc.Column,
			Start:    d.Span.Start,
			End:      d.Span.End,
		})
	}
	return FileReport{Path: path, Diagnostics: entries}
}

// JSON writes reports to w as an indented JSON array.
func JSON(w io.Writer, reports []FileReport) error {
	if reports == nil {
		reports = []FileReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// YAML writes reports to w as a YAML sequence.
func YAML(w io.Writer, reports []FileReport) error {
	if reports == nil {
		reports = []FileReport{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return nil
}
