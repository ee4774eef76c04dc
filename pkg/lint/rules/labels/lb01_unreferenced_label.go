package labels

import (
	"github.com/leapstack-labs/ca65lint/pkg/lint"
	"github.com/leapstack-labs/ca65lint/pkg/parser"
)

func init() {
	lint.Register(UnreferencedLabel)
}

// UnreferencedLabel warns about labels that are declared but never used as
// a direct operand.
var UnreferencedLabel = lint.RuleDef{
	ID:          "LB01",
	Name:        "labels.unreferenced",
	Group:       "labels",
	Description: "Label is declared but never referenced.",
	Severity:    lint.SeverityWarning,
	ConfigKeys:  []string{"ignore"},
	Check:       checkUnreferencedLabel,

	Rationale: `A label nothing jumps to or loads from is usually left over from a
refactor or misspelled at its use site. Each reference accounts for one
declaration, so a name declared twice needs two references.`,
	BadExample: `start:
unused := $10
  JMP start`,
	GoodExample: `start:
  JMP start`,
}

func checkUnreferencedLabel(prog *parser.Program, opts map[string]any) []lint.Diagnostic {
	ignored := make(map[string]bool)
	for _, name := range lint.GetStringSliceOption(opts, "ignore", nil) {
		ignored[name] = true
	}

	// Every declaration is a separate entry, duplicates included.
	var declared []*parser.Identifier
	for _, stmt := range prog.Statements {
		if ident, ok := parser.DeclaredLabel(stmt); ok {
			declared = append(declared, ident)
		}
	}

	// Each direct identifier operand accounts for the first remaining
	// declaration with that name.
	for _, stmt := range prog.Statements {
		ins, ok := stmt.(*parser.Instruction)
		if !ok {
			continue
		}
		direct, ok := ins.Operand.(*parser.DirectOperand)
		if !ok {
			continue
		}
		ref, ok := direct.Value.(*parser.Identifier)
		if !ok {
			continue
		}
		for i, decl := range declared {
			if decl.Name == ref.Name {
				declared = append(declared[:i], declared[i+1:]...)
				break
			}
		}
	}

	var diagnostics []lint.Diagnostic
	for _, decl := range declared {
		if ignored[decl.Name] {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "LB01",
			Severity: lint.SeverityWarning,
			Message:  "unreferenced label",
			Span:     decl.GetSpan(),
		})
	}
	return diagnostics
}
