package addressing

import (
	"github.com/leapstack-labs/ca65lint/pkg/lint"
	"github.com/leapstack-labs/ca65lint/pkg/parser"
)

func init() {
	lint.Register(DecimalAddress)
}

// DecimalAddress warns about direct operands that address memory with a
// decimal literal.
var DecimalAddress = lint.RuleDef{
	ID:          "AD01",
	Name:        "addressing.decimal_address",
	Group:       "addressing",
	Description: "Memory is referenced through a decimal address.",
	Severity:    lint.SeverityWarning,
	Check:       checkDecimalAddress,

	Rationale: `Addresses are conventionally written in hexadecimal. A decimal direct
operand is often a missing '#' on an immediate value or a missing '$'.`,
	BadExample: `  STA 512
  LDA 10`,
	GoodExample: `  STA $200
  LDA #10`,
}

func checkDecimalAddress(prog *parser.Program, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, stmt := range prog.Statements {
		ins, ok := stmt.(*parser.Instruction)
		if !ok {
			continue
		}

		switch op := ins.Operand.(type) {
		case *parser.DirectOperand:
			lit, ok := op.Value.(*parser.NumberLiteral)
			if !ok || lit.Base != parser.Decimal {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "AD01",
				Severity: lint.SeverityWarning,
				Message:  "memory referenced via decimal address",
				Span:     op.GetSpan(),
			})
		case *parser.ImmediateOperand, *parser.NoOperand:
		}
	}
	return diagnostics
}
