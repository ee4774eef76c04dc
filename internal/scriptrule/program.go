package scriptrule

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/ca65lint/pkg/parser"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Statement kinds as seen by scripts.
const (
	kindInstruction   = "instruction"
	kindImplicitLabel = "implicit_label"
	kindExplicitLabel = "explicit_label"
	kindImmediate     = "immediate"
	kindDirect        = "direct"
	kindIdentifier    = "identifier"
	kindNumber        = "number"
)

// programValue exposes prog to scripts as a frozen struct:
//
//	program.statements[i].kind      "instruction", "implicit_label" or "explicit_label"
//	program.statements[i].start/end byte span
//	program.statements[i].text      canonical source form
//	instruction:    .mnemonic (string), .operand (struct or None)
//	labels:         .name (string); explicit labels also .value (expression)
//	operand:        .kind "immediate" or "direct", .value, .start, .end
//	expression:     .kind "identifier" (.name) or "number" (.value, .base)
//	program.comments[i]             .text (without ';'), .line, .start, .end
func programValue(prog *parser.Program) starlark.Value {
	stmts := make([]starlark.Value, 0, len(prog.Statements))
	for _, stmt := range prog.Statements {
		stmts = append(stmts, statementValue(stmt))
	}
	comments := make([]starlark.Value, 0, len(prog.Comments))
	for _, c := range prog.Comments {
		fields := spanFields(c.Span)
		fields["text"] = starlark.String(c.Body())
		fields["line"] = starlark.MakeInt(c.Pos.Line)
		comments = append(comments, starlarkstruct.FromStringDict(starlark.String("comment"), fields))
	}
	v := starlarkstruct.FromStringDict(starlark.String("program"), starlark.StringDict{
		"statements": starlark.NewList(stmts),
		"comments":   starlark.NewList(comments),
	})
	v.Freeze()
	return v
}

func statementValue(stmt parser.Statement) starlark.Value {
	fields := spanFields(stmt.GetSpan())
	fields["text"] = starlark.String(stmt.String())

	switch s := stmt.(type) {
	case *parser.Instruction:
		fields["kind"] = starlark.String(kindInstruction)
		fields["mnemonic"] = starlark.String(s.Mnemonic.Name)
		fields["operand"] = operandValue(s.Operand)
	case *parser.ImplicitLabel:
		fields["kind"] = starlark.String(kindImplicitLabel)
		fields["name"] = starlark.String(s.Identifier.Name)
	case *parser.ExplicitLabel:
		fields["kind"] = starlark.String(kindExplicitLabel)
		fields["name"] = starlark.String(s.Identifier.Name)
		fields["value"] = exprValue(s.Value)
	default:
		panic(fmt.Sprintf("scriptrule: unknown statement type %T", stmt))
	}
	return starlarkstruct.FromStringDict(starlark.String("statement"), fields)
}

func operandValue(op parser.Operand) starlark.Value {
	fields := spanFields(op.GetSpan())
	switch o := op.(type) {
	case *parser.NoOperand:
		return starlark.None
	case *parser.ImmediateOperand:
		fields["kind"] = starlark.String(kindImmediate)
		fields["value"] = exprValue(o.Value)
	case *parser.DirectOperand:
		fields["kind"] = starlark.String(kindDirect)
		fields["value"] = exprValue(o.Value)
	default:
		panic(fmt.Sprintf("scriptrule: unknown operand type %T", op))
	}
	return starlarkstruct.FromStringDict(starlark.String("operand"), fields)
}

func exprValue(e parser.Expr) starlark.Value {
	fields := spanFields(e.GetSpan())
	switch x := e.(type) {
	case *parser.Identifier:
		fields["kind"] = starlark.String(kindIdentifier)
		fields["name"] = starlark.String(x.Name)
	case *parser.NumberLiteral:
		fields["kind"] = starlark.String(kindNumber)
		fields["value"] = starlark.MakeUint64(uint64(x.Value))
		fields["base"] = starlark.String(x.Base.String())
	default:
		panic(fmt.Sprintf("scriptrule: unknown expression type %T", e))
	}
	return starlarkstruct.FromStringDict(starlark.String("expr"), fields)
}

func spanFields(span token.Span) starlark.StringDict {
	return starlark.StringDict{
		"start": starlark.MakeInt(span.Start),
		"end":   starlark.MakeInt(span.End),
	}
}
