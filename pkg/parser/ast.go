package parser

import (
	"fmt"

	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// GetSpan returns the node's source span. Composite nodes derive it from
	// their children.
	GetSpan() token.Span
	String() string
}

// Statement is one of *ExplicitLabel, *ImplicitLabel or *Instruction.
type Statement interface {
	Node
	stmtNode()
}

// Expr is one of *Identifier or *NumberLiteral.
type Expr interface {
	Node
	exprNode()
}

// Operand is one of *NoOperand, *ImmediateOperand or *DirectOperand.
type Operand interface {
	Node
	operandNode()
}

// NodeInfo holds the stored span of leaf-like nodes.
// Embed this in node types that record their own extent.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// Program is a parsed source file: its statements in source order.
type Program struct {
	Statements []Statement
	Comments   []*token.Comment // never part of a statement
}

// ---------- Expressions ----------

// Identifier is a name. Names compare case-sensitively.
type Identifier struct {
	NodeInfo
	Name string
}

func (*Identifier) exprNode() {}

func (i *Identifier) String() string { return i.Name }

// NumberBase records which literal form the source used.
type NumberBase int

// NumberBase values.
const (
	Decimal NumberBase = iota
	Hexadecimal
)

func (b NumberBase) String() string {
	switch b {
	case Decimal:
		return "decimal"
	case Hexadecimal:
		return "hexadecimal"
	default:
		return "unknown"
	}
}

// NumberLiteral is a 16-bit numeric literal. The span of a hexadecimal
// literal includes its '$' prefix.
type NumberLiteral struct {
	NodeInfo
	Value uint16
	Base  NumberBase
}

func (*NumberLiteral) exprNode() {}

func (n *NumberLiteral) String() string {
	if n.Base == Hexadecimal {
		return fmt.Sprintf("$%x", n.Value)
	}
	return fmt.Sprintf("%d", n.Value)
}

// ---------- Operands ----------

// NoOperand marks an instruction without an operand. Its span is empty and
// sits at the end of the mnemonic.
type NoOperand struct {
	NodeInfo
}

func (*NoOperand) operandNode() {}

func (*NoOperand) String() string { return "" }

// ImmediateOperand is a '#'-prefixed literal value. Its span includes the '#'.
type ImmediateOperand struct {
	NodeInfo
	Value Expr
}

func (*ImmediateOperand) operandNode() {}

func (o *ImmediateOperand) String() string { return "#" + o.Value.String() }

// DirectOperand references a value or address without the immediate sigil.
type DirectOperand struct {
	NodeInfo
	Value Expr
}

func (*DirectOperand) operandNode() {}

func (o *DirectOperand) String() string { return o.Value.String() }

// ---------- Statements ----------

// Instruction is a mnemonic with one operand.
type Instruction struct {
	Mnemonic *Identifier
	Operand  Operand
}

func (*Instruction) stmtNode() {}

// GetSpan returns the union of the mnemonic and operand spans.
func (i *Instruction) GetSpan() token.Span {
	return i.Mnemonic.GetSpan().Union(i.Operand.GetSpan())
}

func (i *Instruction) String() string {
	if _, ok := i.Operand.(*NoOperand); ok {
		return i.Mnemonic.String()
	}
	return i.Mnemonic.String() + " " + i.Operand.String()
}

// ImplicitLabel declares a name for the current program position (name:).
type ImplicitLabel struct {
	Identifier *Identifier
}

func (*ImplicitLabel) stmtNode() {}

// GetSpan returns the identifier span; the colon is not included.
func (l *ImplicitLabel) GetSpan() token.Span {
	return l.Identifier.GetSpan()
}

func (l *ImplicitLabel) String() string { return l.Identifier.String() + ":" }

// ExplicitLabel binds a name to a constant expression (name := value).
type ExplicitLabel struct {
	Identifier *Identifier
	Value      Expr
}

func (*ExplicitLabel) stmtNode() {}

// GetSpan runs from the identifier start to the value end.
func (l *ExplicitLabel) GetSpan() token.Span {
	return token.NewSpan(l.Identifier.GetSpan().Start, l.Value.GetSpan().End)
}

func (l *ExplicitLabel) String() string {
	return l.Identifier.String() + " := " + l.Value.String()
}

// DeclaredLabel returns the identifier declared by stmt, if stmt is a label.
func DeclaredLabel(stmt Statement) (*Identifier, bool) {
	switch s := stmt.(type) {
	case *ExplicitLabel:
		return s.Identifier, true
	case *ImplicitLabel:
		return s.Identifier, true
	case *Instruction:
		return nil, false
	default:
		panic(fmt.Sprintf("parser: unknown statement type %T", stmt))
	}
}
