// Package parser provides ca65 source parsing into a span-annotated syntax tree.
//
// # Usage
//
//	prog, err := parser.Parse(src)
//	if err != nil {
//	    // *parser.LexError or *parser.ParseError
//	}
//
// # Grammar Overview
//
// The parser is a recursive descent parser over one logical line at a time:
//
//	program        → { line }
//	line           → [ statement_seq ] ( NEWLINE | EOF )
//	statement_seq  → implicit_label [ statement_seq ] | explicit_label | instruction
//	explicit_label → IDENT ":=" expression
//	implicit_label → IDENT ":"
//	instruction    → IDENT [ operand ]
//	operand        → "#" expression | expression
//	expression     → IDENT | DECIMAL | HEX
//
// A label followed by an instruction on the same line yields two separate
// statements; nodes are never fused.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Parser parses a token slice into a Program.
type Parser struct {
	tokens []token.Token
	pos    int
	token  token.Token // current token
	peek   token.Token // lookahead token
	errors []error
}

// NewParser creates a parser over tokens, which must end with EOF.
func NewParser(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}
	p.token = p.at(0)
	p.peek = p.at(1)
	return p
}

// Parse tokenizes and parses src. It returns the first lexical or syntax
// error; partial programs are never returned.
func Parse(src string) (*Program, error) {
	l := NewLexer(src)
	tokens, err := l.tokenize()
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	prog := p.parseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	prog.Comments = l.Comments
	return prog, nil
}

// ---------- Token Helpers ----------

// at returns the token at index i, clamping to the trailing EOF.
func (p *Parser) at(i int) token.Token {
	if len(p.tokens) == 0 {
		return token.Token{Type: token.EOF}
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.pos++
	p.token = p.at(p.pos)
	p.peek = p.at(p.pos + 1)
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) (token.Token, bool) {
	tok := p.token
	if p.check(t) {
		p.nextToken()
		return tok, true
	}
	p.unexpected(t.String())
	return tok, false
}

// unexpected records an error for the current token.
func (p *Parser) unexpected(expected string) {
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token.Type, expected))
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Span:    p.token.Span,
		Pos:     p.token.Pos,
		Message: msg,
	})
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// ---------- Grammar ----------

// parseProgram parses lines until EOF or the first error.
func (p *Parser) parseProgram() *Program {
	prog := &Program{}
	for !p.check(token.EOF) && !p.failed() {
		prog.Statements = p.parseLine(prog.Statements)
	}
	return prog
}

// parseLine parses the statements of one logical line and its terminator.
func (p *Parser) parseLine(stmts []Statement) []Statement {
	for !token.IsLineEnd(p.token.Type) {
		stmt := p.parseStatement()
		if p.failed() {
			return stmts
		}
		stmts = append(stmts, stmt)
		if _, ok := stmt.(*ImplicitLabel); !ok {
			break
		}
	}

	switch {
	case p.check(token.NEWLINE):
		p.nextToken()
	case p.check(token.EOF):
	default:
		p.unexpected("end of line")
	}
	return stmts
}

// parseStatement dispatches on the token after the leading identifier.
func (p *Parser) parseStatement() Statement {
	if !p.check(token.IDENT) {
		p.unexpected("label or instruction")
		return nil
	}

	switch {
	case p.checkPeek(token.ASSIGN):
		return p.parseExplicitLabel()
	case p.checkPeek(token.COLON):
		return p.parseImplicitLabel()
	default:
		return p.parseInstruction()
	}
}

// parseExplicitLabel parses IDENT ":=" expression.
func (p *Parser) parseExplicitLabel() Statement {
	ident := p.parseIdentifier()
	p.nextToken() // skip :=
	value := p.parseExpression()
	if p.failed() {
		return nil
	}
	return &ExplicitLabel{Identifier: ident, Value: value}
}

// parseImplicitLabel parses IDENT ":".
func (p *Parser) parseImplicitLabel() Statement {
	ident := p.parseIdentifier()
	p.nextToken() // skip :
	return &ImplicitLabel{Identifier: ident}
}

// parseInstruction parses IDENT [operand].
func (p *Parser) parseInstruction() Statement {
	mnemonic := p.parseIdentifier()
	operand := p.parseOperand(mnemonic.Span.End)
	if p.failed() {
		return nil
	}
	return &Instruction{Mnemonic: mnemonic, Operand: operand}
}

// parseOperand parses an optional operand. end is the mnemonic's end offset,
// where an absent operand is anchored.
func (p *Parser) parseOperand(end int) Operand {
	switch {
	case token.IsLineEnd(p.token.Type):
		return &NoOperand{NodeInfo: NodeInfo{Span: token.NewSpan(end, end)}}
	case p.check(token.HASH):
		start := p.token.Span.Start
		p.nextToken()
		value := p.parseExpression()
		if p.failed() {
			return nil
		}
		return &ImmediateOperand{
			NodeInfo: NodeInfo{Span: token.NewSpan(start, value.GetSpan().End)},
			Value:    value,
		}
	default:
		value := p.parseExpression()
		if p.failed() {
			return nil
		}
		return &DirectOperand{NodeInfo: NodeInfo{Span: value.GetSpan()}, Value: value}
	}
}

// parseExpression parses IDENT | DECIMAL | HEX.
func (p *Parser) parseExpression() Expr {
	tok := p.token
	switch tok.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.DECIMAL:
		p.nextToken()
		return &NumberLiteral{NodeInfo: NodeInfo{Span: tok.Span}, Value: tok.Value, Base: Decimal}
	case token.HEX:
		p.nextToken()
		return &NumberLiteral{NodeInfo: NodeInfo{Span: tok.Span}, Value: tok.Value, Base: Hexadecimal}
	default:
		p.unexpected("expression")
		return nil
	}
}

// parseIdentifier consumes an IDENT token.
func (p *Parser) parseIdentifier() *Identifier {
	tok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}
	return &Identifier{NodeInfo: NodeInfo{Span: tok.Span}, Name: tok.Literal}
}
