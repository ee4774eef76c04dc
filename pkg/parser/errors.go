package parser

import (
	"fmt"

	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Span    token.Span
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Span    token.Span
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken = "unexpected token %s, expected %s"
	ErrUnexpectedChar  = "unexpected character %q"
	ErrUnexpectedByte  = "unexpected byte %#02x"
	ErrNumberRange     = "number literal %s does not fit in 16 bits"
	ErrEmptyHex        = "hexadecimal literal has no digits"
)
