// Package token defines the token types and source positions for ca65 parsing.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT   // start, LDA, _tmp1
	DECIMAL // 100
	HEX     // $64

	// Punctuation
	HASH    // #
	ASSIGN  // :=
	COLON   // :
	NEWLINE // \n
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:   "IDENT",
	DECIMAL: "DECIMAL",
	HEX:     "HEX",

	HASH:    "'#'",
	ASSIGN:  "':='",
	COLON:   "':'",
	NEWLINE: "NEWLINE",
}

// IsNumber returns true if the token type is a numeric literal.
func IsNumber(t TokenType) bool {
	return t == DECIMAL || t == HEX
}

// IsLineEnd returns true if the token type terminates a logical line.
func IsLineEnd(t TokenType) bool {
	return t == NEWLINE || t == EOF
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string   // source text of the token
	Value   uint16   // numeric value, only set for DECIMAL and HEX
	Span    Span     // byte range in the source
	Pos     Position // position of Span.Start
}
