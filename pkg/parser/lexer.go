package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Lexer tokenizes ca65 source text.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based)

	err *LexError // first lexical error, if any

	// Comments collected during lexing, in source order
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// atEOF reports whether the whole input has been consumed. A literal NUL
// byte inside the input is not EOF.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// Err returns the first lexical error encountered, if any.
func (l *Lexer) Err() error {
	if l.err == nil {
		return nil
	}
	return l.err
}

// NextToken returns the next token. On malformed input it returns an
// ILLEGAL token and records the error, available through Err.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	start := l.pos

	if l.atEOF() {
		return token.Token{Type: token.EOF, Span: token.NewSpan(start, start), Pos: pos}
	}

	switch l.ch {
	case '\n':
		l.readChar()
		return l.newToken(token.NEWLINE, start, pos)
	case '#':
		l.readChar()
		return l.newToken(token.HASH, start, pos)
	case ':':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.newToken(token.ASSIGN, start, pos)
		}
		return l.newToken(token.COLON, start, pos)
	case '$':
		return l.readHex(start, pos)
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		l.readIdentifier()
		return l.newToken(token.IDENT, start, pos)
	case isDigit(l.ch):
		return l.readDecimal(start, pos)
	}

	ch := l.ch
	l.readChar()
	// Non-ASCII bytes are not characters on their own.
	if ch >= utf8.RuneSelf {
		return l.illegal(start, pos, fmt.Sprintf(ErrUnexpectedByte, ch))
	}
	return l.illegal(start, pos, fmt.Sprintf(ErrUnexpectedChar, ch))
}

// newToken creates a token covering input[start:l.pos].
func (l *Lexer) newToken(tokenType token.TokenType, start int, pos token.Position) token.Token {
	return token.Token{
		Type:    tokenType,
		Literal: l.input[start:l.pos],
		Span:    token.NewSpan(start, l.pos),
		Pos:     pos,
	}
}

// illegal records a lexical error and returns an ILLEGAL token for it.
func (l *Lexer) illegal(start int, pos token.Position, msg string) token.Token {
	tok := l.newToken(token.ILLEGAL, start, pos)
	if l.err == nil {
		l.err = &LexError{Span: tok.Span, Pos: pos, Message: msg}
	}
	return tok
}

// skipWhitespaceAndComments skips intra-line whitespace and collects ;
// comments.
// Newlines are significant and are left for NextToken.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v' {
			l.readChar()
		}

		if l.ch == ';' {
			l.collectComment()
			continue
		}

		break
	}
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() {
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
}

// readDecimal reads a decimal literal and checks that it fits in 16 bits.
func (l *Lexer) readDecimal(start int, pos token.Position) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.pos]
	v, err := strconv.ParseUint(literal, 10, 16)
	if err != nil {
		return l.illegal(start, pos, fmt.Sprintf(ErrNumberRange, literal))
	}
	tok := l.newToken(token.DECIMAL, start, pos)
	tok.Value = uint16(v)
	return tok
}

// readHex reads a $-prefixed hexadecimal literal and checks that it fits in
// 16 bits.
func (l *Lexer) readHex(start int, pos token.Position) token.Token {
	l.readChar() // skip '$'
	digits := l.pos
	for isHexDigit(l.ch) {
		l.readChar()
	}
	if l.pos == digits {
		return l.illegal(start, pos, ErrEmptyHex)
	}
	v, err := strconv.ParseUint(l.input[digits:l.pos], 16, 16)
	if err != nil {
		return l.illegal(start, pos, fmt.Sprintf(ErrNumberRange, l.input[start:l.pos]))
	}
	tok := l.newToken(token.HEX, start, pos)
	tok.Value = uint16(v)
	return tok
}

// collectComment consumes a comment up to, not including, the line
// terminator.
func (l *Lexer) collectComment() {
	pos := l.currentPos()
	start := l.pos
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	end := l.pos
	if end > start && l.input[end-1] == '\r' {
		end--
	}
	l.Comments = append(l.Comments, &token.Comment{
		Text: l.input[start:end],
		Span: token.NewSpan(start, end),
		Pos:  pos,
	})
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isHexDigit returns true if ch is a hexadecimal digit.
func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Tokenize returns all tokens from the input, ending with EOF, or the first
// lexical error.
func Tokenize(input string) ([]token.Token, error) {
	return NewLexer(input).tokenize()
}

// tokenize reads the remaining tokens through EOF.
func (l *Lexer) tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, l.Err()
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, nil
}
