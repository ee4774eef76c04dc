package token

import "strings"

// Comment represents a ; comment, which runs to the end of its line.
type Comment struct {
	Text string   // includes the leading ';', without line terminator
	Span Span     // covers Text
	Pos  Position // position of the ';'
}

// Body returns the comment text after ';' with surrounding whitespace
// trimmed.
func (c *Comment) Body() string {
	return strings.TrimSpace(strings.TrimPrefix(c.Text, ";"))
}

// LineSpan returns the span from the start of the comment's line to the end
// of the comment.
func (c *Comment) LineSpan() Span {
	return NewSpan(c.Pos.Offset-(c.Pos.Column-1), c.Span.End)
}
