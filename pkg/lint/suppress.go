package lint

import (
	"strings"

	"github.com/leapstack-labs/ca65lint/pkg/parser"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// IgnoreDirective starts a comment that suppresses diagnostics on its line.
// Without rule IDs every rule is suppressed:
//
//	LDA 100   ; ca65lint:ignore AD01
//	unused:   ; ca65lint:ignore
const IgnoreDirective = "ca65lint:ignore"

// suppression is one ignore directive.
type suppression struct {
	line token.Span
	ids  map[string]bool // nil suppresses every rule
}

func (s suppression) covers(d Diagnostic) bool {
	return s.line.Contains(d.Span.Start) && (s.ids == nil || s.ids[d.RuleID])
}

// suppressions returns the ignore directives found in prog's comments.
func suppressions(prog *parser.Program) []suppression {
	var out []suppression
	for _, c := range prog.Comments {
		body := c.Body()
		rest, ok := strings.CutPrefix(body, IgnoreDirective)
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != ',') {
			continue
		}

		s := suppression{line: c.LineSpan()}
		fields := strings.FieldsFunc(rest, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) > 0 {
			s.ids = make(map[string]bool, len(fields))
			for _, id := range fields {
				s.ids[strings.ToUpper(id)] = true
			}
		}
		out = append(out, s)
	}
	return out
}

// suppressed reports whether any of sups covers d.
func suppressed(sups []suppression, d Diagnostic) bool {
	for _, s := range sups {
		if s.covers(d) {
			return true
		}
	}
	return false
}
