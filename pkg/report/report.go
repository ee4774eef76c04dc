// Package report renders lint diagnostics for people and for tools.
//
// Text produces the caret report:
//
//	<message>
//	at line L, position C
//	<source line>
//	<C spaces><carets under the span>
//
// followed by a blank line, with L 1-based and C the 0-based byte column.
// JSON and YAML encode the same located diagnostics.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

// Styles decorates the text report. Only the message, location and caret
// lines are styled; source text is always written verbatim.
type Styles struct {
	Message  lipgloss.Style
	Location lipgloss.Style
	Caret    lipgloss.Style
}

// Sort returns a copy of diags stably sorted by ascending span start.
// Diagnostics starting at the same offset keep their relative order.
func Sort(diags []lint.Diagnostic) []lint.Diagnostic {
	sorted := make([]lint.Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})
	return sorted
}

// Location is a diagnostic's start resolved against its source.
type Location struct {
	Line   int    // 1-based line number
	Column int    // 0-based byte column
	Text   string // displayed line text, without line terminator
}

// Locate resolves offset to its line using idx.
func Locate(idx *token.LineIndex, offset int) Location {
	line := idx.LineOf(offset)
	return Location{
		Line:   line + 1,
		Column: offset - idx.LineStart(line),
		Text:   idx.LineText(line),
	}
}

// Text writes the caret report for diags over src to w. Nothing is written
// when there are no diagnostics. A nil styles writes plain text.
func Text(w io.Writer, src string, diags []lint.Diagnostic, styles *Styles) error {
	if len(diags) == 0 {
		return nil
	}

	idx := token.NewLineIndex(src)
	var sb strings.Builder
	for _, d := range Sort(diags) {
		loc := Locate(idx, d.Span.Start)
		location := fmt.Sprintf("at line %d, position %d", loc.Line, loc.Column)
		carets := strings.Repeat(" ", loc.Column) + strings.Repeat("^", d.Span.Len())

		message := d.Message
		if styles != nil {
			message = styles.Message.Render(message)
			location = styles.Location.Render(location)
			carets = strings.Repeat(" ", loc.Column) + styles.Caret.Render(strings.Repeat("^", d.Span.Len()))
		}

		sb.WriteString(message)
		sb.WriteByte('\n')
		sb.WriteString(location)
		sb.WriteByte('\n')
		sb.WriteString(loc.Text)
		sb.WriteByte('\n')
		sb.WriteString(carets)
		sb.WriteString("\n\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
