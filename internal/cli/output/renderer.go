// Package output provides styled terminal output for ca65lint commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/leapstack-labs/ca65lint/internal/config"
	"github.com/leapstack-labs/ca65lint/pkg/report"
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header   lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Message  lipgloss.Style
	Location lipgloss.Style
	Caret    lipgloss.Style
}

// Renderer writes command output to out and diagnostics to errOut.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	colored bool
	styles  Styles
}

// NewRenderer creates a renderer. color is one of auto, always or never;
// auto enables colour when out is a terminal and NO_COLOR is unset.
func NewRenderer(out, errOut io.Writer, color string) *Renderer {
	colored := useColor(out, color)

	lr := lipgloss.NewRenderer(out)
	if colored {
		profile := termenv.EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI
		}
		lr.SetColorProfile(profile)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		out:     out,
		errOut:  errOut,
		colored: colored,
		styles:  newStyles(lr),
	}
}

func useColor(out io.Writer, color string) bool {
	switch color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newStyles(lr *lipgloss.Renderer) Styles {
	return Styles{
		Header:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		Bold:     lr.NewStyle().Bold(true),
		Muted:    lr.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lr.NewStyle().Foreground(lipgloss.Color("1")),
		Warning:  lr.NewStyle().Foreground(lipgloss.Color("3")),
		Info:     lr.NewStyle().Foreground(lipgloss.Color("6")),
		Success:  lr.NewStyle().Foreground(lipgloss.Color("2")),
		Message:  lr.NewStyle().Bold(true),
		Location: lr.NewStyle().Foreground(lipgloss.Color("6")),
		Caret:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles { return r.styles }

// Colored reports whether output is styled.
func (r *Renderer) Colored() bool { return r.colored }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ReportStyles returns styles for report.Text, or nil for plain output.
func (r *Renderer) ReportStyles() *report.Styles {
	if !r.colored {
		return nil
	}
	return &report.Styles{
		Message:  r.styles.Message,
		Location: r.styles.Location,
		Caret:    r.styles.Caret,
	}
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a file header in the style of head(1).
func (r *Renderer) Header(path string) {
	r.Println(r.styles.Header.Render("==> " + path + " <=="))
}

// Errorf writes a formatted message to error output.
func (r *Renderer) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, a...)
}

// JSON writes v as indented JSON to standard output.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
