package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ca65lint/pkg/parser"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Spans bool // Append each statement's byte span
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed statements of a source file",
		Long: `Parse a ca65 source file and print one statement per line in
canonical form. Useful for checking how a line is understood before
writing a rule against it.`,
		Example: `  # Dump statements
  ca65lint parse main.s

  # Include byte spans
  ca65lint parse --spans main.s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Spans, "spans", false, "Append [start,end) byte spans")

	return cmd
}

func runParse(cmd *cobra.Command, path string, opts *ParseOptions) error {
	r := NewCommandContext(cmd).Renderer

	data, err := os.ReadFile(path) //nolint:gosec // path is a command-line argument
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	prog, err := parser.Parse(string(data))
	if err != nil {
		r.Errorf("failed to parse provided source file:\n%s: %v\n", path, err)
		return fmt.Errorf("%w: %s", ErrLintFailed, path)
	}

	for _, stmt := range prog.Statements {
		if opts.Spans {
			r.Printf("%-24s %s\n", stmt.String(), r.Styles().Muted.Render(stmt.GetSpan().String()))
			continue
		}
		r.Println(stmt.String())
	}
	return nil
}
