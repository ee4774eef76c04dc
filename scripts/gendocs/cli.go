package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/ca65lint/internal/cli"
)

// generateCLIDocs writes index.md for the root command and one page per
// visible subcommand.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()

	if err := writePage(filepath.Join(outDir, "index.md"), cliIndexPage(root)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, cmd := range documentedCommands(root) {
		name := pageName(cmd)
		if err := writePage(filepath.Join(outDir, name), commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.CommandPath(), err)
		}
		log.Printf("  Generated %s", name)
	}

	return nil
}

// documentedCommands returns every visible descendant of root, depth first.
func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
		out = append(out, documentedCommands(cmd)...)
	}
	return out
}

// pageName maps "ca65lint rules" to rules.md and nested commands to
// parent_child.md.
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())[1:]
	return strings.Join(parts, "_") + ".md"
}

func writePage(path string, w *MarkdownWriter) error {
	return os.WriteFile(path, w.Bytes(), 0600)
}

// cliIndexPage documents the root command, which is also the lint command.
func cliIndexPage(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", root.Short)
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	writeLong(w, root.Long)

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/ca65lint/cmd/ca65lint@latest")

	w.Header(2, "Usage")
	w.CodeBlock("bash", root.UseLine())
	if root.Example != "" {
		w.CodeBlock("bash", dedent(root.Example))
	}

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range documentedCommands(root) {
		link := fmt.Sprintf("[%s](%s)", InlineCode(cmd.CommandPath()), strings.TrimSuffix(pageName(cmd), ".md"))
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Lint Options")
	writeFlagsTable(w, root.LocalNonPersistentFlags())

	w.Header(2, "Global Options")
	w.Paragraph("Available on every command.")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph("Settings are layered: built-in defaults, then `ca65lint.yaml` (found in the working directory or a parent, or given with `--config`), then `CA65LINT_` environment variables, then flags. Nested keys in variable names are joined with a double underscore.")
	w.Table([]string{"Variable", "Key", "Description"}, [][]string{
		{InlineCode("CA65LINT_OUTPUT"), InlineCode("output"), "Report format: text, json or yaml"},
		{InlineCode("CA65LINT_COLOR"), InlineCode("color"), "Color mode: auto, always or never"},
		{InlineCode("CA65LINT_SEVERITY"), InlineCode("severity"), "Minimum severity reported"},
		{InlineCode("CA65LINT_LINT__DISABLED"), InlineCode("lint.disabled"), "Comma-separated rule IDs to skip"},
		{InlineCode("CA65LINT_LINT__ONLY"), InlineCode("lint.only"), "Comma-separated rule IDs to run exclusively"},
		{InlineCode("NO_COLOR"), "", "Disables color when the color mode is auto"},
	})

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Every file was checked, whether or not violations were reported"},
		{InlineCode("1"), "Missing argument, invalid configuration, or a file could not be read or parsed"},
	})

	return w
}

// commandPage documents one subcommand.
func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	if cmd.Long != "" {
		writeLong(w, cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, 0, len(cmd.Aliases))
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if len(cmd.ValidArgs) > 0 {
		w.Header(2, "Arguments")
		args := make([]string, 0, len(cmd.ValidArgs))
		for _, arg := range cmd.ValidArgs {
			args = append(args, InlineCode(arg))
		}
		w.BulletList(args)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return w
}

// writeFlagsTable writes the visible flags of fs sorted by name.
func writeFlagsTable(w *MarkdownWriter, fs *pflag.FlagSet) {
	var flags []*pflag.Flag
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })

	rows := make([][]string, 0, len(flags))
	for _, f := range flags {
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		rows = append(rows, []string{name, f.Value.Type(), flagDefault(f), cleanDescription(f.Usage)})
	}
	w.Table([]string{"Flag", "Type", "Default", "Description"}, rows)
}

func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "[]", "false":
		return ""
	}
	return InlineCode(f.DefValue)
}

// writeLong renders a cobra Long text. Blank lines separate blocks; blocks
// whose lines are all indented become code blocks.
func writeLong(w *MarkdownWriter, long string) {
	for _, block := range strings.Split(strings.TrimSpace(long), "\n\n") {
		if block == "" {
			continue
		}
		if isIndented(block) {
			w.CodeBlock("", dedent(block))
			continue
		}
		w.Paragraph(block)
	}
}

func isIndented(block string) bool {
	for _, line := range strings.Split(block, "\n") {
		if line != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			return false
		}
	}
	return true
}

// dedent strips the indentation shared by every non-blank line of s.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first || len(indent) < len(prefix) {
			prefix = indent
			first = false
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}
