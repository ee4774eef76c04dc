package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
	_ "github.com/leapstack-labs/ca65lint/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"addressing": "Rules about how instruction operands reference memory.",
	"labels":     "Rules about label declarations and references.",
}

// generateLintDocs generates all lint documentation files.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.AllRules()

	if err := generateLintIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	grouped := groupRulesByGroup(rules)
	for group, groupRules := range grouped {
		if err := generateGroupPage(outDir, group, groupRules); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", group)
	}

	return nil
}

// generateLintIndex generates the rules overview page.
func generateLintIndex(outDir string, rules []lint.Rule) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Built-in ca65lint rules")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("ca65lint ships %d built-in rules. Additional rules can be written in Starlark and loaded with `--script`.", len(rules)))

	headers := []string{"ID", "Name", "Group", "Severity", "Description"}
	var rows [][]string
	for _, r := range rules {
		link := fmt.Sprintf("[%s](/rules/%s#%s)", r.ID(), r.Group(), r.ID())
		rows = append(rows, []string{
			link,
			InlineCode(r.Name()),
			r.Group(),
			r.DefaultSeverity().String(),
			cleanDescription(r.Description()),
		})
	}
	w.Table(headers, rows)

	w.Header(2, "Suppressing Diagnostics")
	w.Paragraph("A comment containing the ignore directive silences diagnostics that start on the same line. Listing rule IDs restricts the directive to those rules.")
	w.CodeBlock("asm", fmt.Sprintf(`unused:     ; %s
LDA 1234    ; %s AD01`, lint.IgnoreDirective, lint.IgnoreDirective))

	filename := filepath.Join(outDir, "index.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

// generateGroupPage generates one page documenting every rule in a group.
func generateGroupPage(outDir, group string, rules []lint.Rule) error {
	w := NewMarkdownWriter()

	title := capitalizeFirst(group) + " Rules"
	w.Frontmatter(title, groupDescriptions[group])
	w.GeneratedMarker()

	w.Header(1, title)
	if desc := groupDescriptions[group]; desc != "" {
		w.Paragraph(desc)
	}

	for _, r := range rules {
		writeRuleDoc(w, r)
	}

	filename := filepath.Join(outDir, group+".md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

func groupRulesByGroup(rules []lint.Rule) map[string][]lint.Rule {
	grouped := make(map[string][]lint.Rule)
	for _, r := range rules {
		grouped[r.Group()] = append(grouped[r.Group()], r)
	}
	for _, rs := range grouped {
		sort.Slice(rs, func(i, j int) bool { return rs[i].ID() < rs[j].ID() })
	}
	return grouped
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule lint.Rule) {
	// ### LB01 - labels.unreferenced {#LB01}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", rule.ID(), rule.Name(), rule.ID()))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(rule.DefaultSeverity().String())))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description()))

	if rationale := rule.Rationale(); rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rationale))
	}

	if badExample := rule.BadExample(); badExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("asm", badExample)
	}

	if goodExample := rule.GoodExample(); goodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("asm", goodExample)
	}

	if configKeys := rule.ConfigKeys(); len(configKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(configKeys, ", "))))
	}

	w.Line("---")
	w.Newline()
}
