package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ca65lint/internal/cli/output"
	"github.com/leapstack-labs/ca65lint/internal/config"
	"github.com/leapstack-labs/ca65lint/internal/scriptrule"
	"github.com/leapstack-labs/ca65lint/pkg/lint"
	_ "github.com/leapstack-labs/ca65lint/pkg/lint/rules" // register built-in rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group string // Filter by group
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List the built-in lint rules and any scripted rules named in the
configuration, or show the documentation of one rule.`,
		Example: `  # List all rules
  ca65lint rules

  # Show details for a specific rule
  ca65lint rules LB01

  # List rules in the addressing group
  ca65lint rules --group addressing

  # Output as JSON
  ca65lint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			rules, err := availableRules(cmdCtx)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return showRule(cmdCtx, rules, args[0])
			}
			return listRules(cmdCtx, rules, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringP("format", "f", config.DefaultOutput, "Output format: text, json, yaml")

	return cmd
}

// availableRules returns the registered rules plus configured scripts.
func availableRules(cmdCtx *CommandContext) ([]lint.RuleInfo, error) {
	scripts, err := scriptrule.LoadAll(cmdCtx.Cfg.Lint.Scripts, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	rules := lint.NewAnalyzer(lint.NewConfig(), scripts...).Rules()

	infos := make([]lint.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, lint.GetRuleInfo(rule))
	}
	return infos, nil
}

func listRules(cmdCtx *CommandContext, rules []lint.RuleInfo, opts *RulesOptions) error {
	if opts.Group != "" {
		var filtered []lint.RuleInfo
		for _, rule := range rules {
			if rule.Group == opts.Group {
				filtered = append(filtered, rule)
			}
		}
		rules = filtered
	}

	r := cmdCtx.Renderer
	switch cmdCtx.Cfg.Output {
	case config.OutputJSON:
		if rules == nil {
			rules = []lint.RuleInfo{}
		}
		return r.JSON(rules)
	case config.OutputYAML:
		return writeYAML(r, rules)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Group", "Severity", "Description"})
	styles := r.Styles()
	for _, rule := range rules {
		sev := severityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String())
		t.AppendRow(table.Row{rule.ID, rule.Name, rule.Group, sev, rule.Description})
	}
	t.Render()
	r.Printf("(%d rules)\n", len(rules))
	return nil
}

func showRule(cmdCtx *CommandContext, rules []lint.RuleInfo, ruleID string) error {
	var rule *lint.RuleInfo
	for i := range rules {
		if strings.EqualFold(rules[i].ID, ruleID) {
			rule = &rules[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	r := cmdCtx.Renderer
	switch cmdCtx.Cfg.Output {
	case config.OutputJSON:
		return r.JSON(rule)
	case config.OutputYAML:
		return writeYAML(r, rule)
	}
	showRuleText(r, rule)
	return nil
}

// showRuleText displays detailed rule info in styled text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) {
	styles := r.Styles()

	r.Println(styles.Header.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"),
		severityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		for _, line := range strings.Split(rule.Rationale, "\n") {
			r.Println("  " + line)
		}
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
	}
}

func writeYAML(r *output.Renderer, v any) error {
	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func severityStyle(styles output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	case lint.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}
