package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/ca65lint/internal/cli/output"
	"github.com/leapstack-labs/ca65lint/internal/config"
	"github.com/leapstack-labs/ca65lint/internal/scriptrule"
	"github.com/leapstack-labs/ca65lint/pkg/lint"
	_ "github.com/leapstack-labs/ca65lint/pkg/lint/rules" // register built-in rules
	"github.com/leapstack-labs/ca65lint/pkg/parser"
	"github.com/leapstack-labs/ca65lint/pkg/report"
)

// AddLintFlags registers the lint flags on cmd. Their values reach the run
// through the config loader.
func AddLintFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("format", "f", config.DefaultOutput, "Output format: text, json, yaml")
	flags.StringSlice("disable", nil, "Rule IDs to disable")
	flags.StringSlice("rule", nil, "Run only these rule IDs")
	flags.String("severity", config.DefaultSeverity, "Minimum severity reported: error, warning, info, hint")
	flags.BoolP("watch", "w", false, "Re-run when the source files change")
	flags.StringSlice("script", nil, "Starlark rule files to load")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputText, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// RunLint lints every file in paths and writes the reports.
func RunLint(cmd *cobra.Command, paths []string) error {
	cmdCtx := NewCommandContext(cmd)

	l, err := newLinter(cmdCtx)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cmdCtx.Cfg.Watch {
		return l.watch(ctx, paths)
	}
	return l.run(ctx, paths)
}

// linter runs the lint pipeline for a set of files.
type linter struct {
	cfg      *config.Config
	analyzer *lint.Analyzer
	r        *output.Renderer
	logger   *slog.Logger
}

func newLinter(cmdCtx *CommandContext) (*linter, error) {
	lintCfg, err := cmdCtx.Cfg.ToLintConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	scripts, err := scriptrule.LoadAll(cmdCtx.Cfg.Lint.Scripts, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}

	return &linter{
		cfg:      cmdCtx.Cfg,
		analyzer: lint.NewAnalyzer(lintCfg, scripts...),
		r:        cmdCtx.Renderer,
		logger:   cmdCtx.Logger,
	}, nil
}

// fileResult is the outcome of linting one file.
type fileResult struct {
	Path        string
	Source      string
	Diagnostics []lint.Diagnostic
	Err         error
}

// run lints paths in parallel and prints results in argument order.
func (l *linter) run(ctx context.Context, paths []string) error {
	results := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.lintFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := l.printErrors(results)
	if err := l.printReports(results, len(paths) > 1); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrLintFailed, failed, len(paths))
	}
	return nil
}

// lintFile reads, parses and analyzes a single file.
func (l *linter) lintFile(path string) fileResult {
	res := fileResult{Path: path}

	data, err := os.ReadFile(path) //nolint:gosec // path is a command-line argument
	if err != nil {
		res.Err = fmt.Errorf("failed to read source file: %w", err)
		return res
	}
	res.Source = string(data)

	prog, err := parser.Parse(res.Source)
	if err != nil {
		res.Err = err
		return res
	}

	diags, err := l.analyzer.Analyze(prog)
	if err != nil {
		res.Err = fmt.Errorf("failed to analyze %s: %w", path, err)
		return res
	}
	res.Diagnostics = diags

	l.logger.Debug("linted file", "path", path, "statements", len(prog.Statements), "diagnostics", len(diags))
	return res
}

// printErrors writes file failures to stderr and returns how many failed.
func (l *linter) printErrors(results []fileResult) int {
	failed := 0
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		failed++
		if isParseError(res.Err) {
			l.r.Errorf("failed to parse provided source file:\n%s: %v\n", res.Path, res.Err)
			continue
		}
		l.r.Errorf("Error: %v\n", res.Err)
	}
	return failed
}

func isParseError(err error) bool {
	var parseErr *parser.ParseError
	var lexErr *parser.LexError
	return errors.As(err, &parseErr) || errors.As(err, &lexErr)
}

// printReports writes the reports of the files that succeeded.
func (l *linter) printReports(results []fileResult, headers bool) error {
	switch l.cfg.Output {
	case config.OutputJSON, config.OutputYAML:
		reports := make([]report.FileReport, 0, len(results))
		for _, res := range results {
			if res.Err == nil {
				reports = append(reports, report.NewFileReport(res.Path, res.Source, res.Diagnostics))
			}
		}
		// No document at all when every file failed.
		if len(reports) == 0 && len(results) > 0 {
			return nil
		}
		if l.cfg.Output == config.OutputJSON {
			return report.JSON(l.r.Writer(), reports)
		}
		return report.YAML(l.r.Writer(), reports)
	}

	for _, res := range results {
		if res.Err != nil || len(res.Diagnostics) == 0 {
			continue
		}
		if headers {
			l.r.Header(res.Path)
		}
		if err := report.Text(l.r.Writer(), res.Source, res.Diagnostics, l.r.ReportStyles()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
