// Package cli provides the command-line interface for ca65lint.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ca65lint/internal/cli/commands"
	"github.com/leapstack-labs/ca65lint/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ErrLintFailed is returned when one or more files could not be linted.
// The failures have already been written to stderr.
var ErrLintFailed = commands.ErrLintFailed

// errMissingSource is returned when no source file is given.
var errMissingSource = errors.New("missing argument: ca65 source filepath")

// NewRootCmd creates and returns the root command. Run without a
// subcommand it lints the files given as arguments.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ca65lint [flags] <file> [file...]",
		Short: "ca65lint - static checker for ca65 assembly",
		Long: `ca65lint parses ca65 assembly sources and reports suspicious patterns:
labels that are declared but never referenced (LB01) and instruction
operands that address memory with a decimal literal (AD01).

Violations are reported on stdout and do not change the exit status.
Unreadable or malformed sources exit with status 1.`,
		Example: `  # Lint a file
  ca65lint main.s

  # Lint several files as JSON
  ca65lint --format json src/*.s

  # Only check addressing
  ca65lint --rule AD01 main.s

  # Re-lint on every save
  ca65lint --watch main.s`,
		Version: Version,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingSource
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help, completion and version
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.FileUsed != "" {
				logger.Debug("using config file", "path", cfg.FileUsed)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = config.WithConfig(ctx, cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE:          commands.RunLint,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ca65lint.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("color", config.DefaultColor, "Colorize output: auto, always, never")

	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ColorAuto, config.ColorAlways, config.ColorNever}, cobra.ShellCompDirectiveNoFileComp
	})

	commands.AddLintFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return execute(ctx, NewRootCmd())
}

func execute(ctx context.Context, cmd *cobra.Command) error {
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrLintFailed) {
			errOut := cmd.ErrOrStderr()
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			_, _ = fmt.Fprintf(errOut, "Run '%s --help' for usage.\n", cmd.Name())
		}
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ca65lint.

To load completions:

Bash:
  $ source <(ca65lint completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ca65lint completion bash > /etc/bash_completion.d/ca65lint
  # macOS:
  $ ca65lint completion bash > $(brew --prefix)/etc/bash_completion.d/ca65lint

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ca65lint completion zsh > "${fpath[1]}/_ca65lint"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ca65lint completion fish | source

  # To load completions for each session, execute once:
  $ ca65lint completion fish > ~/.config/fish/completions/ca65lint.fish

PowerShell:
  PS> ca65lint completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ca65lint completion powershell > ca65lint.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
