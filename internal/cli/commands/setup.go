package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ca65lint/internal/cli/output"
	"github.com/leapstack-labs/ca65lint/internal/config"
)

// ErrLintFailed marks a run whose failures were already written to stderr.
var ErrLintFailed = errors.New("lint failed")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config and logger that the root command
// stored in cmd's context and creates a renderer over cmd's writers.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Color),
	}
}
