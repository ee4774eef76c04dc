package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
)

// newFlags builds a flag set with the flags Load understands.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.String("color", "auto", "")
	flags.String("severity", "hint", "")
	flags.BoolP("verbose", "v", false, "")
	flags.Bool("watch", false, "")
	flags.StringSlice("disable", nil, "")
	flags.StringSlice("rule", nil, "")
	flags.StringSlice("script", nil, "")
	flags.String("config", "", "")
	return flags
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "ca65lint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, "hint", cfg.Severity)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Watch)
	assert.Empty(t, cfg.FileUsed)
	assert.Empty(t, cfg.Lint.Disabled)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `output: json
lint:
  disabled: [AD01]
  severity:
    LB01: error
  rules:
    LB01:
      ignore: [reset, nmi]
  scripts:
    - rules/no_brk.star
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.FileUsed)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, []string{"AD01"}, cfg.Lint.Disabled)
	assert.Equal(t, map[string]string{"LB01": "error"}, cfg.Lint.Severity)
	assert.Equal(t, []any{"reset", "nmi"}, cfg.Lint.Rules["LB01"]["ignore"])
	assert.Equal(t, []string{filepath.Join(dir, "rules", "no_brk.star")}, cfg.Lint.Scripts)
}

func TestLoad_DiscoversFileUpward(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "severity: warning\n")
	nested := filepath.Join(root, "src", "game")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	// Compare resolved paths; the temp dir may sit behind a symlink.
	wantPath, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	gotPath, err := filepath.EvalSymlinks(cfg.FileUsed)
	require.NoError(t, err)
	assert.Equal(t, wantPath, gotPath)
	assert.Equal(t, "warning", cfg.Severity)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "output: json\nseverity: info\n")

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("CA65LINT_OUTPUT", "yaml")

		cfg, err := Load(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, OutputYAML, cfg.Output)
		assert.Equal(t, "info", cfg.Severity, "file value is kept when nothing overrides it")
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv("CA65LINT_OUTPUT", "yaml")
		flags := newFlags()
		require.NoError(t, flags.Set("format", "text"))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, OutputText, cfg.Output)
	})

	t.Run("unset flag falls back to file", func(t *testing.T) {
		cfg, err := Load(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, OutputJSON, cfg.Output)
	})
}

func TestLoad_NestedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CA65LINT_LINT__DISABLED", "AD01,LB01")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"AD01", "LB01"}, cfg.Lint.Disabled)
}

func TestLoad_SliceFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	flags := newFlags()
	require.NoError(t, flags.Set("disable", "AD01"))
	require.NoError(t, flags.Set("rule", "LB01,AD01"))
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, []string{"AD01"}, cfg.Lint.Disabled)
	assert.Equal(t, []string{"LB01", "AD01"}, cfg.Lint.Only)
	assert.True(t, cfg.Verbose)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"output", "output: xml\n", "unknown output format"},
		{"color", "color: sometimes\n", "unknown color mode"},
		{"severity", "severity: fatal\n", "unknown severity"},
		{"rule severity", "lint:\n  severity:\n    LB01: loud\n", "lint.severity.LB01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestToLintConfig(t *testing.T) {
	cfg := &Config{
		Output:   OutputText,
		Color:    ColorNever,
		Severity: "warning",
		Lint: LintConfig{
			Disabled: []string{" ad01 ", ""},
			Only:     []string{"lb01"},
			Severity: map[string]string{"lb01": "error"},
			Rules:    map[string]map[string]any{"lb01": {"ignore": []any{"main"}}},
		},
	}

	lintCfg, err := cfg.ToLintConfig()
	require.NoError(t, err)

	assert.Equal(t, lint.SeverityWarning, lintCfg.MinSeverity)
	assert.True(t, lintCfg.IsDisabled("AD01"))
	assert.False(t, lintCfg.IsDisabled("LB01"))
	assert.True(t, lintCfg.IsDisabled("XX01"), "only LB01 runs")
	assert.Equal(t, lint.SeverityError, lintCfg.GetSeverity("LB01", lint.SeverityWarning))
	assert.Equal(t, map[string]any{"ignore": []any{"main"}}, lintCfg.GetRuleOptions("LB01"))
}

func TestGetLogger(t *testing.T) {
	// Fallback never returns nil
	require.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	logger.Debug("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestFromContext(t *testing.T) {
	cfg := FromContext(context.Background())
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultSeverity, cfg.Severity)

	want := &Config{Output: OutputJSON}
	assert.Same(t, want, FromContext(WithConfig(context.Background(), want)))
}
