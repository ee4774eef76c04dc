// Package config loads ca65lint settings and carries the run logger.
//
// Settings are layered with koanf, lowest precedence first: built-in
// defaults, a ca65lint.yaml (or .yml) file, CA65LINT_* environment variables
// and explicitly set command-line flags.
package config

// Config holds all ca65lint settings.
type Config struct {
	Output   string     `koanf:"output"`   // text, json, yaml
	Color    string     `koanf:"color"`    // auto, always, never
	Verbose  bool       `koanf:"verbose"`  // debug logging on stderr
	Severity string     `koanf:"severity"` // minimum severity reported
	Watch    bool       `koanf:"watch"`    // re-run on file changes
	Lint     LintConfig `koanf:"lint"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

// LintConfig configures the rule engine.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"` // rule IDs to skip
	Only     []string                  `koanf:"only"`     // when set, run only these rule IDs
	Severity map[string]string         `koanf:"severity"` // rule ID -> severity override
	Rules    map[string]map[string]any `koanf:"rules"`    // rule ID -> options
	Scripts  []string                  `koanf:"scripts"`  // Starlark rule files
}

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default configuration values.
const (
	DefaultOutput   = OutputText
	DefaultColor    = ColorAuto
	DefaultSeverity = "hint" // report everything

	// EnvPrefix prefixes environment variables. A double underscore
	// separates nested keys: CA65LINT_LINT__DISABLED sets lint.disabled.
	EnvPrefix = "CA65LINT_"
)

// configFileNames are looked up, in order, when no file is given.
var configFileNames = []string{"ca65lint.yaml", "ca65lint.yml"}
