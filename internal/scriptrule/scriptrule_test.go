package scriptrule

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/ca65lint/internal/testutil"
	"github.com/leapstack-labs/ca65lint/pkg/lint"
	"github.com/leapstack-labs/ca65lint/pkg/parser"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

const noBrkScript = `
id = "XS01"
description = "BRK left in code."
severity = "error"
options = ["allow"]

def check(program, options):
    allow = options.get("allow", [])
    out = []
    for s in program.statements:
        if s.kind == "instruction" and s.mnemonic == "BRK" and "BRK" not in allow:
            out.append({"message": "BRK instruction", "start": s.start, "end": s.end})
    return out
`

const zeroPageScript = `
id = "XS02"

def check(program, options):
    out = []
    for s in program.statements:
        if s.kind != "instruction" or s.operand == None:
            continue
        op = s.operand
        v = op.value
        if op.kind == "direct" and v.kind == "number" and v.base == "hexadecimal" and v.value < 256:
            out.append({"message": "zero page access: " + s.text, "start": op.start, "end": op.end})
    return out
`

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func mustParse(t *testing.T, src string) *parser.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	return prog
}

func TestLoad_Metadata(t *testing.T) {
	rule, err := Load(writeScript(t, "no_brk.star", noBrkScript), testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "XS01", rule.ID())
	assert.Equal(t, "script.no_brk", rule.Name())
	assert.Equal(t, "script", rule.Group())
	assert.Equal(t, "BRK left in code.", rule.Description())
	assert.Equal(t, lint.SeverityError, rule.DefaultSeverity())
	assert.Equal(t, []string{"allow"}, rule.ConfigKeys())
	assert.Contains(t, rule.Rationale(), "no_brk.star")
}

func TestTryCheck(t *testing.T) {
	rule, err := Load(writeScript(t, "no_brk.star", noBrkScript), nil)
	require.NoError(t, err)

	prog := mustParse(t, "start:\n  BRK\nRTS\n")

	diags, err := rule.TryCheck(prog, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "XS01", diags[0].RuleID)
	assert.Equal(t, "BRK instruction", diags[0].Message)
	assert.Equal(t, token.NewSpan(9, 12), diags[0].Span)

	diags, err = rule.TryCheck(prog, map[string]any{"allow": []any{"BRK"}})
	require.NoError(t, err)
	assert.Empty(t, diags, "options reach the script")
}

func TestTryCheck_OperandsAndExpressions(t *testing.T) {
	rule, err := Load(writeScript(t, "zero_page.star", zeroPageScript), nil)
	require.NoError(t, err)

	prog := mustParse(t, "LDA $10\nLDA $1234\nLDA #$10\nLDA 16\nSTA ptr\nRTS\n")
	diags, err := rule.TryCheck(prog, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "zero page access: LDA $10", diags[0].Message)
	assert.Equal(t, token.NewSpan(4, 7), diags[0].Span)
}

func TestTryCheck_Comments(t *testing.T) {
	src := `id = "XS04"

def check(program, options):
    return [
        {"message": "todo: " + c.text[len("TODO"):].strip(), "start": c.start, "end": c.end}
        for c in program.comments
        if c.text.startswith("TODO")
    ]
`
	rule, err := Load(writeScript(t, "todo.star", src), nil)
	require.NoError(t, err)

	diags, err := rule.TryCheck(mustParse(t, "; header\nRTS ; TODO restore\n"), nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "todo: restore", diags[0].Message)
	assert.Equal(t, token.NewSpan(13, 27), diags[0].Span)
}

func TestTryCheck_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errSubstr string
	}{
		{
			name:      "script failure",
			body:      `fail("boom")`,
			errSubstr: "boom",
		},
		{
			name:      "result not a list",
			body:      `return 5`,
			errSubstr: "want list of findings",
		},
		{
			name:      "finding without message",
			body:      `return [{"start": 0, "end": 1}]`,
			errSubstr: `missing "message"`,
		},
		{
			name:      "finding with inverted span",
			body:      `return [{"message": "m", "start": 3, "end": 1}]`,
			errSubstr: "invalid span",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "id = \"XS09\"\n\ndef check(program, options):\n    " + tt.body + "\n"
			logger, logs := testutil.NewCaptureLogger()
			rule, err := Load(writeScript(t, "bad.star", src), logger)
			require.NoError(t, err)

			_, err = rule.TryCheck(mustParse(t, "RTS"), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)

			assert.Nil(t, rule.Check(mustParse(t, "RTS"), nil), "Check drops errors")
			assert.Contains(t, logs.String(), "script rule failed")
			assert.Contains(t, logs.String(), "rule=XS09")
		})
	}
}

func TestTryCheck_NoneMeansNoFindings(t *testing.T) {
	src := "id = \"XS03\"\n\ndef check(program, options):\n    return None\n"
	rule, err := Load(writeScript(t, "none.star", src), nil)
	require.NoError(t, err)

	diags, err := rule.TryCheck(mustParse(t, "RTS"), nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		errSubstr string
	}{
		{"syntax error", "def check(:\n", "Starlark execution error"},
		{"missing id", "def check(program, options):\n    return []\n", "missing id"},
		{"lower-case id", "id = \"xs01\"\ndef check(program, options):\n    return []\n", "invalid rule id"},
		{"id without digits", "id = \"XS\"\ndef check(program, options):\n    return []\n", "invalid rule id"},
		{"id not a string", "id = 5\ndef check(program, options):\n    return []\n", "id must be a string"},
		{"missing check", "id = \"XS01\"\n", "missing check function"},
		{"check not a function", "id = \"XS01\"\ncheck = 1\n", "check must be a function"},
		{"check arity", "id = \"XS01\"\ndef check(program):\n    return []\n", "check must take"},
		{"bad severity", "id = \"XS01\"\nseverity = \"loud\"\ndef check(program, options):\n    return []\n", "unknown severity"},
		{"bad options", "id = \"XS01\"\noptions = \"allow\"\ndef check(program, options):\n    return []\n", "options must be a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, "rule.star", tt.src)
			_, err := Load(path, nil)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			assert.Equal(t, path, loadErr.File)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.star"), nil)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Message, "failed to read file")
}

func TestLoadAll(t *testing.T) {
	lint.Clear()
	t.Cleanup(lint.Clear)

	noBrk := writeScript(t, "no_brk.star", noBrkScript)
	zeroPage := writeScript(t, "zero_page.star", zeroPageScript)

	rules, err := LoadAll([]string{noBrk, zeroPage}, nil)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "XS01", rules[0].ID())
	assert.Equal(t, "XS02", rules[1].ID())

	_, err = LoadAll([]string{noBrk, noBrk}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined in")

	lint.Register(lint.RuleDef{ID: "XS01"})
	_, err = LoadAll([]string{noBrk}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "built-in rule")
}

func TestScriptRuleInAnalyzer(t *testing.T) {
	lint.Clear()
	t.Cleanup(lint.Clear)

	rule, err := Load(writeScript(t, "no_brk.star", noBrkScript), nil)
	require.NoError(t, err)

	cfg := lint.NewConfig().SetSeverity("XS01", lint.SeverityHint)
	diags, err := lint.NewAnalyzer(cfg, rule).Analyze(mustParse(t, "BRK\n"))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityHint, diags[0].Severity)

	failing, err := Load(writeScript(t, "fail.star", "id = \"XS05\"\ndef check(program, options):\n    fail(\"nope\")\n"), nil)
	require.NoError(t, err)
	_, err = lint.NewAnalyzer(nil, failing).Analyze(mustParse(t, "BRK\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule XS05")
}

func TestTryCheck_Concurrent(t *testing.T) {
	rule, err := Load(writeScript(t, "no_brk.star", noBrkScript), nil)
	require.NoError(t, err)
	prog := mustParse(t, "BRK\nBRK\nNOP\n")

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			diags, err := rule.TryCheck(prog, nil)
			if err != nil {
				return err
			}
			if len(diags) != 2 {
				return errors.New("unexpected finding count")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
