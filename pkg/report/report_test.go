package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ca65lint/pkg/lint"
	_ "github.com/leapstack-labs/ca65lint/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/ca65lint/pkg/parser"
	"github.com/leapstack-labs/ca65lint/pkg/report"
	"github.com/leapstack-labs/ca65lint/pkg/token"
)

func analyze(t *testing.T, src string) []lint.Diagnostic {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	diags, err := lint.NewAnalyzer(nil).Analyze(prog)
	require.NoError(t, err)
	return diags
}

func renderText(t *testing.T, src string, diags []lint.Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, src, diags, nil))
	return buf.String()
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no violations",
			src:  "start:\nLDA start\n",
			want: "",
		},
		{
			name: "label and decimal address",
			src:  "start:\nLDA 100\n",
			want: "unreferenced label\n" +
				"at line 1, position 0\n" +
				"start:\n" +
				"^^^^^\n" +
				"\n" +
				"memory referenced via decimal address\n" +
				"at line 2, position 4\n" +
				"LDA 100\n" +
				"    ^^^\n" +
				"\n",
		},
		{
			name: "indented label",
			src:  "  foo := $10\n",
			want: "unreferenced label\n" +
				"at line 1, position 2\n" +
				"  foo := $10\n" +
				"  ^^^\n" +
				"\n",
		},
		{
			name: "CRLF line endings",
			src:  "start:\r\nLDA 100\r\n",
			want: "unreferenced label\n" +
				"at line 1, position 0\n" +
				"start:\n" +
				"^^^^^\n" +
				"\n" +
				"memory referenced via decimal address\n" +
				"at line 2, position 4\n" +
				"LDA 100\n" +
				"    ^^^\n" +
				"\n",
		},
		{
			name: "last line without newline",
			src:  "RTS\nSTA 5",
			want: "memory referenced via decimal address\n" +
				"at line 2, position 4\n" +
				"STA 5\n" +
				"    ^\n" +
				"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderText(t, tt.src, analyze(t, tt.src)))
		})
	}
}

func TestTextIsIdempotent(t *testing.T) {
	src := "a:\nb := 1\nLDA 10\nc: STA 20\nJMP a\n"
	first := renderText(t, src, analyze(t, src))
	second := renderText(t, src, analyze(t, src))
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestTextMixedLineEndings(t *testing.T) {
	src := "a:\r\n  LDA 7\nb:\r\nRTS"
	diags := []lint.Diagnostic{
		{Message: "m", Span: token.NewSpan(10, 11)},
		{Message: "m", Span: token.NewSpan(12, 13)},
	}

	out := renderText(t, src, diags)
	assert.Equal(t,
		"m\nat line 2, position 6\n  LDA 7\n      ^\n\n"+
			"m\nat line 3, position 0\nb:\n^\n\n",
		out)
}

func TestSortIsStable(t *testing.T) {
	diags := []lint.Diagnostic{
		{RuleID: "C", Span: token.NewSpan(10, 12)},
		{RuleID: "A", Span: token.NewSpan(3, 4)},
		{RuleID: "B", Span: token.NewSpan(3, 5)},
		{RuleID: "D", Span: token.NewSpan(0, 1)},
	}

	sorted := report.Sort(diags)

	var ids []string
	for _, d := range sorted {
		ids = append(ids, d.RuleID)
	}
	assert.Equal(t, []string{"D", "A", "B", "C"}, ids)
	assert.Equal(t, "C", diags[0].RuleID, "input is left untouched")
}

func TestLocate(t *testing.T) {
	idx := token.NewLineIndex("ab\r\ncd\nef")

	tests := []struct {
		offset int
		want   report.Location
	}{
		{0, report.Location{Line: 1, Column: 0, Text: "ab"}},
		{2, report.Location{Line: 1, Column: 2, Text: "ab"}},
		{4, report.Location{Line: 2, Column: 0, Text: "cd"}},
		{8, report.Location{Line: 3, Column: 1, Text: "ef"}},
		{9, report.Location{Line: 3, Column: 2, Text: "ef"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, report.Locate(idx, tt.offset), "offset %d", tt.offset)
	}
}

func TestTextWithStylesKeepsSourceVerbatim(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	styles := &report.Styles{
		Message:  r.NewStyle().Bold(true),
		Location: r.NewStyle().Faint(true),
		Caret:    r.NewStyle().Foreground(lipgloss.Color("1")),
	}

	src := "start:\n\tLDA 100\n"
	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, src, analyze(t, src), styles))

	lines := strings.Split(buf.String(), "\n")
	assert.Contains(t, lines, "\tLDA 100", "source lines are never styled")
	assert.Contains(t, buf.String(), "memory referenced via decimal address")
	assert.Contains(t, buf.String(), "at line 2, position 5")
}

func TestJSON(t *testing.T) {
	src := "start:\nLDA 100\n"
	reports := []report.FileReport{report.NewFileReport("main.s", src, analyze(t, src))}

	var buf bytes.Buffer
	require.NoError(t, report.JSON(&buf, reports))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "main.s", decoded[0]["path"])

	diags, ok := decoded[0]["diagnostics"].([]any)
	require.True(t, ok)
	require.Len(t, diags, 2)
	first := diags[0].(map[string]any)
	assert.Equal(t, "LB01", first["rule_id"])
	assert.Equal(t, "warning", first["severity"])
	assert.Equal(t, "unreferenced label", first["message"])
	assert.Equal(t, float64(1), first["line"])
	assert.Equal(t, float64(0), first["column"])
	assert.Equal(t, float64(0), first["start"])
	assert.Equal(t, float64(5), first["end"])
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	clean := report.NewFileReport("ok.s", "RTS\n", nil)
	require.NoError(t, report.JSON(&buf, []report.FileReport{clean}))
	assert.Contains(t, buf.String(), `"diagnostics": []`)
}

func TestYAML(t *testing.T) {
	src := "LDA 100\n"
	reports := []report.FileReport{report.NewFileReport("main.s", src, analyze(t, src))}

	var buf bytes.Buffer
	require.NoError(t, report.YAML(&buf, reports))
	assert.Contains(t, buf.String(), "rule_id: AD01")
	assert.Contains(t, buf.String(), "message: memory referenced via decimal address")

	var decoded []report.FileReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, reports[0], decoded[0])
}
