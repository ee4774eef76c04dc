package lint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ca65lint/pkg/parser"
)

// resetRegistry clears the global registry for the duration of a test.
func resetRegistry(t *testing.T) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{SeverityHint, "hint"},
		{Severity(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sev.String())
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{in: "error", want: SeverityError},
		{in: "WARNING", want: SeverityWarning},
		{in: "warn", want: SeverityWarning},
		{in: " info ", want: SeverityInfo},
		{in: "hint", want: SeverityHint},
		{in: "fatal", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityAtLeast(t *testing.T) {
	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))
	assert.True(t, SeverityHint.AtLeast(SeverityHint))
}

func TestSeverityText(t *testing.T) {
	data, err := json.Marshal(map[string]Severity{"level": SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"warning"}`, string(data))

	var got struct{ Level Severity }
	require.NoError(t, json.Unmarshal([]byte(`{"Level":"ERROR"}`), &got))
	assert.Equal(t, SeverityError, got.Level)

	assert.Error(t, json.Unmarshal([]byte(`{"Level":"loud"}`), &got))
}

func TestWrapRuleDef(t *testing.T) {
	called := false
	def := RuleDef{
		ID:          "TST01",
		Name:        "testing.rule",
		Group:       "testing",
		Description: "A test rule",
		Severity:    SeverityInfo,
		ConfigKeys:  []string{"max"},
		Rationale:   "because",
		BadExample:  "bad",
		GoodExample: "good",
		Check: func(_ *parser.Program, opts map[string]any) []Diagnostic {
			called = true
			assert.Equal(t, 3, opts["max"])
			return []Diagnostic{{Message: "found"}}
		},
	}

	rule := WrapRuleDef(def)
	assert.Equal(t, "TST01", rule.ID())
	assert.Equal(t, "testing.rule", rule.Name())
	assert.Equal(t, "testing", rule.Group())
	assert.Equal(t, "A test rule", rule.Description())
	assert.Equal(t, SeverityInfo, rule.DefaultSeverity())
	assert.Equal(t, []string{"max"}, rule.ConfigKeys())

	diags := rule.Check(&parser.Program{}, map[string]any{"max": 3})
	assert.True(t, called)
	require.Len(t, diags, 1)
	assert.Equal(t, "found", diags[0].Message)

	unwrapper, ok := rule.(interface{ Unwrap() RuleDef })
	require.True(t, ok)
	assert.Equal(t, "TST01", unwrapper.Unwrap().ID)
}

func TestWrapRuleDefWithoutCheck(t *testing.T) {
	rule := WrapRuleDef(RuleDef{ID: "TST02"})
	assert.Nil(t, rule.Check(&parser.Program{}, nil))
}

func TestGetRuleInfo(t *testing.T) {
	rule := WrapRuleDef(RuleDef{
		ID:          "TST01",
		Name:        "testing.rule",
		Group:       "testing",
		Description: "A test rule",
		Severity:    SeverityWarning,
		ConfigKeys:  []string{"ignore"},
		Rationale:   "why",
		BadExample:  "bad",
		GoodExample: "good",
	})

	info := GetRuleInfo(rule)
	assert.Equal(t, RuleInfo{
		ID:              "TST01",
		Name:            "testing.rule",
		Group:           "testing",
		Description:     "A test rule",
		DefaultSeverity: SeverityWarning,
		ConfigKeys:      []string{"ignore"},
		Rationale:       "why",
		BadExample:      "bad",
		GoodExample:     "good",
	}, info)
}

func TestRegistry(t *testing.T) {
	resetRegistry(t)

	Register(RuleDef{ID: "ZZ01", Group: "zeta"})
	Register(RuleDef{ID: "AA02", Group: "alpha"})
	Register(RuleDef{ID: "AA01", Group: "alpha"})

	assert.Equal(t, 3, Count())

	var ids []string
	for _, r := range AllRules() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"AA01", "AA02", "ZZ01"}, ids)

	rule, ok := GetRuleByID("AA02")
	require.True(t, ok)
	assert.Equal(t, "alpha", rule.Group())

	_, ok = GetRuleByID("NOPE")
	assert.False(t, ok)

	alpha := GetRulesByGroup("alpha")
	require.Len(t, alpha, 2)
	assert.Equal(t, "AA01", alpha[0].ID())
	assert.Empty(t, GetRulesByGroup("missing"))

	Register(RuleDef{ID: "AA01", Group: "replaced"})
	assert.Equal(t, 3, Count(), "re-registering an ID replaces the rule")
	rule, _ = GetRuleByID("AA01")
	assert.Equal(t, "replaced", rule.Group())

	Clear()
	assert.Equal(t, 0, Count())
}

func TestGetStringSliceOption(t *testing.T) {
	def := []string{"default"}
	tests := []struct {
		name string
		opts map[string]any
		want []string
	}{
		{name: "nil options", opts: nil, want: def},
		{name: "missing key", opts: map[string]any{}, want: def},
		{name: "string slice", opts: map[string]any{"k": []string{"a", "b"}}, want: []string{"a", "b"}},
		{name: "any slice", opts: map[string]any{"k": []any{"a", 1, "b"}}, want: []string{"a", "b"}},
		{name: "comma string", opts: map[string]any{"k": "a, b,,c"}, want: []string{"a", "b", "c"}},
		{name: "empty string", opts: map[string]any{"k": ""}, want: nil},
		{name: "wrong type", opts: map[string]any{"k": 5}, want: def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStringSliceOption(tt.opts, "k", def))
		})
	}
}
