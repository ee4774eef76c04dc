package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ca65lint/internal/config"
)

func TestNewRenderer_Color(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{"always", config.ColorAlways, true},
		{"never", config.ColorNever, false},
		{"auto on buffer", config.ColorAuto, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.color)
			assert.Equal(t, tt.want, r.Colored())
			if tt.want {
				assert.NotNil(t, r.ReportStyles())
			} else {
				assert.Nil(t, r.ReportStyles())
			}
		})
	}
}

func TestRenderer_PlainOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, config.ColorNever)

	r.Header("a.s")
	r.Printf("%d violations\n", 2)
	r.Println("done")
	r.Errorf("boom: %s\n", "x")

	assert.Equal(t, "==> a.s <==\n2 violations\ndone\n", out.String())
	assert.Equal(t, "boom: x\n", errOut.String())
}

func TestRenderer_ColoredHeader(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, config.ColorAlways)

	r.Header("a.s")
	assert.Contains(t, out.String(), "==> a.s <==")
	assert.Contains(t, out.String(), "\x1b[")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, config.ColorNever)

	require.NoError(t, r.JSON(map[string]int{"count": 1}))
	assert.Equal(t, "{\n  \"count\": 1\n}\n", out.String())
}
