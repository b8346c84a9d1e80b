package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/limitcalc"
	"github.com/njchilds90/limitcalc/internal/render"
)

func write(t *testing.T, f render.Format, color bool, res limitcalc.Result) string {
	t.Helper()
	r, err := render.New(f, color)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, res))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]render.Format{
		"text": render.Text, "Markdown": render.Markdown, "md": render.Markdown,
		"json": render.JSON, " yaml ": render.YAML, "yml": render.YAML,
	} {
		got, err := render.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := render.ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_Text(t *testing.T) {
	out := write(t, render.Text, false, limitcalc.Compute(`\frac{x^2-4}{x-2}`, "2"))
	lines := strings.Split(out, "\n")
	assert.Equal(t, `lim x->2  \frac{x^2-4}{x-2} = \frac{4}{1}`, lines[0])
	assert.Contains(t, out, "Step 1: Direct Substitution\n")
	assert.Contains(t, out, "Step 2: Algebraic Simplification\n")
	assert.NotContains(t, out, `\(`)
	assert.NotContains(t, out, "\x1b[")
}

func TestWrite_TextUndetermined(t *testing.T) {
	out := write(t, render.Text, false, limitcalc.Compute(`\frac{1}{x}`, "0"))
	assert.True(t, strings.HasPrefix(out, `lim x->0  \frac{1}{x} does not exist`))
	assert.Contains(t, out, "  Limit does not exist or could not be determined\n")
}

func TestWrite_TextError(t *testing.T) {
	res := limitcalc.Compute(`x +* 2`, "1")
	out := write(t, render.Text, false, res)
	assert.True(t, strings.HasPrefix(out, "error: "+res.Error))
}

func TestWrite_Markdown(t *testing.T) {
	res := limitcalc.Compute(`x^2`, "3")
	out := write(t, render.Markdown, false, res)
	assert.True(t, strings.HasPrefix(out, "# $"+res.LaTeX+"$\n\n**Result:** $\\frac{9}{1}$ (direct)\n\n"))
	assert.Contains(t, out, "**Step 1: Direct Substitution**")

	styled := write(t, render.Markdown, true, res)
	assert.NotEmpty(t, styled)
}

func TestWrite_JSON(t *testing.T) {
	out := write(t, render.JSON, false, limitcalc.Compute(`x^2`, "3"))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, `\frac{9}{1}`, decoded["value"])
	assert.Equal(t, "direct", decoded["strategy"])
}

func TestWrite_YAML(t *testing.T) {
	out := write(t, render.YAML, false, limitcalc.Compute(`x^2`, "3"))
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, `\frac{9}{1}`, decoded["value"])
	assert.Equal(t, true, decoded["determined"])
	assert.NotContains(t, decoded, "Value")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, render.IsTerminal(&bytes.Buffer{}))
}
