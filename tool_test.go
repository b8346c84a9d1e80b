package limitcalc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/limitcalc"
	"github.com/njchilds90/limitcalc/symbolic"
)

func TestHandleToolCall_Limit(t *testing.T) {
	resp := limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "limit",
		Params: map[string]interface{}{"function": `\frac{x^2-4}{x-2}`, "approach": "2"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, `\frac{4}{1}`, resp.String)
	res, ok := resp.Result.(limitcalc.Result)
	require.True(t, ok)
	assert.True(t, res.Determined)
}

func TestHandleToolCall_LimitOptions(t *testing.T) {
	resp := limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool: "limit",
		Params: map[string]interface{}{
			"function":   `\frac{\sin u}{u}`,
			"approach":   "0",
			"variable":   "u",
			"strategies": []interface{}{"numeric"},
		},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "1", resp.String)

	resp = limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "limit",
		Params: map[string]interface{}{"function": "x", "approach": "0", "strategies": []interface{}{"nope"}},
	})
	assert.Contains(t, resp.Error, "unknown strategy")
}

func TestHandleToolCall_Errors(t *testing.T) {
	cases := []limitcalc.ToolRequest{
		{Tool: "limit", Params: map[string]interface{}{"function": "x"}},
		{Tool: "limit", Params: map[string]interface{}{"function": "x", "approach": "1", "bogus": true}},
		{Tool: "derivative", Params: map[string]interface{}{"expr": "(x"}},
		{Tool: "nope"},
	}
	for _, req := range cases {
		t.Run(req.Tool, func(t *testing.T) {
			assert.NotEmpty(t, limitcalc.HandleToolCall(req).Error)
		})
	}
}

func TestHandleToolCall_Translate(t *testing.T) {
	resp := limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "translate",
		Params: map[string]interface{}{"latex": `\sqrt{x}`},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "sqrt(x)", resp.String)
	assert.Equal(t, `\sqrt{x}`, resp.LaTeX)
	tree, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pow", tree["type"])
}

func TestHandleToolCall_ParseApproach(t *testing.T) {
	resp := limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "parse_approach",
		Params: map[string]interface{}{"approach": `-\infty`},
	})
	assert.Equal(t, "-Inf", resp.Result)
	assert.Equal(t, `-\infty`, resp.String)

	resp = limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "parse_approach",
		Params: map[string]interface{}{"approach": `\frac{3}{4}`},
	})
	assert.Equal(t, 0.75, resp.Result)
	assert.Equal(t, `\frac{3}{4}`, resp.String)
}

func TestHandleToolCall_Derivative(t *testing.T) {
	resp := limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "derivative",
		Params: map[string]interface{}{"expr": "sin(x)"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "cos(x)", resp.String)

	resp = limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "derivative",
		Params: map[string]interface{}{"expr": "x^3", "order": 2},
	})
	require.Empty(t, resp.Error)
	second, err := symbolic.Parse(resp.String, "x")
	require.NoError(t, err)
	v, err := symbolic.Evaluate(second, symbolic.Bindings{"x": 2})
	require.NoError(t, err)
	assert.InDelta(t, 12, v, 1e-12)
}

func TestHandleToolCall_Format(t *testing.T) {
	resp := limitcalc.HandleToolCall(limitcalc.ToolRequest{
		Tool:   "format",
		Params: map[string]interface{}{"value": "0.5"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, `\frac{1}{2}`, resp.String)
}

func TestToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(limitcalc.ToolSpec()), &spec))
	var names []string
	for _, tool := range spec.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"limit", "translate", "parse_approach", "derivative", "format", "tool_spec"}, names)
}
