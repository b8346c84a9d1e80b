package limitcalc

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/njchilds90/limitcalc/symbolic"
)

// ============================================================
// Tool-call interface
// ============================================================

// ToolRequest is a JSON tool invocation, as sent by agent runtimes.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type limitParams struct {
	Function   string   `mapstructure:"function"`
	Approach   string   `mapstructure:"approach"`
	Variable   string   `mapstructure:"variable"`
	Strategies []string `mapstructure:"strategies"`
}

type latexParams struct {
	LaTeX string `mapstructure:"latex"`
}

type approachParams struct {
	Approach string `mapstructure:"approach"`
}

type derivativeParams struct {
	Expr  string `mapstructure:"expr"`
	Var   string `mapstructure:"var"`
	Order int    `mapstructure:"order"`
}

type formatParams struct {
	Value float64 `mapstructure:"value"`
}

// HandleToolCall dispatches req with the default engine.
func HandleToolCall(req ToolRequest) ToolResponse {
	return defaultEngine().HandleToolCall(context.Background(), req)
}

// HandleToolCall dispatches a tool request. Errors are reported in the
// response, never returned.
func (e *Engine) HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "limit":
		var p limitParams
		if err := decodeParams(req.Params, &p); err != nil {
			return fail(err)
		}
		if p.Function == "" || p.Approach == "" {
			return fail(fmt.Errorf("missing param: function and approach are required"))
		}
		eng, err := e.forParams(p)
		if err != nil {
			return fail(err)
		}
		res := eng.Compute(ctx, p.Function, p.Approach)
		return ToolResponse{Result: res, LaTeX: res.LaTeX, String: res.Formatted, Error: res.Error}

	case "translate":
		var p latexParams
		if err := decodeParams(req.Params, &p); err != nil {
			return fail(err)
		}
		expr := Translate(p.LaTeX)
		parsed, err := e.Parse(expr)
		if err != nil {
			return ToolResponse{String: string(expr), Error: err.Error()}
		}
		return ToolResponse{Result: symbolic.JSONTree(parsed), LaTeX: parsed.LaTeX(), String: string(expr)}

	case "parse_approach":
		var p approachParams
		if err := decodeParams(req.Params, &p); err != nil {
			return fail(err)
		}
		t := ParseApproach(p.Approach)
		return ToolResponse{Result: jsonNumber(t.Value), LaTeX: t.LaTeX(), String: point(t.Value)}

	case "derivative":
		var p derivativeParams
		if err := decodeParams(req.Params, &p); err != nil {
			return fail(err)
		}
		if p.Var == "" {
			p.Var = e.variable
		}
		if p.Order < 1 {
			p.Order = 1
		}
		d, err := symbolic.DerivativeN(p.Expr, p.Var, p.Order)
		if err != nil {
			return fail(err)
		}
		parsed, err := symbolic.Parse(d, p.Var)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: symbolic.JSONTree(parsed), LaTeX: parsed.LaTeX(), String: d}

	case "format":
		var p formatParams
		if err := decodeParams(req.Params, &p); err != nil {
			return fail(err)
		}
		s := Format(p.Value)
		return ToolResponse{Result: s, LaTeX: s, String: s}

	case "tool_spec":
		return ToolResponse{String: ToolSpec()}
	}
	return fail(fmt.Errorf("unknown tool: %s", req.Tool))
}

func (e *Engine) forParams(p limitParams) (*Engine, error) {
	var opts []Option
	if p.Variable != "" && p.Variable != e.variable {
		opts = append(opts, WithVariable(p.Variable))
	}
	if len(p.Strategies) > 0 {
		ids, err := ParseStrategies(strings.Join(p.Strategies, ","))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithStrategies(ids...))
	}
	if len(opts) == 0 {
		return e, nil
	}
	return e.With(opts...)
}

// decodeParams decodes loosely typed JSON params into out, so "2" and 2
// are both accepted for numbers.
func decodeParams(params map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// jsonNumber keeps infinities encodable.
func jsonNumber(v float64) interface{} {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	return v
}

// ToolSpec returns the JSON schema of every tool HandleToolCall serves.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("limit", "Evaluate lim_{var->approach} of a LaTeX function, with a step-by-step derivation",
			[]string{"function", "approach"},
			map[string]string{"function": "string", "approach": "string", "variable": "string", "strategies": "array"}),
		ts("translate", "Convert LaTeX to the plain expression syntax and its JSON tree", []string{"latex"}, map[string]string{"latex": "string"}),
		ts("parse_approach", "Read an approach value such as 2, \\frac{1}{2}, \\pi or -\\infty", []string{"approach"}, map[string]string{"approach": "string"}),
		ts("derivative", "Symbolic derivative of a plain expression", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "order": "integer"}),
		ts("format", "Format a number as an exact fraction, multiple of pi or decimal", []string{"value"}, map[string]string{"value": "number"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
