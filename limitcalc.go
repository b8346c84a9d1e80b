// Package limitcalc evaluates single-variable limits entered as LaTeX.
//
// A function and an approach value are normalized into plain expressions,
// then a cascade of strategies runs in order until one determines the
// value:
//   - direct substitution
//   - the 1/y transform for limits at ±∞
//   - algebraic rewrites of common removable singularities
//   - L'Hôpital's rule for 0/0 and ∞/∞ quotients
//   - a two-sided numerical approach
//   - Maclaurin series substitution near zero
//
// Every run produces a derivation trace that can be rendered as HTML or
// Markdown.
package limitcalc

import (
	"context"
	"fmt"
	"sync"
)

// Version of the limitcalc module.
const Version = "0.3.0"

// Result is the outcome of Compute: the inputs, the normalized expression,
// the determined value (if any) and the derivation.
type Result struct {
	Function   string     `json:"function" yaml:"function"`
	Approach   string     `json:"approach" yaml:"approach"`
	Variable   string     `json:"variable" yaml:"variable"`
	Expression Expression `json:"expression,omitempty" yaml:"expression,omitempty"`
	Target     string     `json:"target" yaml:"target"`
	Determined bool       `json:"determined" yaml:"determined"`
	Value      float64    `json:"-" yaml:"-"`
	Formatted  string     `json:"value,omitempty" yaml:"value,omitempty"`
	Strategy   StrategyID `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	LaTeX      string     `json:"latex" yaml:"latex"`
	Trace      Trace      `json:"trace" yaml:"trace"`
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the computation hit a boundary error, as opposed
// to finishing without a value.
func (r Result) Failed() bool { return r.Error != "" }

// HTML renders the trace as an HTML fragment.
func (r Result) HTML() string { return r.Trace.HTML() }

const (
	undeterminedNote = "Limit does not exist or could not be determined"
	errorLaTeX       = `\text{Error: Could not compute limit}`
)

// Compute evaluates the limit of fnLaTeX as x approaches approachLaTeX
// with the default engine.
func Compute(fnLaTeX, approachLaTeX string) Result {
	return defaultEngine().Compute(context.Background(), fnLaTeX, approachLaTeX)
}

var defaultEngine = sync.OnceValue(func() *Engine {
	eng, err := New()
	if err != nil {
		panic(err)
	}
	return eng
})

// Compute translates both inputs, runs the cascade and formats the
// result. It never panics; failures come back in Result.Error.
func (e *Engine) Compute(ctx context.Context, fnLaTeX, approachLaTeX string) (res Result) {
	target := ParseApproach(approachLaTeX)
	res = Result{
		Function: fnLaTeX,
		Approach: approachLaTeX,
		Variable: e.variable,
		Target:   point(target.Value),
	}
	defer func() {
		if r := recover(); r != nil {
			res.fail(fmt.Errorf("%v", r))
		}
	}()

	res.Expression = Translate(fnLaTeX)
	out, trace, err := e.Evaluate(ctx, res.Expression, target)
	if err != nil {
		res.fail(err)
		return res
	}
	res.Trace = trace
	lim := fmt.Sprintf(`\lim_{%s \to %s} \left( %s \right)`, e.variable, target.LaTeX(), fnLaTeX)
	if !out.Determined {
		res.LaTeX = lim + ` \text{ does not exist}`
		res.Trace = res.Trace.Then(note(undeterminedNote))
		return res
	}
	res.Determined = true
	res.Value = out.Value
	res.Formatted = Format(out.Value)
	res.LaTeX = lim + " = " + res.Formatted
	if n := len(trace); n > 0 {
		res.Strategy = trace[n-1].Strategy
	}
	return res
}

func (r *Result) fail(err error) {
	r.Determined = false
	r.Formatted = ""
	r.Strategy = ""
	r.LaTeX = errorLaTeX
	r.Error = err.Error()
	r.Trace = r.Trace.Then(note("Error: " + err.Error()))
}
