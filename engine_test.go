package limitcalc_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/limitcalc"
)

func evaluate(t *testing.T, eng *limitcalc.Engine, expr string, target float64) (limitcalc.Outcome, limitcalc.Trace) {
	t.Helper()
	out, trace, err := eng.Evaluate(context.Background(), limitcalc.Expression(expr), limitcalc.Target(target))
	require.NoError(t, err)
	return out, trace
}

func newEngine(t *testing.T, opts ...limitcalc.Option) *limitcalc.Engine {
	t.Helper()
	eng, err := limitcalc.New(opts...)
	require.NoError(t, err)
	return eng
}

func lastStrategy(trace limitcalc.Trace) limitcalc.StrategyID {
	if len(trace) == 0 {
		return ""
	}
	return trace[len(trace)-1].Strategy
}

func TestEvaluate_Cascade(t *testing.T) {
	eng := newEngine(t)
	inf := math.Inf(1)
	cases := []struct {
		name     string
		expr     string
		target   float64
		want     float64
		strategy limitcalc.StrategyID
	}{
		{"direct", "x^2+1", 3, 10, limitcalc.StrategyDirect},
		{"removable singularity", "(x^2-4)/(x-2)", 2, 4, limitcalc.StrategyAlgebraic},
		{"difference of squares", "(x^2-9)/(x+3)", -3, -6, limitcalc.StrategyAlgebraic},
		{"sqrt conjugate", "(sqrt(x)-3)/(x-9)", 9, 1.0 / 6, limitcalc.StrategyAlgebraic},
		{"common root", "(x^3-1)/(x^2-1)", 1, 1.5, limitcalc.StrategyAlgebraic},
		{"sin(x)/x", "sin(x)/x", 0, 1, limitcalc.StrategyLHopital},
		{"second derivative", "(1-cos(x))/x^2", 0, 0.5, limitcalc.StrategyLHopital},
		{"exp", "(exp(x)-1)/x", 0, 1, limitcalc.StrategyLHopital},
		{"lower degree at infinity", "x/(x^2+1)", inf, 0, limitcalc.StrategyInfinity},
		{"equal degrees at infinity", "(2x^2+1)/(x^2+3)", inf, 2, limitcalc.StrategyInfinity},
		{"diverges", "x^2", inf, inf, limitcalc.StrategyInfinity},
		{"degree comparison", "x^40", inf, inf, limitcalc.StrategyInfinity},
		{"odd at minus infinity", "x^3/(x^2+1)", math.Inf(-1), math.Inf(-1), limitcalc.StrategyInfinity},
		{"even at minus infinity", "x^2", math.Inf(-1), inf, limitcalc.StrategyInfinity},
		{"large constant at infinity", "10000000", inf, 10000000, limitcalc.StrategyInfinity},
		{"constant plus vanishing term", "5000000+1/x", inf, 5000000, limitcalc.StrategyInfinity},
		{"reciprocal at infinity", "1/x", inf, 0, limitcalc.StrategyInfinity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, trace := evaluate(t, eng, tc.expr, tc.target)
			require.True(t, out.Determined, trace.Markdown())
			if math.IsInf(tc.want, 0) {
				assert.Equal(t, tc.want, out.Value)
			} else {
				assert.InDelta(t, tc.want, out.Value, 1e-9)
			}
			assert.Equal(t, tc.strategy, lastStrategy(trace))
		})
	}
}

func TestEvaluate_RemovableSingularityIsExact(t *testing.T) {
	out, _ := evaluate(t, newEngine(t), "(x^2-4)/(x-2)", 2)
	require.True(t, out.Determined)
	assert.Equal(t, 4.0, out.Value)
	assert.Equal(t, `\frac{4}{1}`, out.String())
}

func TestEvaluate_Indeterminate(t *testing.T) {
	eng := newEngine(t)
	for _, expr := range []string{"1/x", "sin(1/x)", "sin(x)/x^2", "x/x^2"} {
		t.Run(expr, func(t *testing.T) {
			out, trace := evaluate(t, eng, expr, 0)
			assert.False(t, out.Determined)
			assert.Equal(t, "indeterminate", out.String())
			assert.NotEmpty(t, trace)
		})
	}
}

func TestEvaluate_InfinityNeverFallsThrough(t *testing.T) {
	out, trace := evaluate(t, newEngine(t), "exp(x)", math.Inf(1))
	assert.False(t, out.Determined)
	for _, s := range trace {
		assert.Equal(t, limitcalc.StrategyInfinity, s.Strategy)
	}
}

func TestEvaluate_NegativeInfinityReflectionIsFlagged(t *testing.T) {
	// Outside ratios of polynomials the value at y = 10^-10 is negated for -∞,
	// which is only right for odd functions; the trace says so.
	out, trace := evaluate(t, newEngine(t), "2+1/x", math.Inf(-1))
	require.True(t, out.Determined)
	assert.InDelta(t, -2, out.Value, 1e-9)
	assert.Contains(t, trace.Markdown(), "wrong for even functions")
}

func TestEvaluate_Idempotent(t *testing.T) {
	eng := newEngine(t)
	out1, trace1 := evaluate(t, eng, "(1-cos(x))/x^2", 0)
	out2, trace2 := evaluate(t, eng, "(1-cos(x))/x^2", 0)
	assert.Equal(t, out1, out2)
	assert.Equal(t, trace1, trace2)
	require.NotEmpty(t, trace1)
	trace1[0].Title = "changed"
	assert.NotEqual(t, trace1[0].Title, trace2[0].Title)
}

func TestEvaluate_SingleStrategies(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		eng := newEngine(t, limitcalc.WithStrategies(limitcalc.StrategyNumeric))
		out, _ := evaluate(t, eng, "sin(x)/x", 0)
		require.True(t, out.Determined)
		assert.InDelta(t, 1, out.Value, 1e-9)

		out, _ = evaluate(t, eng, "|x|/x", 0)
		assert.False(t, out.Determined)
	})

	t.Run("taylor special case", func(t *testing.T) {
		eng := newEngine(t, limitcalc.WithStrategies(limitcalc.StrategyTaylor))
		out, trace := evaluate(t, eng, "sin(x)/x", 0)
		require.True(t, out.Determined)
		assert.Equal(t, 1.0, out.Value)
		assert.Equal(t, limitcalc.StrategyTaylor, lastStrategy(trace))
	})

	t.Run("taylor cancellation", func(t *testing.T) {
		eng := newEngine(t, limitcalc.WithStrategies(limitcalc.StrategyTaylor))
		out, trace := evaluate(t, eng, "(1-cos(x))/x^2", 0)
		require.True(t, out.Determined, trace.Markdown())
		assert.InDelta(t, 0.5, out.Value, 1e-9)
	})

	t.Run("taylor binomial series", func(t *testing.T) {
		eng := newEngine(t, limitcalc.WithStrategies(limitcalc.StrategyTaylor))
		out, trace := evaluate(t, eng, "(sqrt(1+x)-1)/x", 0)
		require.True(t, out.Determined, trace.Markdown())
		assert.InDelta(t, 0.5, out.Value, 1e-9)
		assert.Contains(t, trace.Markdown(), `\sqrt{`)
	})

	t.Run("taylor needs a zero target", func(t *testing.T) {
		eng := newEngine(t, limitcalc.WithStrategies(limitcalc.StrategyTaylor))
		out, trace := evaluate(t, eng, "sin(x)/x", 1)
		assert.False(t, out.Determined)
		assert.Empty(t, trace)
	})
}

func TestEvaluate_Variable(t *testing.T) {
	eng := newEngine(t, limitcalc.WithVariable("theta"))
	out, _ := evaluate(t, eng, "sin(theta)/theta", 0)
	require.True(t, out.Determined)
	assert.InDelta(t, 1, out.Value, 1e-12)
	assert.Equal(t, "theta", eng.Variable())
}

func TestEvaluate_ParseError(t *testing.T) {
	_, _, err := newEngine(t).Evaluate(context.Background(), "(x+1", limitcalc.Target(1))
	require.Error(t, err)

	_, _, err = newEngine(t).Evaluate(context.Background(), "", limitcalc.Target(1))
	assert.True(t, errors.Is(err, limitcalc.ErrEmptyFunction))
}

func TestNew_Validation(t *testing.T) {
	_, err := limitcalc.New(limitcalc.WithVariable("sin"))
	assert.True(t, errors.Is(err, limitcalc.ErrVariable))

	_, err = limitcalc.New(limitcalc.WithVariable("2x"))
	assert.True(t, errors.Is(err, limitcalc.ErrVariable))

	_, err = limitcalc.New(limitcalc.WithStrategies("guess"))
	assert.True(t, errors.Is(err, limitcalc.ErrUnknownStrategy))

	eng, err := limitcalc.New()
	require.NoError(t, err)
	assert.Equal(t, limitcalc.DefaultStrategies(), eng.Strategies())
}

func TestParseStrategies(t *testing.T) {
	ids, err := limitcalc.ParseStrategies(" Direct, lhopital ,")
	require.NoError(t, err)
	assert.Equal(t, []limitcalc.StrategyID{limitcalc.StrategyDirect, limitcalc.StrategyLHopital}, ids)

	_, err = limitcalc.ParseStrategies("direct,magic")
	assert.True(t, errors.Is(err, limitcalc.ErrUnknownStrategy))

	_, err = limitcalc.ParseStrategies("")
	assert.Error(t, err)
}

func TestHooks(t *testing.T) {
	var strategies []limitcalc.StrategyID
	var final *limitcalc.EvaluationEvent
	eng := newEngine(t, limitcalc.WithHooks(limitcalc.Hooks{
		OnStrategy: func(_ context.Context, ev *limitcalc.StrategyEvent) { strategies = append(strategies, ev.Strategy) },
		OnEvaluate: func(_ context.Context, ev *limitcalc.EvaluationEvent) { final = ev },
	}))
	evaluate(t, eng, "(x^2-4)/(x-2)", 2)
	assert.Equal(t, []limitcalc.StrategyID{limitcalc.StrategyDirect, limitcalc.StrategyAlgebraic}, strategies)
	require.NotNil(t, final)
	assert.Equal(t, limitcalc.StrategyAlgebraic, final.Strategy)
	assert.True(t, final.Outcome.Determined)
}
