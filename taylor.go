package limitcalc

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/limitcalc/symbolic"
)

// seriesOrder is the degree of the Maclaurin polynomials substituted for
// elementary functions.
const seriesOrder = 5

var errNoSeries = errors.New("no series substitution applies")

type taylorStrategy struct{}

func (taylorStrategy) ID() StrategyID { return StrategyTaylor }

func (taylorStrategy) Applies(t ApproachTarget) bool {
	return !t.IsInf() && math.Abs(t.Value) < zeroGate
}

func (taylorStrategy) Apply(p Problem) (Outcome, Trace, error) {
	step := newStep(StrategyTaylor, "Taylor Series",
		fmt.Sprintf("Replacing elementary functions by their Maclaurin polynomials of order %d", seriesOrder))

	if isSinOverX(p) {
		step.Lines = append(step.Lines, tex(p.limitOf(p.Expr)+" = 1")+" is a standard limit")
		return Determined(1), Trace{step}, nil
	}

	var used []string
	approx := symbolic.Replace(p.Expr, func(e symbolic.Expr) (symbolic.Expr, bool) {
		var (
			series symbolic.Expr
			ok     bool
		)
		switch f := e.(type) {
		case *symbolic.Func:
			series, ok = maclaurin(f, p.Var)
		case *symbolic.Pow:
			series, ok = binomial(f, p.Var)
		}
		if ok {
			used = append(used, fmt.Sprintf("%s \\approx %s", e.LaTeX(), series.LaTeX()))
		}
		return series, ok
	})
	if len(used) == 0 {
		step.Lines = append(step.Lines, "No known series applies")
		return Indeterminate(), Trace{step}, errNoSeries
	}
	for _, u := range used {
		step.Lines = append(step.Lines, tex(u))
	}
	step.Lines = append(step.Lines, "Approximated expression: "+tex(approx.LaTeX()))

	if v, err := substitute(p, approx); err == nil {
		step.Lines = append(step.Lines, "Substituting gives "+tex(Format(v)))
		return Determined(v), Trace{step}, nil
	}
	num, den, ok := quotientPolys(approx, p.Var)
	if !ok {
		return Indeterminate(), Trace{step}, errNoSeries
	}
	num, den, n := cancelRoot(num, den, 0)
	if n == 0 {
		return Indeterminate(), Trace{step}, errNoSeries
	}
	reduced := symbolic.DivOf(symbolic.FromCoeffs(num, p.Var), symbolic.FromCoeffs(den, p.Var))
	step.Lines = append(step.Lines, fmt.Sprintf("Cancelling %s gives %s", tex(factorLaTeX(p.Var, n)), tex(reduced.LaTeX())))
	v, err := substitute(p, reduced)
	if err != nil {
		return Indeterminate(), Trace{step}, err
	}
	step.Lines = append(step.Lines, "Substituting gives "+tex(Format(v)))
	return Determined(v), Trace{step}, nil
}

// isSinOverX matches sin(x)/x exactly.
func isSinOverX(p Problem) bool {
	num, den, ok := symbolic.Quotient(p.Expr)
	if !ok {
		return false
	}
	x := symbolic.S(p.Var)
	return num.Equal(symbolic.SinOf(x)) && den.Equal(x)
}

// maclaurin returns the series for sin, cos, tan and exp of the variable
// and for log(1+x).
func maclaurin(f *symbolic.Func, varName string) (symbolic.Expr, bool) {
	x := symbolic.S(varName)
	switch f.FuncName() {
	case "sin", "cos", "tan", "exp":
		if !f.Arg().Equal(x) {
			return nil, false
		}
	case "log", "ln":
		if !f.Arg().Equal(symbolic.AddOf(symbolic.N(1), x)) {
			return nil, false
		}
	default:
		return nil, false
	}
	return symbolic.MaclaurinSeries(f, varName, seriesOrder), true
}

// binomial expands (1+x)^a for a non-integer constant a. Integer powers
// are already polynomials.
func binomial(pw *symbolic.Pow, varName string) (symbolic.Expr, bool) {
	a, ok := pw.ExpExpr().(*symbolic.Num)
	if !ok || a.IsInteger() {
		return nil, false
	}
	if !pw.Base().Equal(symbolic.AddOf(symbolic.N(1), symbolic.S(varName))) {
		return nil, false
	}
	return symbolic.MaclaurinSeries(pw, varName, seriesOrder), true
}

func factorLaTeX(varName string, n int) string {
	if n == 1 {
		return varName
	}
	return fmt.Sprintf("%s^{%d}", varName, n)
}
