package limitcalc

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/limitcalc/symbolic"
)

const (
	// reciprocalPoint is the y at which f(1/y) is evaluated.
	reciprocalPoint = 1e-10
)

var errNoDominantTerm = errors.New("cannot compare degrees")

type infinityStrategy struct{}

func (infinityStrategy) ID() StrategyID { return StrategyInfinity }

func (infinityStrategy) Applies(t ApproachTarget) bool { return t.IsInf() }

func (infinityStrategy) Apply(p Problem) (Outcome, Trace, error) {
	sign := p.Target.Sign()
	step := newStep(StrategyInfinity, "Infinity Limit",
		fmt.Sprintf("Calculating the limit as %s", tex(p.Var+` \to `+p.Target.LaTeX())))

	y := freshName(p.Expr, p.Var)
	transformed := symbolic.Sub(p.Expr, p.Var, symbolic.DivOf(symbolic.N(1), symbolic.S(y)))
	step.Lines = append(step.Lines,
		fmt.Sprintf("Substituting %s to transform to a limit as %s", tex(p.Var+` = \frac{1}{`+y+`}`), tex(y+` \to 0^+`)),
		"Transformed expression: "+tex(transformed.LaTeX()))

	v, err := symbolic.Evaluate(transformed, symbolic.Bindings{y: reciprocalPoint})
	if err == nil && finite(v) {
		step.Lines = append(step.Lines, fmt.Sprintf("Evaluating at %s: %s", tex(y+" = 10^{-10}"), tex(short(v))))
		// Ratios of polynomials are decided exactly by their degrees.
		if out, lines, err := compareDegrees(p, sign); err == nil {
			step.Lines = append(step.Lines, "The function is a ratio of polynomials, so the degrees decide the limit")
			step.Lines = append(step.Lines, lines...)
			return out, Trace{step}, nil
		}
		if sign < 0 && v != 0 {
			v = -v
			step.Lines = append(step.Lines,
				"Reflecting for "+tex(`-\infty`)+" by negating the value. This assumes the function is odd and is wrong for even functions such as "+tex("2+\\frac{1}{"+p.Var+"^2}"))
		}
		return Determined(v), Trace{step}, nil
	}
	step.Lines = append(step.Lines, "The transformed expression does not evaluate to a finite value")

	if !hasPowerOrQuotient(p.Expr, p.Var) {
		return Indeterminate(), Trace{step}, errNoDominantTerm
	}
	out, lines, err := compareDegrees(p, sign)
	step.Lines = append(step.Lines, lines...)
	return out, Trace{step}, err
}

// compareDegrees finds the limit of a rational function at ±∞ from the
// degrees and leading coefficients of numerator and denominator.
func compareDegrees(p Problem, sign int) (Outcome, []string, error) {
	n, d, ok := symbolic.Quotient(p.Expr)
	if !ok {
		n, d = p.Expr, symbolic.N(1)
	}
	num, nok := symbolic.Polynomial(n, p.Var)
	den, dok := symbolic.Polynomial(d, p.Var)
	if !nok || !dok {
		return Indeterminate(), []string{"Numerator and denominator are not both polynomials"}, errNoDominantTerm
	}
	degN, degD := len(num)-1, len(den)-1
	ln, ld := num[degN], den[degD]
	if ld == 0 {
		return Indeterminate(), []string{"The denominator is zero"}, errNoDominantTerm
	}
	lines := []string{fmt.Sprintf("Numerator degree %d, denominator degree %d", degN, degD)}
	switch {
	case degN < degD:
		lines = append(lines, "Denominator has higher degree, so the limit is "+tex("0"))
		return Determined(0), lines, nil
	case degN == degD:
		ratio := ln / ld
		lines = append(lines, fmt.Sprintf("Degrees are equal, so the limit is the ratio of leading coefficients: %s",
			tex(`\frac{`+Format(ln)+`}{`+Format(ld)+`} = `+Format(ratio))))
		return Determined(ratio), lines, nil
	}
	s := math.Copysign(1, ln/ld)
	if sign < 0 && (degN-degD)%2 == 1 {
		s = -s
	}
	v := math.Inf(int(s))
	lines = append(lines, "Numerator has higher degree, so the limit is "+tex(Format(v)))
	return Determined(v), lines, nil
}

// hasPowerOrQuotient reports whether e raises the variable to a power or
// divides by something.
func hasPowerOrQuotient(e symbolic.Expr, varName string) bool {
	if _, _, ok := symbolic.Quotient(e); ok {
		return true
	}
	found := false
	symbolic.Replace(e, func(n symbolic.Expr) (symbolic.Expr, bool) {
		if pw, ok := n.(*symbolic.Pow); ok && symbolic.DependsOn(pw.Base(), varName) {
			found = true
		}
		return nil, false
	})
	return found
}

// freshName picks a variable name not already used in e.
func freshName(e symbolic.Expr, varName string) string {
	used := symbolic.FreeSymbols(e)
	for _, c := range []string{"y", "t", "u", "v", "w", "z"} {
		if _, taken := used[c]; !taken && c != varName {
			return c
		}
	}
	return "y_" + varName
}
