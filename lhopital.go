package limitcalc

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/limitcalc/symbolic"
)

const (
	zeroGate     = 1e-6
	infiniteGate = 1e6
	denomFloor   = 1e-8
)

var (
	errNotQuotient   = errors.New("expression is not a quotient")
	errDeterminate   = errors.New("quotient is not an indeterminate form")
	errStillVanishes = errors.New("derivative quotient still vanishes")
)

type lhopitalStrategy struct{}

func (lhopitalStrategy) ID() StrategyID { return StrategyLHopital }

func (lhopitalStrategy) Applies(t ApproachTarget) bool { return !t.IsInf() }

func (lhopitalStrategy) Apply(p Problem) (Outcome, Trace, error) {
	step := newStep(StrategyLHopital, "L'Hôpital's Rule", "Checking for indeterminate form (0/0 or ∞/∞)")
	fail := func(err error) (Outcome, Trace, error) {
		return Indeterminate(), Trace{step}, err
	}

	num, den, ok := symbolic.Quotient(p.Expr)
	if !ok {
		step.Lines = append(step.Lines, "The expression is not a quotient")
		return fail(errNotQuotient)
	}
	nv, err := p.at(num, p.Target.Value)
	if err != nil {
		return fail(err)
	}
	dv, err := p.at(den, p.Target.Value)
	if err != nil {
		return fail(err)
	}
	form, ok := indeterminateForm(nv, dv)
	if !ok {
		step.Lines = append(step.Lines, fmt.Sprintf("Not indeterminate: %s", tex(`\frac{`+Format(nv)+`}{`+Format(dv)+`}`)))
		return fail(errDeterminate)
	}
	step.Lines = append(step.Lines,
		"Found indeterminate form "+tex(form),
		"Applying L'Hôpital's Rule (taking derivatives of numerator and denominator)")

	for round := 1; round <= 2; round++ {
		if num, err = derive(num, p.Var); err != nil {
			return fail(err)
		}
		if den, err = derive(den, p.Var); err != nil {
			return fail(err)
		}
		label := "derivative"
		if round == 2 {
			label = "second derivative"
			step.Lines = append(step.Lines, "Still indeterminate, trying second derivative")
		}
		step.Lines = append(step.Lines,
			fmt.Sprintf("Numerator %s: %s", label, tex(num.LaTeX())),
			fmt.Sprintf("Denominator %s: %s", label, tex(den.LaTeX())))

		if nv, err = p.at(num, p.Target.Value); err != nil {
			return fail(err)
		}
		if dv, err = p.at(den, p.Target.Value); err != nil {
			return fail(err)
		}
		if math.Abs(dv) > denomFloor {
			v := nv / dv
			if !finite(v) {
				return fail(fmt.Errorf("%w: %v", ErrNotFinite, v))
			}
			step.Lines = append(step.Lines,
				fmt.Sprintf("After applying L'Hôpital's Rule: %s", tex(`\frac{`+Format(nv)+`}{`+Format(dv)+`} = `+Format(v))))
			return Determined(v), Trace{step}, nil
		}
		// Only 0/0 again earns another round; c/0 has no finite limit.
		if math.Abs(nv) >= zeroGate {
			step.Lines = append(step.Lines, fmt.Sprintf("The derivative quotient is %s, which has no finite limit",
				tex(`\frac{`+Format(nv)+`}{0}`)))
			return fail(errStillVanishes)
		}
	}
	return fail(errStillVanishes)
}

// indeterminateForm reports whether n/d is 0/0 or ∞/∞ by magnitude.
func indeterminateForm(n, d float64) (string, bool) {
	switch {
	case math.Abs(n) < zeroGate && math.Abs(d) < zeroGate:
		return `\frac{0}{0}`, true
	case math.Abs(n) > infiniteGate && math.Abs(d) > infiniteGate:
		return `\frac{\infty}{\infty}`, true
	}
	return "", false
}

// derive differentiates through the text interface so the result is a
// freshly parsed expression.
func derive(e symbolic.Expr, varName string) (symbolic.Expr, error) {
	d, err := symbolic.Derivative(e.String(), varName)
	if err != nil {
		return nil, err
	}
	return symbolic.Parse(d, varName)
}
