package limitcalc

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/limitcalc/symbolic"
)

var errNoRule = errors.New("no simplification rule matched")

type algebraicStrategy struct{}

func (algebraicStrategy) ID() StrategyID { return StrategyAlgebraic }

func (algebraicStrategy) Applies(t ApproachTarget) bool { return !t.IsInf() }

// A rewriteRule returns a reduced form of p.Expr, or ok=false when it
// does not match.
type rewriteRule struct {
	name    string
	rewrite func(p Problem) (symbolic.Expr, bool)
}

var rewriteRules = []rewriteRule{
	{"difference of squares", differenceOfSquares},
	{"conjugate of a square root", sqrtConjugate},
	{"cancelling a common factor", cancelCommonRoot},
}

func (algebraicStrategy) Apply(p Problem) (Outcome, Trace, error) {
	step := newStep(StrategyAlgebraic, "Algebraic Simplification", "Trying to simplify the expression")
	for _, rule := range rewriteRules {
		reduced, ok := rule.rewrite(p)
		if !ok {
			continue
		}
		step.Lines = append(step.Lines,
			fmt.Sprintf("Simplified by %s to: %s", rule.name, tex(reduced.LaTeX())))
		v, err := substitute(p, reduced)
		if err != nil {
			step.Lines = append(step.Lines, "The reduced form is still undefined at the target")
			continue
		}
		step.Lines = append(step.Lines,
			fmt.Sprintf("Now substituting %s: %s", tex(p.Var+" = "+p.Target.LaTeX()), tex(Format(v))))
		return Determined(v), Trace{step}, nil
	}
	step.Lines = append(step.Lines, "No simplification applies")
	return Indeterminate(), Trace{step}, errNoRule
}

// quotientPolys splits e into numerator and denominator polynomials.
func quotientPolys(e symbolic.Expr, varName string) (num, den []float64, ok bool) {
	n, d, ok := symbolic.Quotient(e)
	if !ok {
		return nil, nil, false
	}
	if num, ok = symbolic.Polynomial(n, varName); !ok {
		return nil, nil, false
	}
	if den, ok = symbolic.Polynomial(d, varName); !ok {
		return nil, nil, false
	}
	return num, den, true
}

// differenceOfSquares rewrites (x^2 - k)/(x - r) with r^2 = k as x + r.
func differenceOfSquares(p Problem) (symbolic.Expr, bool) {
	num, den, ok := quotientPolys(p.Expr, p.Var)
	if !ok || len(num) != 3 || len(den) != 2 {
		return nil, false
	}
	if num[2] != 1 || num[1] != 0 || num[0] > 0 || den[1] != 1 {
		return nil, false
	}
	k, r := -num[0], -den[0]
	if !closeTo(r*r, k) {
		return nil, false
	}
	c, ok := symbolic.NFloat(snap(r))
	if !ok {
		return nil, false
	}
	return symbolic.AddOf(symbolic.S(p.Var), c), true
}

// sqrtConjugate rewrites (sqrt(x) - c)/(x - c^2) as 1/(sqrt(x) + c).
func sqrtConjugate(p Problem) (symbolic.Expr, bool) {
	n, d, ok := symbolic.Quotient(p.Expr)
	if !ok {
		return nil, false
	}
	root := symbolic.SqrtOf(symbolic.S(p.Var))
	sum, ok := n.(*symbolic.Add)
	if !ok || len(sum.Terms()) != 2 {
		return nil, false
	}
	var c float64
	matched := false
	for i, t := range sum.Terms() {
		k, isNum := sum.Terms()[1-i].(*symbolic.Num)
		if isNum && t.Equal(root) {
			c, matched = -k.Float64(), true
		}
	}
	if !matched {
		return nil, false
	}
	den, ok := symbolic.Polynomial(d, p.Var)
	if !ok || len(den) != 2 || den[1] != 1 || !closeTo(-den[0], c*c) {
		return nil, false
	}
	cn, ok := symbolic.NFloat(snap(c))
	if !ok {
		return nil, false
	}
	return symbolic.DivOf(symbolic.N(1), symbolic.AddOf(root, cn)), true
}

// cancelCommonRoot divides numerator and denominator polynomials by
// (x - a) for as long as both vanish at the target a.
func cancelCommonRoot(p Problem) (symbolic.Expr, bool) {
	num, den, ok := quotientPolys(p.Expr, p.Var)
	if !ok {
		return nil, false
	}
	num, den, cancelled := cancelRoot(num, den, p.Target.Value)
	if cancelled == 0 {
		return nil, false
	}
	return symbolic.DivOf(symbolic.FromCoeffs(num, p.Var), symbolic.FromCoeffs(den, p.Var)), true
}

// cancelRoot strips common factors (x - a) from two coefficient lists,
// returning the quotients and how many factors were removed.
func cancelRoot(num, den []float64, a float64) ([]float64, []float64, int) {
	n := 0
	for len(num) > 1 && len(den) > 1 {
		qn, rn := divideRoot(num, a)
		qd, rd := divideRoot(den, a)
		if !closeTo(rn, 0) || !closeTo(rd, 0) {
			break
		}
		num, den = qn, qd
		n++
	}
	return num, den, n
}

// divideRoot performs synthetic division of a polynomial (coefficients
// indexed by degree) by (x - a).
func divideRoot(coeffs []float64, a float64) (quot []float64, rem float64) {
	deg := len(coeffs) - 1
	quot = make([]float64, deg)
	carry := 0.0
	for k := deg; k >= 1; k-- {
		carry = coeffs[k] + a*carry
		quot[k-1] = snap(carry)
	}
	return quot, coeffs[0] + a*carry
}

const rootTolerance = 1e-9

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= rootTolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// snap rounds values within tolerance of an integer so reduced forms
// print cleanly.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < rootTolerance {
		return r
	}
	return v
}
