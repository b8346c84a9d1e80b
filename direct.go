package limitcalc

import (
	"fmt"

	"github.com/njchilds90/limitcalc/symbolic"
)

type directStrategy struct{}

func (directStrategy) ID() StrategyID { return StrategyDirect }

func (directStrategy) Applies(t ApproachTarget) bool { return !t.IsInf() }

func (directStrategy) Apply(p Problem) (Outcome, Trace, error) {
	v, err := substitute(p, p.Expr)
	step := newStep(StrategyDirect, "Direct Substitution",
		fmt.Sprintf("Substituting %s: %s", tex(p.Var+" = "+p.Target.LaTeX()), tex(p.substitution(p.Expr, p.Target.Value))))
	if err != nil {
		step.Lines = append(step.Lines, "Substitution does not produce a finite value")
		return Indeterminate(), Trace{step}, err
	}
	step.Lines = append(step.Lines, "Direct substitution works: "+tex("= "+Format(v)))
	return Determined(v), Trace{step}, nil
}

// substitute evaluates e at the target. A non-finite value is an error,
// so callers can treat every failure the same way.
func substitute(p Problem, e symbolic.Expr) (float64, error) {
	v, err := p.at(e, p.Target.Value)
	if err != nil {
		return 0, err
	}
	if !finite(v) {
		return v, fmt.Errorf("%w: %v", ErrNotFinite, v)
	}
	return v, nil
}
