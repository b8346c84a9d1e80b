package limitcalc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	approachStep      = 1e-6
	approachTolerance = 1e-6
)

var errSidesDisagree = errors.New("one-sided values disagree")

type numericStrategy struct{}

func (numericStrategy) ID() StrategyID { return StrategyNumeric }

func (numericStrategy) Applies(t ApproachTarget) bool { return !t.IsInf() }

func (numericStrategy) Apply(p Problem) (Outcome, Trace, error) {
	a := p.Target.Value
	step := newStep(StrategyNumeric, "Numerical Approach",
		fmt.Sprintf("Evaluating the function near %s", tex(p.Var+" = "+p.Target.LaTeX())))

	left, lerr := p.at(p.Expr, a-approachStep)
	right, rerr := p.at(p.Expr, a+approachStep)
	step.Lines = append(step.Lines,
		fmt.Sprintf("Approaching from the left (%s = %s): %s", p.Var, short(a-approachStep), short(left)),
		fmt.Sprintf("Approaching from the right (%s = %s): %s", p.Var, short(a+approachStep), short(right)))
	if err := errors.Join(lerr, rerr); err != nil {
		return Indeterminate(), Trace{step}, err
	}
	if !finite(left) || !finite(right) || math.Abs(left-right) >= approachTolerance {
		return Indeterminate(), Trace{step}, errSidesDisagree
	}
	step.Lines = append(step.Lines, "Both sides approach the same value: "+tex(Format(left)))
	return Determined(left), Trace{step}, nil
}

func short(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
