package limitcalc

import (
	"fmt"
	"math"
	"strings"

	"github.com/njchilds90/limitcalc/symbolic"
)

// StrategyID names a cascade strategy. Engines are configured with an
// ordered list of these.
type StrategyID string

const (
	StrategyDirect    StrategyID = "direct"
	StrategyInfinity  StrategyID = "infinity"
	StrategyAlgebraic StrategyID = "algebraic"
	StrategyLHopital  StrategyID = "lhopital"
	StrategyNumeric   StrategyID = "numeric"
	StrategyTaylor    StrategyID = "taylor"
)

// DefaultStrategies is the cascade order used when none is configured.
func DefaultStrategies() []StrategyID {
	return []StrategyID{
		StrategyDirect,
		StrategyInfinity,
		StrategyAlgebraic,
		StrategyLHopital,
		StrategyNumeric,
		StrategyTaylor,
	}
}

// Outcome is the result of a strategy or of a whole cascade: either a
// determined value (possibly ±Inf) or indeterminate.
type Outcome struct {
	Value      float64
	Determined bool
}

func Determined(v float64) Outcome { return Outcome{Value: v, Determined: true} }
func Indeterminate() Outcome       { return Outcome{} }

func (o Outcome) String() string {
	if !o.Determined {
		return "indeterminate"
	}
	return Format(o.Value)
}

// Problem is everything a strategy needs: the parsed function, the name
// of its free variable and the approach target.
type Problem struct {
	Expr   symbolic.Expr
	Var    string
	Target ApproachTarget
}

// at evaluates e with the free variable bound to v.
func (p Problem) at(e symbolic.Expr, v float64) (float64, error) {
	return symbolic.Evaluate(e, symbolic.Bindings{p.Var: v})
}

// substitution shows e with the variable replaced by a parenthesized
// value, the way a student would write it out.
func (p Problem) substitution(e symbolic.Expr, v float64) string {
	return symbolic.Sub(e, p.Var, symbolic.S("("+point(v)+")")).LaTeX()
}

func (p Problem) limitOf(e symbolic.Expr) string {
	return fmt.Sprintf(`\lim_{%s \to %s} %s`, p.Var, p.Target.LaTeX(), e.LaTeX())
}

// A Strategy is one technique in the cascade. Applies gates it on the
// target; Apply returns its outcome and the steps it took. Apply may fail
// or panic: the engine treats both as a decline.
type Strategy interface {
	ID() StrategyID
	Applies(target ApproachTarget) bool
	Apply(p Problem) (Outcome, Trace, error)
}

var registry = map[StrategyID]Strategy{
	StrategyDirect:    directStrategy{},
	StrategyInfinity:  infinityStrategy{},
	StrategyAlgebraic: algebraicStrategy{},
	StrategyLHopital:  lhopitalStrategy{},
	StrategyNumeric:   numericStrategy{},
	StrategyTaylor:    taylorStrategy{},
}

// Lookup returns the built-in strategy with the given id.
func Lookup(id StrategyID) (Strategy, bool) {
	s, ok := registry[id]
	return s, ok
}

// ParseStrategies reads a comma-separated list of strategy ids.
func ParseStrategies(s string) ([]StrategyID, error) {
	var ids []StrategyID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		id := StrategyID(part)
		if _, ok := registry[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrUnknownStrategy)
	}
	return ids, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
