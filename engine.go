package limitcalc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"time"

	"github.com/njchilds90/limitcalc/symbolic"
)

// Engine runs the limit cascade. It is immutable after New and safe for
// concurrent use.
type Engine struct {
	variable   string
	strategies []Strategy
	hooks      Hooks
	logger     *slog.Logger
}

// StrategyEvent describes one attempted strategy.
type StrategyEvent struct {
	Strategy StrategyID
	Target   ApproachTarget
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// EvaluationEvent describes a whole cascade run. Strategy is the one that
// determined the value, or empty.
type EvaluationEvent struct {
	Expression Expression
	Target     ApproachTarget
	Outcome    Outcome
	Strategy   StrategyID
	Duration   time.Duration
}

// Hooks observe the cascade. Either field may be nil.
type Hooks struct {
	OnStrategy func(context.Context, *StrategyEvent)
	OnEvaluate func(context.Context, *EvaluationEvent)
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	variable   string
	strategies []StrategyID
	hooks      Hooks
	logger     *slog.Logger
}

// WithVariable sets the free variable (default "x").
func WithVariable(name string) Option {
	return func(c *engineConfig) { c.variable = name }
}

// WithStrategies sets the cascade order.
func WithStrategies(ids ...StrategyID) Option {
	return func(c *engineConfig) { c.strategies = ids }
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(c *engineConfig) { c.hooks = h }
}

// WithLogger sets a structured logger. Declined strategies are logged at
// debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) { c.logger = l }
}

var variableRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidVariable reports whether name can be the limit variable: an
// identifier that is not a function name or a reserved constant.
func ValidVariable(name string) bool {
	return variableRe.MatchString(name) && !symbolic.IsFunction(name) &&
		name != "pi" && name != "e" && name != "sqrt"
}

// New builds an Engine.
func New(opts ...Option) (*Engine, error) {
	cfg := engineConfig{variable: "x", strategies: DefaultStrategies()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !ValidVariable(cfg.variable) {
		return nil, fmt.Errorf("%w: %q", ErrVariable, cfg.variable)
	}
	if len(cfg.strategies) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrUnknownStrategy)
	}
	eng := &Engine{variable: cfg.variable, hooks: cfg.hooks, logger: cfg.logger}
	for _, id := range cfg.strategies {
		s, ok := Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
		}
		eng.strategies = append(eng.strategies, s)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.DiscardHandler)
	}
	return eng, nil
}

// With returns a new Engine with the receiver's settings plus opts.
func (e *Engine) With(opts ...Option) (*Engine, error) {
	base := []Option{
		WithVariable(e.variable),
		WithStrategies(e.Strategies()...),
		WithHooks(e.hooks),
		WithLogger(e.logger),
	}
	return New(append(base, opts...)...)
}

// Variable is the engine's free variable.
func (e *Engine) Variable() string { return e.variable }

// Strategies lists the cascade order.
func (e *Engine) Strategies() []StrategyID {
	ids := make([]StrategyID, len(e.strategies))
	for i, s := range e.strategies {
		ids[i] = s.ID()
	}
	return ids
}

// Parse reads an expression in the engine's variable.
func (e *Engine) Parse(expr Expression) (symbolic.Expr, error) {
	if expr == "" {
		return nil, ErrEmptyFunction
	}
	return symbolic.Parse(string(expr), e.variable)
}

// Evaluate runs the cascade. Strategies that fail, panic or come back
// indeterminate are skipped; their steps stay in the trace. The error is
// non-nil only when expr cannot be parsed.
func (e *Engine) Evaluate(ctx context.Context, expr Expression, target ApproachTarget) (Outcome, Trace, error) {
	start := time.Now()
	parsed, err := e.Parse(expr)
	if err != nil {
		return Indeterminate(), nil, err
	}
	p := Problem{Expr: parsed, Var: e.variable, Target: target}

	var (
		trace  Trace
		out    Outcome
		winner StrategyID
	)
	for _, s := range e.strategies {
		if !s.Applies(target) {
			continue
		}
		began := time.Now()
		res, steps, err := e.run(s, p)
		trace = trace.Then(steps...)
		if err == nil && res.Determined && math.IsNaN(res.Value) {
			err = fmt.Errorf("%w: NaN", ErrNotFinite)
		}
		if e.hooks.OnStrategy != nil {
			e.hooks.OnStrategy(ctx, &StrategyEvent{
				Strategy: s.ID(), Target: target, Outcome: res, Err: err, Duration: time.Since(began),
			})
		}
		if err != nil || !res.Determined {
			e.logger.DebugContext(ctx, "strategy declined", "strategy", s.ID(), "expr", string(expr), "error", err)
			continue
		}
		out, winner = res, s.ID()
		break
	}

	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, &EvaluationEvent{
			Expression: expr, Target: target, Outcome: out, Strategy: winner, Duration: time.Since(start),
		})
	}
	e.logger.DebugContext(ctx, "cascade finished", "expr", string(expr), "outcome", out.String(), "strategy", winner)
	return out, trace, nil
}

// run applies one strategy, turning a panic into an error.
func (e *Engine) run(s Strategy, p Problem) (out Outcome, t Trace, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = Indeterminate(), fmt.Errorf("strategy %s panicked: %v", s.ID(), r)
		}
	}()
	return s.Apply(p)
}
