// Package metrics exposes cascade activity as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/limitcalc"
)

// Collectors groups the limitcalc metrics. Register them once per
// registry.
type Collectors struct {
	registry    *prometheus.Registry
	attempts    *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "limitcalc_strategy_attempts_total",
				Help: "Strategies tried, by strategy and result",
			},
			[]string{"strategy", "result"},
		),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "limitcalc_evaluations_total",
				Help: "Completed cascade runs, by determining strategy",
			},
			[]string{"strategy"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "limitcalc_evaluation_duration_seconds",
				Help:    "Duration of cascade runs",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"determined"},
		),
	}
	c.registry.MustRegister(c.attempts, c.evaluations, c.duration)
	return c
}

// Hooks returns engine hooks that record into c.
func (c *Collectors) Hooks() limitcalc.Hooks {
	return limitcalc.Hooks{
		OnStrategy: func(_ context.Context, e *limitcalc.StrategyEvent) {
			result := "declined"
			if e.Err == nil && e.Outcome.Determined {
				result = "determined"
			}
			c.attempts.WithLabelValues(string(e.Strategy), result).Inc()
		},
		OnEvaluate: func(_ context.Context, e *limitcalc.EvaluationEvent) {
			strategy := string(e.Strategy)
			if strategy == "" {
				strategy = "none"
			}
			c.evaluations.WithLabelValues(strategy).Inc()
			determined := "false"
			if e.Outcome.Determined {
				determined = "true"
			}
			c.duration.WithLabelValues(determined).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collectors) Registry() *prometheus.Registry { return c.registry }
