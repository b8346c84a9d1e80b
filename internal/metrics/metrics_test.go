package metrics

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/limitcalc"
)

func TestHooksRecordCascade(t *testing.T) {
	c := New()
	eng, err := limitcalc.New(limitcalc.WithHooks(c.Hooks()))
	require.NoError(t, err)

	res := eng.Compute(context.Background(), `\frac{x^2-4}{x-2}`, "2")
	require.True(t, res.Determined)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() != nil {
				counts[f.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, counts["limitcalc_strategy_attempts_total"])
	assert.Equal(t, 1.0, counts["limitcalc_evaluations_total"])
}

func TestHandler(t *testing.T) {
	c := New()
	eng, err := limitcalc.New(limitcalc.WithHooks(c.Hooks()))
	require.NoError(t, err)
	eng.Compute(context.Background(), `\frac{1}{x}`, "0")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `limitcalc_evaluations_total{strategy="none"} 1`)
	assert.Contains(t, rec.Body.String(), `limitcalc_strategy_attempts_total{result="declined",strategy="lhopital"} 1`)
}
