package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/limitcalc"
	"github.com/njchilds90/limitcalc/internal/metrics"
	"github.com/njchilds90/limitcalc/internal/server"
)

func newTestHandler(t *testing.T) (http.Handler, *metrics.Collectors) {
	t.Helper()
	m := metrics.New()
	eng, err := limitcalc.New(limitcalc.WithHooks(m.Hooks()))
	require.NoError(t, err)
	return server.NewHandler(eng, server.Options{Metrics: m.Handler(), MaxBodyBytes: 1024}), m
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLimit(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodPost, "/v1/limit", `{"function":"\\frac{x^2-4}{x-2}","approach":"2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `\frac{4}{1}`, body["value"])
	assert.Equal(t, true, body["determined"])
	assert.Equal(t, "algebraic", body["strategy"])
}

func TestLimit_VariableAndStrategies(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodPost, "/v1/limit",
		`{"function":"\\frac{\\sin t}{t}","approach":"0","variable":"t","strategies":["numeric"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Value    string `json:"value"`
		Strategy string `json:"strategy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "1", res.Value)
	assert.Equal(t, "numeric", res.Strategy)
}

func TestLimit_UnderscoreVariable(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodPost, "/v1/limit", `{"function":"y_1^2","approach":"3","variable":"y_1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, `\frac{9}{1}`, res.Value)
}

func TestLimit_BadRequests(t *testing.T) {
	h, _ := newTestHandler(t)
	cases := map[string]string{
		"not json":          `{`,
		"missing approach":  `{"function":"x"}`,
		"unknown field":     `{"function":"x","approach":"1","extra":1}`,
		"bad strategy":      `{"function":"x","approach":"1","strategies":["guess"]}`,
		"reserved variable": `{"function":"x","approach":"1","variable":"sin"}`,
		"too large":         `{"function":"` + strings.Repeat("x", 2048) + `","approach":"1"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/v1/limit", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var er server.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
			assert.Equal(t, http.StatusBadRequest, er.Code)
			assert.NotEmpty(t, er.Error)
			assert.Equal(t, rec.Header().Get("X-Request-ID"), er.RequestID)
		})
	}
}

func TestLimit_MalformedFunction(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodPost, "/v1/limit", `{"function":"x +* 2","approach":"1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var res limitcalc.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, `\text{Error: Could not compute limit}`, res.LaTeX)
}

func TestTool(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodPost, "/v1/tool", `{"tool":"format","params":{"value":0.25}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp limitcalc.ToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, `\frac{1}{4}`, resp.String)

	rec = do(h, http.MethodPost, "/v1/tool", `{"tool":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchemaAndHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodGet, "/v1/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, limitcalc.ToolSpec(), rec.Body.String())

	rec = do(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+limitcalc.Version+`"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	do(h, http.MethodPost, "/v1/limit", `{"function":"x^2","approach":"3"}`)

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `limitcalc_evaluations_total{strategy="direct"} 1`)
}

func TestRequestID(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(h, http.MethodGet, "/health", "")
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get("X-Request-ID"))

	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_Context(t *testing.T) {
	assert.Empty(t, server.RequestID(context.Background()))
}
