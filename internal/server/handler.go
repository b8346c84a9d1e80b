package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/njchilds90/limitcalc"
)

// LimitRequest is the body of POST /v1/limit.
type LimitRequest struct {
	Function   string   `json:"function" validate:"required,max=4096"`
	Approach   string   `json:"approach" validate:"required,max=256"`
	Variable   string   `json:"variable,omitempty" validate:"omitempty,variable,max=32"`
	Strategies []string `json:"strategies,omitempty" validate:"omitempty,dive,oneof=direct infinity algebraic lhopital numeric taylor"`
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// Options configures the handler.
type Options struct {
	Logger       *slog.Logger
	Metrics      http.Handler
	MaxBodyBytes int64
}

type contextKey string

const requestIDKey contextKey = "request_id"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("variable", func(fl validator.FieldLevel) bool {
		return limitcalc.ValidVariable(fl.Field().String())
	})
	return v
}

type handler struct {
	engine  *limitcalc.Engine
	logger  *slog.Logger
	maxBody int64
}

// NewHandler routes the limitcalc HTTP API to eng.
func NewHandler(eng *limitcalc.Engine, opts Options) http.Handler {
	h := &handler{engine: eng, logger: opts.Logger, maxBody: opts.MaxBodyBytes}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	if h.maxBody <= 0 {
		h.maxBody = 1 << 16
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/limit", h.limit)
		r.Post("/tool", h.tool)
		r.Get("/schema", h.schema)
	})
	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": limitcalc.Version})
}

func (h *handler) limit(w http.ResponseWriter, r *http.Request) {
	var req LimitRequest
	if err := h.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	eng := h.engine
	var opts []limitcalc.Option
	if req.Variable != "" {
		opts = append(opts, limitcalc.WithVariable(req.Variable))
	}
	if len(req.Strategies) > 0 {
		ids := make([]limitcalc.StrategyID, len(req.Strategies))
		for i, s := range req.Strategies {
			ids[i] = limitcalc.StrategyID(s)
		}
		opts = append(opts, limitcalc.WithStrategies(ids...))
	}
	if len(opts) > 0 {
		var err error
		if eng, err = eng.With(opts...); err != nil {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	res := eng.Compute(r.Context(), req.Function, req.Approach)
	status := http.StatusOK
	if res.Failed() {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, res)
}

func (h *handler) tool(w http.ResponseWriter, r *http.Request) {
	var req limitcalc.ToolRequest
	if err := h.decode(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	resp := h.engine.HandleToolCall(r.Context(), req)
	status := http.StatusOK
	if resp.Error != "" && resp.Result == nil {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, resp)
}

func (h *handler) schema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(limitcalc.ToolSpec()))
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// requestID tags each request with a UUID, reusing X-Request-ID when the
// client sends one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: status, RequestID: RequestID(r.Context())})
}
