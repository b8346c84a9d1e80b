// Package mcpserver exposes the limit engine as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/njchilds90/limitcalc"
	"github.com/njchilds90/limitcalc/symbolic"
)

// LimitResponse is the structured result of evaluate_limit.
type LimitResponse struct {
	Determined bool   `json:"determined" jsonschema_description:"Whether a strategy produced a value"`
	Value      string `json:"value,omitempty" jsonschema_description:"The limit formatted as LaTeX"`
	Strategy   string `json:"strategy,omitempty" jsonschema_description:"The strategy that determined the value"`
	LaTeX      string `json:"latex" jsonschema_description:"The full limit statement"`
	Steps      string `json:"steps" jsonschema_description:"Markdown derivation"`
	Error      string `json:"error,omitempty"`
}

// ExpressionResponse is the structured result of translate_latex and derivative.
type ExpressionResponse struct {
	Expression string                 `json:"expression" jsonschema_description:"Plain expression syntax"`
	LaTeX      string                 `json:"latex"`
	Tree       map[string]interface{} `json:"tree,omitempty" jsonschema_description:"Expression tree"`
}

// Server wraps an Engine and serves it over MCP.
type Server struct {
	engine    *limitcalc.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer registers the limitcalc tools on a fresh MCP server.
func NewServer(engine *limitcalc.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("limitcalc", limitcalc.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on stdin and stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying server, e.g. for an SSE transport.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("evaluate_limit",
		mcp.WithDescription("Evaluate the limit of a LaTeX function as the variable approaches a point, with step-by-step working."),
		mcp.WithString("function", mcp.Required(), mcp.Description(`LaTeX function, e.g. \frac{\sin x}{x}`)),
		mcp.WithString("approach", mcp.Required(), mcp.Description(`Approach value, e.g. 0, \frac{1}{2}, \pi or \infty`)),
		mcp.WithString("variable", mcp.Description("Variable name (default x)")),
		mcp.WithString("strategies", mcp.Description("Comma-separated strategy order, e.g. direct,lhopital")),
		mcp.WithOutputSchema[LimitResponse](),
	), mcp.NewStructuredToolHandler(s.handleLimit))

	s.mcpServer.AddTool(mcp.NewTool("translate_latex",
		mcp.WithDescription("Convert LaTeX into the plain expression syntax used by the engine."),
		mcp.WithString("latex", mcp.Required(), mcp.Description("LaTeX input")),
		mcp.WithOutputSchema[ExpressionResponse](),
	), mcp.NewStructuredToolHandler(s.handleTranslate))

	s.mcpServer.AddTool(mcp.NewTool("derivative",
		mcp.WithDescription("Differentiate a plain expression symbolically."),
		mcp.WithString("expr", mcp.Required(), mcp.Description("Expression, e.g. sin(x)*x^2")),
		mcp.WithString("var", mcp.Description("Variable (default x)")),
		mcp.WithNumber("order", mcp.Description("Order of the derivative (default 1)")),
		mcp.WithOutputSchema[ExpressionResponse](),
	), mcp.NewStructuredToolHandler(s.handleDerivative))
}

func (s *Server) handleLimit(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (LimitResponse, error) {
	fn, _ := args["function"].(string)
	approach, _ := args["approach"].(string)
	if fn == "" || approach == "" {
		return LimitResponse{}, fmt.Errorf("function and approach are required")
	}

	eng := s.engine
	var opts []limitcalc.Option
	if v, _ := args["variable"].(string); v != "" {
		opts = append(opts, limitcalc.WithVariable(v))
	}
	if csv, _ := args["strategies"].(string); csv != "" {
		ids, err := limitcalc.ParseStrategies(csv)
		if err != nil {
			return LimitResponse{}, err
		}
		opts = append(opts, limitcalc.WithStrategies(ids...))
	}
	if len(opts) > 0 {
		var err error
		if eng, err = eng.With(opts...); err != nil {
			return LimitResponse{}, err
		}
	}

	res := eng.Compute(ctx, fn, approach)
	if res.Failed() {
		s.logger.Warn("MCP evaluate_limit failed", "function", fn, "error", res.Error)
	}
	out := LimitResponse{
		Determined: res.Determined,
		Strategy:   string(res.Strategy),
		LaTeX:      res.LaTeX,
		Steps:      res.Trace.Markdown(),
		Error:      res.Error,
	}
	if res.Determined {
		out.Value = res.Formatted
	}
	return out, nil
}

func (s *Server) handleTranslate(_ context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ExpressionResponse, error) {
	latex, _ := args["latex"].(string)
	expr := limitcalc.Translate(latex)
	parsed, err := s.engine.Parse(expr)
	if err != nil {
		return ExpressionResponse{}, fmt.Errorf("translate failed: %w", err)
	}
	return ExpressionResponse{Expression: string(expr), LaTeX: parsed.LaTeX(), Tree: symbolic.JSONTree(parsed)}, nil
}

func (s *Server) handleDerivative(_ context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (ExpressionResponse, error) {
	expr, _ := args["expr"].(string)
	v, _ := args["var"].(string)
	if v == "" {
		v = s.engine.Variable()
	}
	order := 1
	if n, ok := args["order"].(float64); ok && n >= 1 {
		order = int(n)
	}
	d, err := symbolic.DerivativeN(expr, v, order)
	if err != nil {
		return ExpressionResponse{}, fmt.Errorf("derivative failed: %w", err)
	}
	parsed, err := symbolic.Parse(d, v)
	if err != nil {
		return ExpressionResponse{}, err
	}
	return ExpressionResponse{Expression: d, LaTeX: parsed.LaTeX(), Tree: symbolic.JSONTree(parsed)}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("limitcalc://tools", "Tool schema",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "limitcalc://tools",
				MIMEType: "application/json",
				Text:     limitcalc.ToolSpec(),
			},
		}, nil
	})
}

// SSEHandler serves the MCP server over Server-Sent Events at /sse, with
// client messages posted to /message.
func (s *Server) SSEHandler(baseURL string) http.Handler {
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	r := chi.NewRouter()
	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())
	return r
}
