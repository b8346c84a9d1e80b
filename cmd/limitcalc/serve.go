package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/limitcalc"
	"github.com/njchilds90/limitcalc/internal/metrics"
	"github.com/njchilds90/limitcalc/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the JSON API:

  POST /v1/limit   evaluate a limit
  POST /v1/tool    dispatch a tool call
  GET  /v1/schema  tool schema for agent registration
  GET  /health     liveness check
  GET  /metrics    Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := metrics.New()
			eng, err := a.engine(limitcalc.WithHooks(m.Hooks()))
			if err != nil {
				return err
			}
			handler := server.NewHandler(eng, server.Options{
				Logger:       a.logger,
				Metrics:      m.Handler(),
				MaxBodyBytes: a.cfg.Server.MaxBodyBytes,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, a.cfg.Server, handler, a.logger)
		},
	}
	cmd.Flags().String("host", "", "Interface to listen on")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default 8080)")
	return cmd
}
