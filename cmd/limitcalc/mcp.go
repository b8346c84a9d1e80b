package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/limitcalc/internal/mcpserver"
	"github.com/njchilds90/limitcalc/internal/server"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes evaluate_limit, translate_latex and derivative as MCP tools.

Supported transports:
- stdio (default): JSON-RPC over standard input/output.
- sse: Server-Sent Events over HTTP on the configured server address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.engine()
			if err != nil {
				return err
			}
			srv := mcpserver.NewServer(eng, a.logger)

			transport, _ := cmd.Flags().GetString("transport")
			switch transport {
			case "stdio":
				a.logger.Info("starting MCP server", "transport", transport)
				return srv.ServeStdio()
			case "sse":
				addr := a.cfg.Server.Addr()
				baseURL := fmt.Sprintf("http://localhost:%d", a.cfg.Server.Port)
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				a.logger.Info("starting MCP server", "transport", transport, "addr", addr)
				return server.Run(ctx, a.cfg.Server, srv.SSEHandler(baseURL), a.logger)
			}
			return fmt.Errorf("unknown transport %q: supported are stdio and sse", transport)
		},
	}
	cmd.Flags().String("transport", "stdio", "Transport protocol: stdio or sse")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on for sse (default 8080)")
	return cmd
}
