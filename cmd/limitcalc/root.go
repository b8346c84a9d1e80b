package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/limitcalc"
	"github.com/njchilds90/limitcalc/internal/config"
	"github.com/njchilds90/limitcalc/internal/logging"
)

// flagKeys maps command-line flags onto configuration keys. Only flags
// present on the running command are bound.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"var":        "engine.variable",
	"strategies": "engine.strategies",
	"output":     "output.format",
	"host":       "server.host",
	"port":       "server.port",
}

// app carries what every subcommand needs once flags and config are read.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "limitcalc",
		Short: "Evaluate limits written in LaTeX",
		Long: `limitcalc evaluates single-variable limits such as \lim_{x \to 0} \frac{\sin x}{x}
and explains each step. It runs as a one-shot CLI, an HTTP API or an MCP server.

Configuration is read from --config, then LIMITCALC_* environment variables,
then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "YAML configuration file")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "", "Log format: text or json")

	root.AddCommand(
		newEvalCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newToolsCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	v := config.New()
	path, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(v, path); err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Log.Format == "json" {
		a.logger = logging.NewJSON(cmd.ErrOrStderr(), level)
	} else {
		a.logger = logging.New(level)
	}
	return nil
}

// engine builds the configured engine. Extra options (such as metrics
// hooks) are applied last.
func (a *app) engine(extra ...limitcalc.Option) (*limitcalc.Engine, error) {
	ids, err := limitcalc.ParseStrategies(strings.Join(a.cfg.Engine.Strategies, ","))
	if err != nil {
		return nil, err
	}
	opts := []limitcalc.Option{
		limitcalc.WithVariable(a.cfg.Engine.Variable),
		limitcalc.WithStrategies(ids...),
		limitcalc.WithLogger(a.logger),
	}
	return limitcalc.New(append(opts, extra...)...)
}
