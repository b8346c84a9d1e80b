package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/limitcalc/internal/render"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [function] [approach]",
		Short: "Evaluate one limit and print the derivation",
		Example: `  limitcalc eval '\frac{\sin x}{x}' 0
  limitcalc eval -f '\frac{x^2-4}{x-2}' -a 2 -o markdown
  limitcalc eval -f '\frac{2x^2+1}{x^2+3}' -a '\infty' --strategies infinity`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, _ := cmd.Flags().GetString("function")
			approach, _ := cmd.Flags().GetString("approach")
			if len(args) > 0 {
				fn = args[0]
			}
			if len(args) > 1 {
				approach = args[1]
			}
			if fn == "" || approach == "" {
				return errors.New("both a function and an approach value are required")
			}

			format, err := render.ParseFormat(a.cfg.Output.Format)
			if err != nil {
				return err
			}
			noColor, _ := cmd.Flags().GetBool("no-color")
			out := cmd.OutOrStdout()
			r, err := render.New(format, a.cfg.Output.Color && !noColor && render.IsTerminal(out))
			if err != nil {
				return err
			}

			eng, err := a.engine()
			if err != nil {
				return err
			}
			res := eng.Compute(cmd.Context(), fn, approach)
			a.logger.Debug("evaluated", "function", fn, "approach", approach,
				"determined", res.Determined, "strategy", res.Strategy)
			if err := r.Write(out, res); err != nil {
				return err
			}
			if res.Failed() {
				return fmt.Errorf("could not compute limit: %s", res.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringP("function", "f", "", "Function in LaTeX")
	cmd.Flags().StringP("approach", "a", "", `Approach value in LaTeX, e.g. 0, \frac{1}{2}, \pi or \infty`)
	cmd.Flags().String("var", "", "Variable name (default x)")
	cmd.Flags().StringSlice("strategies", nil, "Strategy order, e.g. direct,lhopital,numeric")
	cmd.Flags().StringP("output", "o", "", "Output format: text, markdown, json or yaml")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	return cmd
}
