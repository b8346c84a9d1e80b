package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/limitcalc"
)

func newToolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Agent tool-call interface",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "spec",
		Short: "Print the JSON schema of every tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), limitcalc.ToolSpec())
			return err
		},
	}, &cobra.Command{
		Use:   "call",
		Short: "Read one tool request from stdin and print the response",
		Example: `  echo '{"tool":"limit","params":{"function":"\\frac{\\sin x}{x}","approach":"0"}}' | limitcalc tools call`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dec := json.NewDecoder(cmd.InOrStdin())
			dec.DisallowUnknownFields()
			var req limitcalc.ToolRequest
			if err := dec.Decode(&req); err != nil {
				return fmt.Errorf("invalid tool request: %w", err)
			}
			if dec.More() {
				return errors.New("invalid tool request: trailing data")
			}

			eng, err := a.engine()
			if err != nil {
				return err
			}
			resp := eng.HandleToolCall(cmd.Context(), req)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	})
	return cmd
}
