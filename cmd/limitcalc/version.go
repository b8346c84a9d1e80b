package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/limitcalc"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of limitcalc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "limitcalc version %s\n", limitcalc.Version)
		},
	}
}
