package main

import (
	"fmt"
	"strings"

	"legal-assistant/internal/core/dates"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func datesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dates <text>",
		Short: "Print the labelled dates found in text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found := dates.Extract(strings.Join(args, " "))
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("no dates found"))
				return nil
			}
			for _, d := range found {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d.Date, d.Description)
			}
			return nil
		},
	}
}
