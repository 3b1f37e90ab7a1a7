package main

import (
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "legalctl",
		Short:         "Offline tools for the legal document pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		composeCmd(),
		datesCmd(),
	)

	return root
}
