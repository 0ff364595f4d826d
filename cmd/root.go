// Package cmd implements the zonda-intel command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zonda-intel",
	Short: "Zonda R enterprise intelligence assistant",
	Long: `zonda-intel answers questions about the Pagani Zonda R from a fixed,
role-gated enterprise knowledge base. Every answer is grounded in the
indexed documents and carries source attribution and a confidence label.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
