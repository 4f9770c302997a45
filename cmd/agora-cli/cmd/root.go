package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agora-cli",
	Short: "Agora CLI tool",
	Long: `Agora CLI is a command-line interface for the Agora coordination layer.

Available commands:
  topics    Discover and inspect the registered pub/sub topics

Use "agora-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
