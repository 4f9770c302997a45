package cmd

import (
	"github.com/spf13/cobra"
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage and explore Agora pub/sub topics",
	Long: `The topics command provides tools for discovering and inspecting the
topics used for event-driven communication between the coordination
services and the fan-out layer.

Available subcommands:
  list  List all registered topics with optional filtering
  get   Get detailed information about a specific topic

Examples:
  # List all topics
  agora-cli topics list

  # List topics for a specific module
  agora-cli topics list --module=chat

  # Get detailed information about a topic
  agora-cli topics get chat.reaction.updated

Use "agora-cli topics [command] --help" for more information about a specific command.`,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
