package cmd

import (
	"fmt"
	"os"

	"github.com/nfrund/agora/cmd/agora-cli/internal/topics"
	"github.com/nfrund/agora/internal/topicmgr"
	"github.com/spf13/cobra"
)

var getOutputFormat string

// topicsGetCmd represents the topics get command
var topicsGetCmd = &cobra.Command{
	Use:   "get <topic-name>",
	Short: "Get detailed information about a specific topic",
	Long: `Get detailed information about a single registered topic: its scope,
owning module, description and an example payload.

Examples:
  agora-cli topics get presence.room.updated
  agora-cli topics get chat.reaction.updated --format json`,
	Args: cobra.ExactArgs(1),
	Run:  topicsGetHandler,
}

func topicsGetHandler(cmd *cobra.Command, args []string) {
	topics.Initialize()

	name := args[0]
	topic, ok := topicmgr.Default().Get(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: Topic '%s' not found\n", name)
		os.Exit(1)
	}

	switch getOutputFormat {
	case "json":
		if err := topics.DisplayTopicJSON(topic); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
			os.Exit(1)
		}
	case "table":
		topics.DisplayTopicDetail(topic)
	default:
		fmt.Fprintf(os.Stderr, "Error: Unsupported output format '%s'. Use 'table' or 'json'\n", getOutputFormat)
		os.Exit(1)
	}
}

func init() {
	topicsCmd.AddCommand(topicsGetCmd)

	topicsGetCmd.Flags().StringVarP(&getOutputFormat, "format", "f", "table", "Output format (table, json)")
}
