package cmd

import (
	"fmt"
	"os"

	"github.com/nfrund/agora/cmd/agora-cli/internal/topics"
	"github.com/nfrund/agora/internal/topicmgr"
	"github.com/spf13/cobra"
)

var (
	listOutputFormat string
	listModuleFilter string
)

// topicsListCmd represents the topics list command
var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered topics",
	Long: `List all topics currently registered in the coordination layer.

Examples:
  agora-cli topics list                  # List all topics in table format
  agora-cli topics list --format json    # List all topics in JSON format
  agora-cli topics list --module chat    # Show only topics from the chat module`,
	Run: topicsListHandler,
}

func topicsListHandler(cmd *cobra.Command, args []string) {
	topics.Initialize()

	manager := topicmgr.Default()
	var topicList []topicmgr.Topic

	if listModuleFilter != "" {
		topicList = manager.ListByModule(listModuleFilter)
		if listOutputFormat == "table" {
			fmt.Printf("Topics for module '%s':\n\n", listModuleFilter)
		}
	} else {
		topicList = manager.List()
	}

	if len(topicList) == 0 {
		message := "No topics found"
		if listModuleFilter != "" {
			message += fmt.Sprintf(" matching: module '%s'", listModuleFilter)
		}
		fmt.Println(message)
		return
	}

	switch listOutputFormat {
	case "json":
		if err := topics.DisplayTopicsJSON(topicList); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
			os.Exit(1)
		}
	case "table":
		topics.DisplayTopicsTable(topicList)
	default:
		fmt.Fprintf(os.Stderr, "Error: Unsupported output format '%s'. Use 'table' or 'json'\n", listOutputFormat)
		os.Exit(1)
	}
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)

	topicsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
	topicsListCmd.Flags().StringVarP(&listModuleFilter, "module", "m", "", "Filter topics by module name")
}
