package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nfrund/agora/internal/topicmgr"
)

// TopicDisplay represents a topic for display purposes
type TopicDisplay struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Module      string `json:"module"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

func toDisplay(topic topicmgr.Topic) TopicDisplay {
	return TopicDisplay{
		Name:        topic.Name(),
		Scope:       string(topic.Scope()),
		Module:      topic.Module(),
		Description: topic.Description(),
		Example:     topic.Example(),
	}
}

// DisplayTopicsTable displays topics in a formatted table
func DisplayTopicsTable(topics []topicmgr.Topic) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tSCOPE\tMODULE\tDESCRIPTION")
	fmt.Fprintln(w, "----\t-----\t------\t-----------")

	for _, topic := range topics {
		module := topic.Module()
		if module == "" {
			module = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			topic.Name(),
			topic.Scope(),
			module,
			truncateString(topic.Description(), 60))
	}
}

// DisplayTopicsJSON displays topics in JSON format
func DisplayTopicsJSON(topics []topicmgr.Topic) error {
	displays := make([]TopicDisplay, len(topics))
	for i, topic := range topics {
		displays[i] = toDisplay(topic)
	}

	output := struct {
		Topics []TopicDisplay `json:"topics"`
		Count  int            `json:"count"`
	}{
		Topics: displays,
		Count:  len(displays),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// DisplayTopicDetail prints a single topic with all its fields.
func DisplayTopicDetail(topic topicmgr.Topic) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Name:\t%s\n", topic.Name())
	fmt.Fprintf(w, "Scope:\t%s\n", topic.Scope())
	if topic.Module() != "" {
		fmt.Fprintf(w, "Module:\t%s\n", topic.Module())
	}
	fmt.Fprintf(w, "Description:\t%s\n", topic.Description())
	if topic.Example() != "" {
		fmt.Fprintf(w, "Example:\t%s\n", topic.Example())
	}
}

// DisplayTopicJSON prints a single topic as indented JSON.
func DisplayTopicJSON(topic topicmgr.Topic) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toDisplay(topic))
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
