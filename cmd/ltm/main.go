// Command ltm runs the agent long-term memory bridge: an embedded
// vector store with conversation memory behind a JSON HTTP service
// and a small ingestion/query CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "ltm",
		Short:         "Agent long-term memory bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newIngestCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newAgentsCmd())

	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
