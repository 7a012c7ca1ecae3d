package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meneportal/ltm-bridge/config"
)

func newQueryCmd() *cobra.Command {
	var agent string

	cmd := &cobra.Command{
		Use:   "query <text>...",
		Short: "Run an enhanced agent query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			b, err := buildBridge(cfg)
			if err != nil {
				return err
			}

			result := b.ProcessAgentQuery(cmd.Context(), agent, strings.Join(args, " "), nil)
			if result.Error {
				color.Red("%s", result.Response)
				return nil
			}

			color.Cyan("[%s]", result.Agent)
			cmd.Println(result.Response)
			cmd.Printf("(%d document sources, %d prior conversations)\n",
				result.RAGSources, result.MemoryContext)
			if result.PersistError != "" {
				color.Yellow("turn not persisted: %s", result.PersistError)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "mene", "agent to query")
	return cmd
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the agent roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			for _, p := range buildRoster(cfg).List() {
				color.Cyan("%s", p.Name)
				cmd.Printf("  role:        %s\n", p.Role)
				cmd.Printf("  personality: %s\n", p.Personality)
				cmd.Printf("  specialties: %s\n", strings.Join(p.Specialties, ", "))
			}
			return nil
		},
	}
}
