package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/concierge"
	"github.com/candidate-concierge/concierge/internal/extractive"
	mcpserver "github.com/candidate-concierge/concierge/internal/mcp"
	"github.com/candidate-concierge/concierge/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing ask_candidate and get_profile_section tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setup(ctx)
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		database, store, err := openInteractions(ctx, a.cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		var index vectordb.VectorStore
		if sem, ok := a.extractive.(*extractive.SemanticProvider); ok {
			index = sem.Store()
		}

		mcpserver.Version = Version
		a.log.Info("MCP server started on stdio",
			zap.String("subject", a.kb.Subject),
			zap.Bool("search_profile", index != nil),
		)

		svc := concierge.New(a.resolver, store, a.log.Named("concierge"))
		return mcpserver.NewServer(svc, index).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
