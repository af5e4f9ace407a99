package cli

import (
	"github.com/spf13/cobra"

	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RAG API server",
	Long: `Starts the HTTP server exposing ingest, search, query, stats and
clear endpoints. The server shuts down gracefully on interrupt.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from RAG_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.RAGAddr
	}

	server := httpapi.NewServer(pipelineService, ingestService, guardPolicy, httpapi.ConfigInfo{
		Collection:     cfg.Collection,
		EmbeddingModel: cfg.EmbeddingModel,
		LLMModel:       cfg.LLMModel,
	})
	return server.Run(cmd.Context(), addr)
}
