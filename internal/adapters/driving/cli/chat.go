package cli

import (
	"github.com/spf13/cobra"

	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driving/tui"
)

var chatTopK int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Opens a terminal chat over the guarded pipeline. Each message runs a full query with retrieval and guardrails.`,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "number of chunks to retrieve per question (default from config)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	return tui.Run(pipelineService, chatTopK)
}
