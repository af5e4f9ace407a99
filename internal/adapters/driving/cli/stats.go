package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := pipelineService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Collection:  %s\n", stats.Collection)
	cmd.Printf("Documents:   %d\n", stats.DocumentCount)
	cmd.Printf("Collections: %s\n", strings.Join(stats.AllCollections, ", "))
	cmd.Printf("Guardrails:  %v\n", guardPolicy.Enabled())
	return nil
}
