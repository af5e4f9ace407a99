package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the document collection",
	Long:  `Performs semantic search over the stored chunks without generating an answer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	results, err := pipelineService.Search(cmd.Context(), args[0], searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range results {
		cmd.Printf("[%d] %s (score: %.3f)\n", i+1, results[i].Payload.Source, results[i].Score)

		text := results[i].Payload.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		cmd.Printf("    %s\n\n", text)
	}
	return nil
}
