package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the document collection",
	Long: `Runs the full guarded pipeline: scans the question, retrieves the
most relevant chunks, generates an answer from them and scans the
answer before printing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	result, err := pipelineService.Query(cmd.Context(), args[0], queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Blocked && result.Answer == nil {
		reason := "request blocked"
		if result.BlockedReason != nil {
			reason = *result.BlockedReason
		}
		cmd.Printf("Blocked: %s\n", reason)
		return nil
	}

	if result.Answer != nil {
		cmd.Println(*result.Answer)
	}

	if result.Blocked && result.BlockedReason != nil {
		cmd.Printf("\nFlagged: %s\n", *result.BlockedReason)
	}

	if len(result.Sources) > 0 {
		cmd.Println("\nSources:")
		for _, src := range result.Sources {
			cmd.Printf("  - %s (score: %.3f)\n", src.Source, src.Score)
		}
	}
	return nil
}
