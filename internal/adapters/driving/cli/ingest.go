package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest text files into the vector store",
	Long: `Reads each file, splits it into overlapping chunks, embeds them and
stores the vectors. Re-ingesting the same file overwrites its chunks
rather than duplicating them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		source := filepath.Base(path)
		metadata := map[string]any{"path": path}

		receipt, err := ingestService.Ingest(cmd.Context(), string(data), source, metadata)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}

		cmd.Printf("Ingested %s: %d chunks (%s)\n", receipt.Source, receipt.ChunkCount, receipt.Status)
	}
	return nil
}
