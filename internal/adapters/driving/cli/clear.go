package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete and recreate the collection",
	Long:  `Removes every stored vector by deleting and recreating the collection. Asks for confirmation unless --yes is given.`,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		cmd.Printf("This deletes all vectors in %q. Continue? [y/N]: ", cfg.Collection)

		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := pipelineService.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	cmd.Printf("Collection %q cleared.\n", cfg.Collection)
	return nil
}
