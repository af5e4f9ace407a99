package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driving/guardapi"
)

var guardAddr string

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Guardrail service commands",
	Long:  `Commands for running and managing the guardrail scan service.`,
}

var guardServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the guardrail scan server",
	Long: `Starts the HTTP server exposing the scanner set: prompt injection,
toxicity and secrets detection on input; PII redaction and refusal
detection on output. Scanners load lazily on first use; POST /warmup
forces eager initialisation.`,
	RunE: runGuardServe,
}

var guardWarmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Warm up a running guardrail server",
	Long:  `Calls POST /warmup on the configured guardrail service so the first real scan pays no initialisation cost.`,
	RunE:  runGuardWarmup,
}

func init() {
	guardServeCmd.Flags().StringVar(&guardAddr, "addr", "", "listen address (default from GUARD_ADDR)")
	guardCmd.AddCommand(guardServeCmd)
	guardCmd.AddCommand(guardWarmupCmd)
	rootCmd.AddCommand(guardCmd)
}

func runGuardServe(cmd *cobra.Command, _ []string) error {
	addr := guardAddr
	if addr == "" {
		addr = cfg.GuardAddr
	}

	server := guardapi.NewServer(scanService)
	return server.Run(cmd.Context(), addr)
}

func runGuardWarmup(cmd *cobra.Command, _ []string) error {
	url := strings.TrimRight(cfg.GuardrailsURL, "/") + "/warmup"

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("warmup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("warmup failed: status %d", resp.StatusCode)
	}

	var result struct {
		InputScanners  int `json:"input_scanners"`
		OutputScanners int `json:"output_scanners"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	cmd.Printf("Warmed up %d input and %d output scanners\n", result.InputScanners, result.OutputScanners)
	return nil
}
