package driving

import (
	"context"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// FullScanResult is the combined verdict of a two-stage scan.
// The input scan short-circuits: OutputScan is nil when the input
// stage already failed.
type FullScanResult struct {
	Allowed    bool                `json:"allowed"`
	Stage      string              `json:"stage"`
	InputScan  *domain.ScanVerdict `json:"input_scan"`
	OutputScan *domain.ScanVerdict `json:"output_scan"`
}

// ScannerInfo describes one configured scanner for capability listing.
type ScannerInfo struct {
	Name        string  `json:"name"`
	Enabled     bool    `json:"enabled"`
	Threshold   float64 `json:"threshold,omitempty"`
	Description string  `json:"description"`
}

// GuardService runs the in-process scanner set behind the exposed
// guardrail API.
type GuardService interface {
	// ScanInput runs all enabled input scanners over the prompt.
	ScanInput(ctx context.Context, prompt string) (*domain.ScanVerdict, error)

	// ScanOutput runs all enabled output scanners over the answer.
	ScanOutput(ctx context.Context, prompt, output string) (*domain.ScanVerdict, error)

	// ScanFull runs the input scan and, if it passes, the output scan.
	ScanFull(ctx context.Context, prompt, output string) (*FullScanResult, error)

	// Warmup forces eager scanner initialisation and returns the number
	// of input and output scanners made ready.
	Warmup(ctx context.Context) (inputs, outputs int, err error)

	// Scanners lists the configured scanner capabilities and thresholds.
	Scanners() (inputs, outputs []ScannerInfo)

	// Loaded reports how many scanners are currently ready, without
	// triggering initialisation.
	Loaded() (inputs, outputs int)
}
