package driven

import (
	"context"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// GuardrailService is the remote ML scan service consumed by the
// query-time guard layer. Transport failures are returned as errors;
// the caller decides fail-open versus fail-closed.
type GuardrailService interface {
	// ScanInput scans a user prompt for injection, toxicity and secrets.
	ScanInput(ctx context.Context, prompt string) (*domain.ScanVerdict, error)

	// ScanOutput scans a generated answer for PII and refusals.
	// The originating prompt is supplied for context-aware scanners.
	ScanOutput(ctx context.Context, prompt, output string) (*domain.ScanVerdict, error)

	// Healthy reports whether the scan service is reachable.
	Healthy(ctx context.Context) bool
}
