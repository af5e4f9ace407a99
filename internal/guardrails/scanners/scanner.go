// Package scanners implements the in-process scanner set behind the
// guardrail API: prompt injection, toxicity and secrets detection on
// the input side, PII redaction and refusal detection on the output
// side.
package scanners

import "github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"

// InputScanner inspects a user prompt before it reaches the pipeline.
type InputScanner interface {
	// Name returns the scanner's stable identifier.
	Name() string

	// Scan inspects the prompt and returns the (possibly sanitized)
	// text and a per-scanner verdict.
	Scan(prompt string) (string, domain.ScannerResult)
}

// OutputScanner inspects a generated answer. The originating prompt is
// supplied for context-aware checks.
type OutputScanner interface {
	// Name returns the scanner's stable identifier.
	Name() string

	// Scan inspects the output and returns the (possibly redacted)
	// text and a per-scanner verdict.
	Scan(prompt, output string) (string, domain.ScannerResult)
}
