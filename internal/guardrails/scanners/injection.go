package scanners

import (
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/guardrails/keywords"
)

// PromptInjection detects instruction-override and jailbreak phrasing.
// Risk rises with the number of distinct patterns that fire; the prompt
// is invalid when the risk exceeds the configured threshold.
type PromptInjection struct {
	threshold float64
}

// NewPromptInjection creates the scanner with the given risk threshold.
func NewPromptInjection(threshold float64) *PromptInjection {
	return &PromptInjection{threshold: threshold}
}

// Name returns the scanner identifier.
func (s *PromptInjection) Name() string { return "PromptInjection" }

// Scan checks the prompt against the injection pattern set. The prompt
// is never rewritten.
func (s *PromptInjection) Scan(prompt string) (string, domain.ScannerResult) {
	matches := keywords.MatchInjection(prompt)

	var score float64
	if n := len(matches); n > 0 {
		// One hit lands at 0.6; each additional distinct pattern adds
		// 0.15 up to the 1.0 cap.
		score = 0.6 + 0.15*float64(n-1)
		if score > 1 {
			score = 1
		}
	}

	return prompt, domain.ScannerResult{
		Name:      s.Name(),
		IsValid:   score <= s.threshold,
		RiskScore: score,
	}
}
