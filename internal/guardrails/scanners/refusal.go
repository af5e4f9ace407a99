package scanners

import (
	"regexp"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// refusalPatterns match stock refusal openings. A refusal in a RAG
// answer usually means the model was steered off the provided context.
var refusalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:i'?m sorry,? but )?i (?:cannot|can'?t|won'?t|will not) (?:help|assist|answer|comply|provide|do)`),
	regexp.MustCompile(`(?i)^\s*as an ai(?: language model)?,? i (?:cannot|can'?t|am not able)`),
	regexp.MustCompile(`(?i)\bi must (?:decline|refuse)\b`),
	regexp.MustCompile(`(?i)\bagainst my (?:guidelines|principles|programming)\b`),
	regexp.MustCompile(`(?i)^\s*i'?m (?:unable|not able) to (?:help|assist|comply|provide)`),
}

// NoRefusal flags answers that are refusals rather than grounded
// responses. A hit is full risk so a refusal can trip blocking ceilings.
type NoRefusal struct{}

// NewNoRefusal creates the scanner.
func NewNoRefusal() *NoRefusal {
	return &NoRefusal{}
}

// Name returns the scanner identifier.
func (s *NoRefusal) Name() string { return "NoRefusal" }

// Scan checks the output for refusal phrasing. The output is never
// rewritten.
func (s *NoRefusal) Scan(prompt, output string) (string, domain.ScannerResult) {
	var score float64
	for _, re := range refusalPatterns {
		if re.MatchString(output) {
			score = 1.0
			break
		}
	}

	return output, domain.ScannerResult{
		Name:      s.Name(),
		IsValid:   score == 0,
		RiskScore: score,
	}
}
