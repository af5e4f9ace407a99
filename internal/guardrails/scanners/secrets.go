package scanners

import (
	"regexp"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// secretPatterns match credential material that must never travel
// through a prompt.
var secretPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"aws-access-key", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"github-token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"slack-token", regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`)},
	{"private-key", regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`)},
	{"bearer-token", regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/-]{20,}=*`)},
	{"generic-api-key", regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret[_-]?key|access[_-]?token|password)\b\s*[:=]\s*\S{8,}`)},
	{"jwt", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},
}

// Secrets detects API keys, tokens and passwords embedded in prompts.
// Any hit is a hard invalid at full risk; there is no threshold to tune.
type Secrets struct{}

// NewSecrets creates the scanner.
func NewSecrets() *Secrets {
	return &Secrets{}
}

// Name returns the scanner identifier.
func (s *Secrets) Name() string { return "Secrets" }

// Scan checks the prompt for credential material. The prompt is never
// rewritten; a leaked secret should fail the request, not be masked.
func (s *Secrets) Scan(prompt string) (string, domain.ScannerResult) {
	var score float64
	for _, p := range secretPatterns {
		if p.re.MatchString(prompt) {
			score = 1.0
			break
		}
	}

	return prompt, domain.ScannerResult{
		Name:      s.Name(),
		IsValid:   score == 0,
		RiskScore: score,
	}
}
