package scanners

import (
	"regexp"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// piiPatterns match personally identifiable information in generated
// output. Each hit is replaced by its redaction marker.
var piiPatterns = []struct {
	marker string
	re     *regexp.Regexp
}{
	{"[REDACTED_EMAIL]", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"[REDACTED_SSN]", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"[REDACTED_CARD]", regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`)},
	{"[REDACTED_PHONE]", regexp.MustCompile(`\b(?:\+?1[ .-]?)?\(?\d{3}\)?[ .-]?\d{3}[ .-]?\d{4}\b`)},
	{"[REDACTED_IP]", regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
}

// Sensitive redacts PII from generated answers. Detection marks the
// output invalid with moderate risk; the redacted text is still usable,
// so the score stays below typical blocking ceilings.
type Sensitive struct{}

// NewSensitive creates the scanner.
func NewSensitive() *Sensitive {
	return &Sensitive{}
}

// Name returns the scanner identifier.
func (s *Sensitive) Name() string { return "Sensitive" }

// Scan replaces PII with redaction markers. Phone and card patterns
// overlap; earlier patterns take precedence through ordering.
func (s *Sensitive) Scan(prompt, output string) (string, domain.ScannerResult) {
	sanitized := output
	hits := 0
	for _, p := range piiPatterns {
		count := len(p.re.FindAllStringIndex(sanitized, -1))
		if count == 0 {
			continue
		}
		hits += count
		sanitized = p.re.ReplaceAllString(sanitized, p.marker)
	}

	var score float64
	if hits > 0 {
		score = 0.5 + 0.1*float64(hits-1)
		if score > 0.8 {
			score = 0.8
		}
	}

	return sanitized, domain.ScannerResult{
		Name:      s.Name(),
		IsValid:   hits == 0,
		RiskScore: score,
	}
}
