package scanners

import (
	"strings"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// toxicTerms is a lexicon of abusive, threatening and demeaning language
// grouped by severity weight.
var toxicTerms = map[string]float64{
	"kill yourself": 1.0,
	"kys":           1.0,
	"die":           0.4,
	"hate you":      0.6,
	"i hate":        0.4,
	"stupid":        0.4,
	"idiot":         0.5,
	"moron":         0.5,
	"dumbass":       0.6,
	"worthless":     0.6,
	"pathetic":      0.5,
	"loser":         0.4,
	"shut up":       0.4,
	"garbage human": 0.8,
	"go to hell":    0.6,
	"despise":       0.4,
	"disgusting":    0.4,
}

// Toxicity flags abusive or harmful language using a weighted lexicon.
// The highest matching term weight is the risk score; the prompt is
// invalid when it exceeds the threshold.
type Toxicity struct {
	threshold float64
}

// NewToxicity creates the scanner with the given risk threshold.
func NewToxicity(threshold float64) *Toxicity {
	return &Toxicity{threshold: threshold}
}

// Name returns the scanner identifier.
func (s *Toxicity) Name() string { return "Toxicity" }

// Scan scores the prompt against the lexicon. The prompt is never
// rewritten.
func (s *Toxicity) Scan(prompt string) (string, domain.ScannerResult) {
	lowered := strings.ToLower(prompt)

	var score float64
	for term, weight := range toxicTerms {
		if containsTerm(lowered, term) && weight > score {
			score = weight
		}
	}

	return prompt, domain.ScannerResult{
		Name:      s.Name(),
		IsValid:   score <= s.threshold,
		RiskScore: score,
	}
}

// containsTerm matches a lexicon term on word boundaries so that e.g.
// "die" does not fire inside "diet" or "studied".
func containsTerm(text, term string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}
