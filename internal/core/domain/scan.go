package domain

import "time"

// ScannerResult is the per-scanner breakdown entry of a scan.
type ScannerResult struct {
	Name      string  `json:"name"`
	IsValid   bool    `json:"is_valid"`
	RiskScore float64 `json:"risk_score"`
}

// ScanVerdict is the outcome of one guardrail scan call.
// It is produced fresh per scan and immutable once returned.
//
// Invariants: IsValid is true iff every scanner in Scanners is valid;
// RiskScore equals the maximum per-scanner score (0 with no scanners).
type ScanVerdict struct {
	IsValid   bool            `json:"is_valid"`
	Sanitized string          `json:"sanitized"`
	RiskScore float64         `json:"risk_score"`
	Scanners  []ScannerResult `json:"scanners"`
	Latency   time.Duration   `json:"-"`

	// KeywordMatches lists the lexical pre-filter patterns that fired,
	// when the hybrid mode ran before the remote scan.
	KeywordMatches []string `json:"keyword_matches,omitempty"`

	// Err records a transport failure survived by the fail-open policy.
	// A verdict with Err set was not produced by the remote classifier.
	Err string `json:"error,omitempty"`
}

// Aggregate recomputes IsValid and RiskScore from the scanner breakdown.
func (v *ScanVerdict) Aggregate() {
	v.IsValid = true
	v.RiskScore = 0
	for _, s := range v.Scanners {
		if !s.IsValid {
			v.IsValid = false
		}
		if s.RiskScore > v.RiskScore {
			v.RiskScore = s.RiskScore
		}
	}
}

// TriggeredScanners returns the names of scanners that reported invalid.
func (v *ScanVerdict) TriggeredScanners() []string {
	var names []string
	for _, s := range v.Scanners {
		if !s.IsValid {
			names = append(names, s.Name)
		}
	}
	return names
}

// ScanSummary is the condensed per-direction scan metadata attached to
// a QueryResult.
type ScanSummary struct {
	IsValid     bool     `json:"is_valid"`
	RiskScore   float64  `json:"risk_score"`
	LatencyMS   float64  `json:"latency_ms"`
	PIIRedacted bool     `json:"pii_redacted,omitempty"`
	Keywords    []string `json:"keyword_matches,omitempty"`
	Err         string   `json:"error,omitempty"`
}

// GuardrailTrace records what was scanned at each stage of a query.
// OutputScan is nil when the pipeline terminated before generation.
type GuardrailTrace struct {
	InputScan  *ScanSummary `json:"input_scan"`
	OutputScan *ScanSummary `json:"output_scan"`
}

// Summary condenses a verdict for inclusion in a GuardrailTrace.
func (v *ScanVerdict) Summary() *ScanSummary {
	return &ScanSummary{
		IsValid:   v.IsValid,
		RiskScore: v.RiskScore,
		LatencyMS: float64(v.Latency.Microseconds()) / 1000,
		Keywords:  v.KeywordMatches,
		Err:       v.Err,
	}
}
