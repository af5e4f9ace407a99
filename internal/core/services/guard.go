package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
	"github.com/Z3ROX-lab/ai-security-platform/internal/guardrails/keywords"
)

// GuardMode selects the input-scan strategy.
type GuardMode string

const (
	// GuardModeAlways sends every prompt to the remote scan service.
	GuardModeAlways GuardMode = "always"

	// GuardModeHybrid consults the remote service only when the lexical
	// pre-filter matches.
	GuardModeHybrid GuardMode = "hybrid"
)

// GuardConfig tunes the client-side guard policy.
type GuardConfig struct {
	Enabled             bool
	Mode                GuardMode
	BlockOnDetection    bool
	OutputRiskThreshold float64
}

// Guard applies the two-stage guardrail policy around the pipeline.
//
// The remote classifier is the precision gate: when it completes, its
// verdict overrides the lexical pre-filter. Transport failures resolve
// by direction and evidence. An unreachable scanner with keyword
// evidence on the input path fails closed; everything else fails open
// with the error recorded on the verdict.
type Guard struct {
	remote driven.GuardrailService
	audit  driven.AuditStore
	cfg    GuardConfig
	log    *slog.Logger
}

// InputDecision is the outcome of the input stage.
type InputDecision struct {
	Blocked bool
	Reason  string
	Summary *domain.ScanSummary
}

// OutputDecision is the outcome of the output stage. Blocked is
// advisory: Answer is always populated, sanitized when the scan
// completed.
type OutputDecision struct {
	Answer      string
	Blocked     bool
	Reason      string
	PIIRedacted bool
	Summary     *domain.ScanSummary
}

// NewGuard creates the guard policy. The audit store is optional.
func NewGuard(remote driven.GuardrailService, audit driven.AuditStore, cfg GuardConfig, log *slog.Logger) *Guard {
	if log == nil {
		log = slog.Default()
	}
	return &Guard{
		remote: remote,
		audit:  audit,
		cfg:    cfg,
		log:    log,
	}
}

// Enabled reports whether scanning is active. Safe on a nil receiver so
// callers can hold an unconfigured guard.
func (g *Guard) Enabled() bool {
	return g != nil && g.cfg.Enabled && g.remote != nil
}

// Healthy probes the remote scan service.
func (g *Guard) Healthy(ctx context.Context) bool {
	if !g.Enabled() {
		return false
	}
	return g.remote.Healthy(ctx)
}

// CheckInput runs the input stage over the user prompt. A nil decision
// means scanning is disabled.
func (g *Guard) CheckInput(ctx context.Context, prompt string) *InputDecision {
	if !g.Enabled() {
		return nil
	}

	start := time.Now()

	var matches []string
	if g.cfg.Mode == GuardModeHybrid {
		matches = keywords.MatchInjection(prompt)
		if len(matches) == 0 {
			// Nothing suspicious; skip the remote round trip entirely.
			summary := &domain.ScanSummary{
				IsValid:   true,
				RiskScore: 0,
				LatencyMS: msSince(start),
			}
			g.record(ctx, "input", summary, false, nil)
			return &InputDecision{Summary: summary}
		}
		g.log.Debug("injection keywords matched, escalating to remote scan",
			"patterns", len(matches))
	}

	verdict, err := g.remote.ScanInput(ctx, prompt)
	if err != nil {
		if len(matches) > 0 {
			// Keyword evidence with no classifier available: block.
			summary := &domain.ScanSummary{
				IsValid:   false,
				RiskScore: 1,
				LatencyMS: msSince(start),
				Keywords:  matches,
				Err:       err.Error(),
			}
			g.log.Warn("input scan unreachable with keyword evidence, failing closed", "error", err)
			g.record(ctx, "input", summary, true, matches)
			return &InputDecision{
				Blocked: true,
				Reason:  "security scan unavailable and the prompt matched suspicious patterns",
				Summary: summary,
			}
		}

		// No local evidence: let the request through, keep the error.
		summary := &domain.ScanSummary{
			IsValid:   true,
			RiskScore: 0,
			LatencyMS: msSince(start),
			Err:       err.Error(),
		}
		g.log.Warn("input scan unreachable, failing open", "error", err)
		g.record(ctx, "input", summary, false, nil)
		return &InputDecision{Summary: summary}
	}

	verdict.KeywordMatches = matches
	verdict.Latency = time.Since(start)
	summary := verdict.Summary()

	if !verdict.IsValid && g.cfg.BlockOnDetection {
		triggered := verdict.TriggeredScanners()
		g.log.Info("input blocked",
			"scanners", triggered,
			"risk_score", verdict.RiskScore)
		g.record(ctx, "input", summary, true, triggered)
		return &InputDecision{
			Blocked: true,
			Reason:  fmt.Sprintf("input failed security scan: %s", strings.Join(triggered, ", ")),
			Summary: summary,
		}
	}

	if verdict.IsValid && len(matches) > 0 {
		// The classifier overrides the lexical pre-filter.
		g.log.Warn("keywords matched but classifier passed the prompt",
			"patterns", matches,
			"risk_score", verdict.RiskScore)
	}

	g.record(ctx, "input", summary, false, verdict.TriggeredScanners())
	return &InputDecision{Summary: summary}
}

// CheckOutput runs the output stage over a generated answer. A nil
// decision means scanning is disabled and the raw answer stands.
func (g *Guard) CheckOutput(ctx context.Context, prompt, answer string) *OutputDecision {
	if !g.Enabled() {
		return nil
	}

	start := time.Now()

	verdict, err := g.remote.ScanOutput(ctx, prompt, answer)
	if err != nil {
		// Output scans always fail open: the unredacted answer stands.
		summary := &domain.ScanSummary{
			IsValid:   true,
			RiskScore: 0,
			LatencyMS: msSince(start),
			Err:       err.Error(),
		}
		g.log.Warn("output scan unreachable, failing open", "error", err)
		g.record(ctx, "output", summary, false, nil)
		return &OutputDecision{Answer: answer, Summary: summary}
	}

	verdict.Latency = time.Since(start)
	summary := verdict.Summary()
	summary.PIIRedacted = verdict.Sanitized != answer

	decision := &OutputDecision{
		Answer:      verdict.Sanitized,
		PIIRedacted: summary.PIIRedacted,
		Summary:     summary,
	}

	// Output blocking is advisory and reserved for extreme scores; the
	// sanitized answer is still delivered.
	if !verdict.IsValid && verdict.RiskScore > g.cfg.OutputRiskThreshold {
		decision.Blocked = true
		decision.Reason = fmt.Sprintf("output failed security scan: %s",
			strings.Join(verdict.TriggeredScanners(), ", "))
		g.log.Info("output flagged as blocking",
			"scanners", verdict.TriggeredScanners(),
			"risk_score", verdict.RiskScore)
	}

	g.record(ctx, "output", summary, decision.Blocked, verdict.TriggeredScanners())
	return decision
}

// record appends to the audit trail. Audit failures are logged, never
// propagated.
func (g *Guard) record(ctx context.Context, direction string, s *domain.ScanSummary, blocked bool, scanners []string) {
	if g.audit == nil {
		return
	}

	ev := driven.ScanEvent{
		Direction: direction,
		Valid:     s.IsValid,
		Blocked:   blocked,
		RiskScore: s.RiskScore,
		Scanners:  scanners,
		Failure:   s.Err,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.audit.RecordScan(ctx, ev); err != nil {
		g.log.Warn("audit write failed", "error", err)
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
