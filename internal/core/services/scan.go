package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
	"github.com/Z3ROX-lab/ai-security-platform/internal/guardrails/scanners"
)

// Ensure ScanService implements the interface.
var _ driving.GuardService = (*ScanService)(nil)

// ScanService runs the in-process scanner sets behind the guardrail
// API. Verdicts aggregate as all-valid / max-risk across the set.
type ScanService struct {
	registry *scanners.Registry
	log      *slog.Logger
}

// NewScanService creates the scan service.
func NewScanService(registry *scanners.Registry, log *slog.Logger) *ScanService {
	if log == nil {
		log = slog.Default()
	}
	return &ScanService{
		registry: registry,
		log:      log,
	}
}

// ScanInput runs all enabled input scanners over the prompt. Scanners
// run in order; sanitization chains through the set.
func (s *ScanService) ScanInput(ctx context.Context, prompt string) (*domain.ScanVerdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	verdict := &domain.ScanVerdict{Sanitized: prompt}
	for _, scanner := range s.registry.Inputs() {
		sanitized, result := scanner.Scan(verdict.Sanitized)
		verdict.Sanitized = sanitized
		verdict.Scanners = append(verdict.Scanners, result)
	}
	verdict.Aggregate()
	verdict.Latency = time.Since(start)

	s.log.Info("input scan",
		"valid", verdict.IsValid,
		"risk_score", verdict.RiskScore,
		"latency_ms", verdict.Latency.Milliseconds())
	return verdict, nil
}

// ScanOutput runs all enabled output scanners over the answer.
func (s *ScanService) ScanOutput(ctx context.Context, prompt, output string) (*domain.ScanVerdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	verdict := &domain.ScanVerdict{Sanitized: output}
	for _, scanner := range s.registry.Outputs() {
		sanitized, result := scanner.Scan(prompt, verdict.Sanitized)
		verdict.Sanitized = sanitized
		verdict.Scanners = append(verdict.Scanners, result)
	}
	verdict.Aggregate()
	verdict.Latency = time.Since(start)

	s.log.Info("output scan",
		"valid", verdict.IsValid,
		"risk_score", verdict.RiskScore,
		"latency_ms", verdict.Latency.Milliseconds())
	return verdict, nil
}

// ScanFull runs the input scan and, if it passes, the output scan.
// An invalid input short-circuits: the output is never scanned.
func (s *ScanService) ScanFull(ctx context.Context, prompt, output string) (*driving.FullScanResult, error) {
	inputVerdict, err := s.ScanInput(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("input scan: %w", err)
	}

	if !inputVerdict.IsValid {
		return &driving.FullScanResult{
			Allowed:   false,
			Stage:     "input",
			InputScan: inputVerdict,
		}, nil
	}

	outputVerdict, err := s.ScanOutput(ctx, prompt, output)
	if err != nil {
		return nil, fmt.Errorf("output scan: %w", err)
	}

	stage := "complete"
	if !outputVerdict.IsValid {
		stage = "output"
	}
	return &driving.FullScanResult{
		Allowed:    outputVerdict.IsValid,
		Stage:      stage,
		InputScan:  inputVerdict,
		OutputScan: outputVerdict,
	}, nil
}

// Warmup forces eager scanner construction.
func (s *ScanService) Warmup(ctx context.Context) (inputs, outputs int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	inputs, outputs = s.registry.Warmup()
	s.log.Info("scanners warmed up", "input_scanners", inputs, "output_scanners", outputs)
	return inputs, outputs, nil
}

// Scanners lists the configured scanner capabilities and thresholds.
func (s *ScanService) Scanners() (inputs, outputs []driving.ScannerInfo) {
	cfg := s.registry.Config()

	inputs = []driving.ScannerInfo{
		{
			Name:        "PromptInjection",
			Enabled:     cfg.EnablePromptInjection,
			Threshold:   cfg.PromptInjectionThreshold,
			Description: "Detects prompt injection attempts",
		},
		{
			Name:        "Toxicity",
			Enabled:     cfg.EnableToxicity,
			Threshold:   cfg.ToxicityThreshold,
			Description: "Detects toxic or harmful language",
		},
		{
			Name:        "Secrets",
			Enabled:     cfg.EnableSecrets,
			Description: "Detects API keys, passwords, tokens",
		},
	}
	outputs = []driving.ScannerInfo{
		{
			Name:        "Sensitive",
			Enabled:     cfg.EnablePII,
			Description: "Detects and redacts PII (names, emails, SSN, etc.)",
		},
		{
			Name:        "NoRefusal",
			Enabled:     true,
			Description: "Detects LLM refusal responses",
		},
	}
	return inputs, outputs
}

// Loaded reports how many scanners are ready without triggering
// construction.
func (s *ScanService) Loaded() (inputs, outputs int) {
	return s.registry.Loaded()
}
