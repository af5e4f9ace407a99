// Package guardrails provides an HTTP client for the remote guardrail
// scan service.
package guardrails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.GuardrailService = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultTimeout       = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second
)

// Config holds configuration for the guardrail client.
type Config struct {
	// BaseURL is the scan service base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the scan request timeout (default: 30s). First scans can
	// be slow while the service loads its models.
	Timeout time.Duration
}

// Client calls the remote scan service. It never applies a failure
// policy itself: transport errors propagate so the caller can decide
// fail-open versus fail-closed.
type Client struct {
	client  *http.Client
	baseURL string
}

// scanInputRequest is the POST /scan/input body.
type scanInputRequest struct {
	Prompt string `json:"prompt"`
}

// scanOutputRequest is the POST /scan/output body.
type scanOutputRequest struct {
	Prompt string `json:"prompt"`
	Output string `json:"output"`
}

// scanResponse is the scan service's verdict format.
type scanResponse struct {
	IsValid   bool                   `json:"is_valid"`
	Sanitized string                 `json:"sanitized"`
	RiskScore float64                `json:"risk_score"`
	Scanners  []domain.ScannerResult `json:"scanners"`
	LatencyMS float64                `json:"latency_ms"`
}

// NewClient creates a new guardrail service client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
	}
}

// ScanInput scans a user prompt for injection, toxicity and secrets.
func (c *Client) ScanInput(ctx context.Context, prompt string) (*domain.ScanVerdict, error) {
	return c.scan(ctx, "/scan/input", scanInputRequest{Prompt: prompt})
}

// ScanOutput scans a generated answer for PII and refusals.
func (c *Client) ScanOutput(ctx context.Context, prompt, output string) (*domain.ScanVerdict, error) {
	return c.scan(ctx, "/scan/output", scanOutputRequest{Prompt: prompt, Output: output})
}

// Healthy reports whether the scan service answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, DefaultHealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *Client) scan(ctx context.Context, path string, body any) (*domain.ScanVerdict, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("guardrails error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("guardrails error (status %d): %s", resp.StatusCode, string(msg))
	}

	var scanResp scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&scanResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &domain.ScanVerdict{
		IsValid:   scanResp.IsValid,
		Sanitized: scanResp.Sanitized,
		RiskScore: scanResp.RiskScore,
		Scanners:  scanResp.Scanners,
		Latency:   time.Duration(scanResp.LatencyMS * float64(time.Millisecond)),
	}, nil
}
