package guardapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

// ScanHandler serves all guardrail endpoints.
type ScanHandler struct {
	svc driving.GuardService
}

// NewScanHandler creates the scan endpoint handler.
func NewScanHandler(svc driving.GuardService) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// RegisterRoutes registers the guardrail endpoints on the mux.
func (h *ScanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /scanners", h.handleScanners)
	mux.HandleFunc("POST /scan/input", h.handleScanInput)
	mux.HandleFunc("POST /scan/output", h.handleScanOutput)
	mux.HandleFunc("POST /scan/full", h.handleScanFull)
	mux.HandleFunc("POST /warmup", h.handleWarmup)
}

type scanInputRequest struct {
	Prompt string `json:"prompt"`
}

type scanOutputRequest struct {
	Prompt string `json:"prompt"`
	Output string `json:"output"`
}

// scanResult is the wire form of a verdict, with latency spelled out in
// milliseconds.
type scanResult struct {
	IsValid   bool                   `json:"is_valid"`
	Sanitized string                 `json:"sanitized"`
	RiskScore float64                `json:"risk_score"`
	Scanners  []domain.ScannerResult `json:"scanners"`
	LatencyMS float64                `json:"latency_ms"`
}

func toScanResult(v *domain.ScanVerdict) *scanResult {
	if v == nil {
		return nil
	}
	scanners := v.Scanners
	if scanners == nil {
		scanners = []domain.ScannerResult{}
	}
	return &scanResult{
		IsValid:   v.IsValid,
		Sanitized: v.Sanitized,
		RiskScore: v.RiskScore,
		Scanners:  scanners,
		LatencyMS: float64(v.Latency.Microseconds()) / 1000,
	}
}

type healthResponse struct {
	Status         string `json:"status"`
	ScannersLoaded bool   `json:"scanners_loaded"`
	InputScanners  int    `json:"input_scanners"`
	OutputScanners int    `json:"output_scanners"`
}

func (h *ScanHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	inputs, outputs := h.svc.Loaded()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "healthy",
		ScannersLoaded: inputs > 0,
		InputScanners:  inputs,
		OutputScanners: outputs,
	})
}

type scannersResponse struct {
	InputScanners  []driving.ScannerInfo `json:"input_scanners"`
	OutputScanners []driving.ScannerInfo `json:"output_scanners"`
}

func (h *ScanHandler) handleScanners(w http.ResponseWriter, r *http.Request) {
	inputs, outputs := h.svc.Scanners()
	writeJSON(w, http.StatusOK, scannersResponse{
		InputScanners:  inputs,
		OutputScanners: outputs,
	})
}

func (h *ScanHandler) handleScanInput(w http.ResponseWriter, r *http.Request) {
	var req scanInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	verdict, err := h.svc.ScanInput(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scan_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toScanResult(verdict))
}

func (h *ScanHandler) handleScanOutput(w http.ResponseWriter, r *http.Request) {
	var req scanOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	verdict, err := h.svc.ScanOutput(r.Context(), req.Prompt, req.Output)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scan_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toScanResult(verdict))
}

type fullScanResponse struct {
	Allowed    bool        `json:"allowed"`
	Stage      string      `json:"stage"`
	InputScan  *scanResult `json:"input_scan"`
	OutputScan *scanResult `json:"output_scan"`
}

func (h *ScanHandler) handleScanFull(w http.ResponseWriter, r *http.Request) {
	var req scanOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	result, err := h.svc.ScanFull(r.Context(), req.Prompt, req.Output)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scan_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, fullScanResponse{
		Allowed:    result.Allowed,
		Stage:      result.Stage,
		InputScan:  toScanResult(result.InputScan),
		OutputScan: toScanResult(result.OutputScan),
	})
}

type warmupResponse struct {
	Status         string `json:"status"`
	InputScanners  int    `json:"input_scanners"`
	OutputScanners int    `json:"output_scanners"`
}

func (h *ScanHandler) handleWarmup(w http.ResponseWriter, r *http.Request) {
	inputs, outputs, err := h.svc.Warmup(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "warmup_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, warmupResponse{
		Status:         "ok",
		InputScanners:  inputs,
		OutputScanners: outputs,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse represents a JSON error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: message})
}
