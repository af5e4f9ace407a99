package httpapi

import (
	"net/http"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

// HealthHandler serves the health and stats endpoints.
type HealthHandler struct {
	pipeline driving.PipelineService
	guard    GuardProbe
	info     ConfigInfo
}

// NewHealthHandler creates the health endpoint handler.
func NewHealthHandler(pipeline driving.PipelineService, guard GuardProbe, info ConfigInfo) *HealthHandler {
	return &HealthHandler{
		pipeline: pipeline,
		guard:    guard,
		info:     info,
	}
}

// RegisterRoutes registers the health endpoints on the mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /stats", h.handleStats)
}

type healthResponse struct {
	Status     string `json:"status"`
	Qdrant     bool   `json:"qdrant"`
	Guardrails bool   `json:"guardrails"`
}

// handleHealth probes the vector store and the guardrail service. The
// endpoint answers 200 even when a dependency is down so orchestrators
// can distinguish "up but degraded" from "dead".
func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy"}

	if _, err := h.pipeline.Stats(r.Context()); err == nil {
		resp.Qdrant = true
	} else {
		resp.Status = "degraded"
	}

	if h.guard != nil && h.guard.Enabled() {
		resp.Guardrails = h.guard.Healthy(r.Context())
		if !resp.Guardrails {
			resp.Status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type statsResponse struct {
	Collection        string   `json:"collection"`
	Documents         int      `json:"documents"`
	Collections       []string `json:"collections"`
	GuardrailsEnabled bool     `json:"guardrails_enabled"`
	EmbeddingModel    string   `json:"embedding_model"`
	LLMModel          string   `json:"llm_model"`
}

func (h *HealthHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pipeline.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Collection:        stats.Collection,
		Documents:         stats.DocumentCount,
		Collections:       stats.AllCollections,
		GuardrailsEnabled: h.guard != nil && h.guard.Enabled(),
		EmbeddingModel:    h.info.EmbeddingModel,
		LLMModel:          h.info.LLMModel,
	})
}
