package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

// RAGHandler serves the ingest, search, query and clear endpoints.
type RAGHandler struct {
	pipeline driving.PipelineService
	ingest   driving.IngestService
}

// NewRAGHandler creates the RAG endpoint handler.
func NewRAGHandler(pipeline driving.PipelineService, ingest driving.IngestService) *RAGHandler {
	return &RAGHandler{
		pipeline: pipeline,
		ingest:   ingest,
	}
}

// RegisterRoutes registers the RAG endpoints on the mux.
func (h *RAGHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /ingest", h.handleIngest)
	mux.HandleFunc("POST /search", h.handleSearch)
	mux.HandleFunc("POST /query", h.handleQuery)
	mux.HandleFunc("POST /clear", h.handleClear)
}

type ingestRequest struct {
	Text     string         `json:"text"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (h *RAGHandler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	receipt, err := h.ingest.Ingest(r.Context(), req.Text, req.Source, req.Metadata)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type searchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

func (h *RAGHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	results, err := h.pipeline.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

func (h *RAGHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	// Blocked queries are 200s: the block is a structured outcome.
	result, err := h.pipeline.Query(r.Context(), req.Question, req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RAGHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.Clear(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrVectorStoreUnavailable):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
