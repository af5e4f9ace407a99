package driving

import (
	"context"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// PipelineService runs the query-time orchestration pipeline.
type PipelineService interface {
	// Query executes the full scan -> retrieve -> augment -> generate ->
	// scan sequence. Blocked requests are normal structured outcomes,
	// not errors; only infrastructure failures outside the guard layer
	// return a non-nil error.
	Query(ctx context.Context, question string, topK int) (*domain.QueryResult, error)

	// Search retrieves ranked chunks without generation.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// Stats reports the backing collection state.
	Stats(ctx context.Context) (*domain.CollectionStats, error)

	// Clear deletes and recreates the backing collection.
	Clear(ctx context.Context) error
}

// IngestService populates the vector store from raw text.
type IngestService interface {
	// Ingest chunks, embeds and stores text under the given source.
	// Re-ingesting identical text and source is idempotent.
	Ingest(ctx context.Context, text, source string, metadata map[string]any) (*domain.IngestReceipt, error)
}
