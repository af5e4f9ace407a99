package driven

import (
	"context"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// Point is one stored vector with its payload, ready for upsert.
type Point struct {
	// ID is the deterministic point identifier.
	ID string

	// Vector is the embedding for the payload text.
	Vector []float32

	// Payload carries the chunk text and metadata.
	Payload domain.Payload
}

// VectorStore abstracts the vector database's search/upsert/collection
// lifecycle API. Ingestion and search are not best-effort: any transport
// or status error other than "not found" on an existence probe must
// propagate as a hard failure.
type VectorStore interface {
	// EnsureCollection creates the collection with the given vector
	// dimensionality and cosine distance if it does not exist.
	// Existing collections are never resized or altered.
	EnsureCollection(ctx context.Context, name string, vectorSize int) error

	// Upsert inserts or overwrites points in one batch call.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the top results ranked by the store's native
	// similarity metric, descending, with payloads included.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]domain.SearchResult, error)

	// Count returns the exact number of stored points.
	Count(ctx context.Context, collection string) (int, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection removes a collection and all its points.
	DeleteCollection(ctx context.Context, name string) error
}
