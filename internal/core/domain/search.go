package domain

// SearchResult represents a single vector search hit.
// Results are ephemeral - produced per query, never persisted.
type SearchResult struct {
	// ID is the stored point identifier.
	ID string

	// Score is the store's native similarity (cosine, higher is better).
	Score float64

	// Payload carries the original chunk text and metadata.
	Payload Payload
}

// SourceRef records one context source included in a query answer,
// in the same order as the assembled context blocks.
type SourceRef struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Index  int     `json:"chunk_index"`
}

// CollectionStats describes the state of the backing collection.
type CollectionStats struct {
	Collection     string   `json:"collection"`
	DocumentCount  int      `json:"document_count"`
	AllCollections []string `json:"all_collections"`
}
