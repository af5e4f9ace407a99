package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorStore which stores and searches vectors.
// EmbeddingService generates vectors; VectorStore stores them.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// Embedding calls are strictly sequential per text - there is no
	// batching optimisation, and a failure on any text fails the batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768).
	// This must match the VectorStore collection configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
