package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration violation that must
	// fail fast at startup rather than silently degrade.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrScannerNotReady indicates a scanner was invoked before its
	// lifecycle reached the ready state.
	ErrScannerNotReady = errors.New("scanner not ready")
)
