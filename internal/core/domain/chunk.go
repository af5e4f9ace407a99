package domain

// Chunk represents one overlapping segment of ingested text.
// Chunks are produced by the chunker, enriched with a deterministic
// identifier during ingestion, embedded, and stored in the vector store.
// They are never mutated after storage except by full re-ingestion.
type Chunk struct {
	// Text is the chunk content after whitespace trimming.
	Text string

	// Source identifies the document the chunk was cut from.
	Source string

	// Index is the ordinal position within the source document.
	Index int

	// Metadata contains arbitrary key-value pairs carried into the
	// stored payload alongside the required fields.
	Metadata map[string]any
}

// Payload is the stored form of a chunk, returned with search hits.
// Text, Source and Index are required; Metadata is the open extension map.
type Payload struct {
	Text     string         `json:"text"`
	Source   string         `json:"source"`
	Index    int            `json:"chunk_index"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
