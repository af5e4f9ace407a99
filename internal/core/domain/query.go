package domain

// QueryResult is the terminal value of one pipeline invocation.
// It is returned to the caller and never persisted.
//
// On the output path Blocked is advisory metadata: the sanitized answer
// is still delivered even when Blocked is true. Only an input-stage block
// suppresses the answer entirely.
type QueryResult struct {
	Answer        *string        `json:"answer"`
	Blocked       bool           `json:"blocked"`
	BlockedReason *string        `json:"blocked_reason,omitempty"`
	Sources       []SourceRef    `json:"sources"`
	Context       string         `json:"context"`
	Guardrails    GuardrailTrace `json:"guardrails"`
}

// IngestReceipt summarises one ingestion run.
type IngestReceipt struct {
	Source     string `json:"source"`
	ChunkCount int    `json:"chunks"`
	Status     string `json:"status"`
}
