// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the request path to function:
//
//   - VectorStore: Collection lifecycle, point upsert and similarity search (Qdrant)
//   - EmbeddingService: Text to fixed-length vector (Ollama)
//   - LLMService: Context-augmented answer generation (Ollama)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - GuardrailService: Remote content scanning. Without it, scans are skipped
//     entirely (equivalent to guardrails disabled).
//   - AuditStore: Scan/ingestion audit trail. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
