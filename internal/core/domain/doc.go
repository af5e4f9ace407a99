// Package domain defines the core business entities for the AI security platform.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: An overlapping segment of ingested text
//   - SearchResult: A ranked vector-store hit with its payload
//   - ScanVerdict: The outcome of a guardrail content scan
//   - QueryResult: The terminal value of one pipeline invocation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
