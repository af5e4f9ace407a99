package mcp

import (
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline provides query and search capabilities.
	Pipeline driving.PipelineService

	// Ingest stores new documents. Optional; the ingest tool is
	// registered only when set.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
