package mcp

import "errors"

// ErrMissingPipelineService indicates the pipeline port was not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
