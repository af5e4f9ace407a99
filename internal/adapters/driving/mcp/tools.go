package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find document chunks"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 3)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Index  int     `json:"chunk_index"`
	Text   string  `json:"text"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the document collection"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default 3)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer        string   `json:"answer"`
	Blocked       bool     `json:"blocked"`
	BlockedReason string   `json:"blocked_reason,omitempty"`
	Sources       []string `json:"sources"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Text   string `json:"text" jsonschema:"the document text to ingest"`
	Source string `json:"source" jsonschema:"a name identifying where the text came from"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
	Status string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search over the ingested document collection",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question from the document collection with guardrails applied",
	}, s.handleQuery)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Chunk, embed and store text in the document collection",
		}, s.handleIngest)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Pipeline.Search(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Source: results[i].Payload.Source,
			Score:  results[i].Score,
			Index:  results[i].Payload.Index,
			Text:   results[i].Payload.Text,
		}
	}

	return nil, output, nil
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	result, err := s.ports.Pipeline.Query(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{Blocked: result.Blocked}
	if result.Answer != nil {
		output.Answer = *result.Answer
	}
	if result.BlockedReason != nil {
		output.BlockedReason = *result.BlockedReason
	}
	for _, src := range result.Sources {
		output.Sources = append(output.Sources, src.Source)
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	receipt, err := s.ports.Ingest.Ingest(ctx, input.Text, input.Source, nil)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Source: receipt.Source,
		Chunks: receipt.ChunkCount,
		Status: receipt.Status,
	}, nil
}
