// Package qdrant provides a VectorStore adapter using the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.VectorStore = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Qdrant client.
type Config struct {
	// BaseURL is the Qdrant API base URL (default: http://localhost:6333).
	BaseURL string

	// APIKey is sent as the api-key header when non-empty.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client talks to Qdrant over its REST API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// createCollectionRequest is the PUT /collections/{name} body.
type createCollectionRequest struct {
	Vectors vectorsConfig `json:"vectors"`
}

type vectorsConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

// upsertRequest is the PUT /collections/{name}/points body.
type upsertRequest struct {
	Points []pointBody `json:"points"`
}

type pointBody struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload domain.Payload `json:"payload"`
}

// searchRequest is the POST /collections/{name}/points/search body.
type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []searchHit `json:"result"`
}

type searchHit struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload domain.Payload  `json:"payload"`
}

type countResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

// NewClient creates a new Qdrant client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist. Existing collections are left untouched - they are never
// resized or altered.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	exists, err := c.collectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body := createCollectionRequest{
		Vectors: vectorsConfig{Size: vectorSize, Distance: "Cosine"},
	}
	if err := c.do(ctx, http.MethodPut, "/collections/"+name, body, nil); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	return nil
}

// collectionExists probes the collection. A 404 means absent; any other
// failure propagates.
func (c *Client) collectionExists(ctx context.Context, name string) (bool, error) {
	err := c.do(ctx, http.MethodGet, "/collections/"+name, nil, nil)
	if err == nil {
		return true, nil
	}
	var statusErr *statusError
	if asStatusError(err, &statusErr) && statusErr.code == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("probe collection %s: %w", name, err)
}

// Upsert inserts or overwrites points in one batch call.
func (c *Client) Upsert(ctx context.Context, collection string, points []driven.Point) error {
	body := upsertRequest{Points: make([]pointBody, len(points))}
	for i, p := range points {
		body.Points[i] = pointBody{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}

	if err := c.do(ctx, http.MethodPut, "/collections/"+collection+"/points", body, nil); err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// Search returns the top results by cosine similarity, descending, with
// payloads included. The store's native ranking is trusted as-is.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]domain.SearchResult, error) {
	body := searchRequest{Vector: vector, Limit: limit, WithPayload: true}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body, &resp); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]domain.SearchResult, len(resp.Result))
	for i, hit := range resp.Result {
		results[i] = domain.SearchResult{
			ID:      rawIDString(hit.ID),
			Score:   hit.Score,
			Payload: hit.Payload,
		}
	}
	return results, nil
}

// Count returns the exact number of stored points.
func (c *Client) Count(ctx context.Context, collection string) (int, error) {
	var resp countResponse
	body := map[string]bool{"exact": true}
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/count", body, &resp); err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return resp.Result.Count, nil
}

// ListCollections returns the names of all collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var resp collectionsResponse
	if err := c.do(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	names := make([]string, len(resp.Result.Collections))
	for i, col := range resp.Result.Collections {
		names[i] = col.Name
	}
	return names, nil
}

// DeleteCollection removes a collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil, nil); err != nil {
		return fmt.Errorf("delete collection %s: %w", name, err)
	}
	return nil
}

// do issues one request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return &statusError{code: resp.StatusCode, body: "failed to read response"}
		}
		return &statusError{code: resp.StatusCode, body: string(msg)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// statusError is a non-200 Qdrant response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant error (status %d): %s", e.code, e.body)
}

func asStatusError(err error, target **statusError) bool {
	se, ok := err.(*statusError)
	if ok {
		*target = se
	}
	return ok
}

// rawIDString renders a point ID that may arrive as a JSON string or
// integer.
func rawIDString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}
