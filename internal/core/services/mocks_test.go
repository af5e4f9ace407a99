package services

import (
	"context"
	"sync"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	mu sync.Mutex

	hits        []domain.SearchResult
	count       int
	collections []string

	upserted      [][]driven.Point
	ensured       []string
	deleted       []string
	searchCalls   int
	ensureErr     error
	upsertErr     error
	searchErr     error
	countErr      error
	listErr       error
	deleteErr     error
}

func (m *mockVectorStore) EnsureCollection(_ context.Context, name string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.ensured = append(m.ensured, name)
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, _ string, points []driven.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, points)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ string, _ []float32, limit int) ([]domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit < len(m.hits) {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) Count(_ context.Context, _ string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockVectorStore) ListCollections(_ context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.collections, nil
}

func (m *mockVectorStore) DeleteCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, name)
	return nil
}

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	embedding  []float32
	embedErr   error
	dims       int
	embedCalls int
	batchTexts []string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchTexts = texts
	out := make([][]float32, len(texts))
	for i := range texts {
		vec, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims == 0 {
		return 768
	}
	return m.dims
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	answer     string
	chatErr    error
	chatCalls  int
	lastPrompt string
	lastOpts   driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, prompt string, opts driven.ChatOptions) (string, error) {
	m.chatCalls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.answer, nil
}

func (m *mockLLM) ChatStream(ctx context.Context, prompt string, opts driven.ChatOptions, fn driven.StreamFunc) error {
	answer, err := m.Chat(ctx, prompt, opts)
	if err != nil {
		return err
	}
	return fn(answer)
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

// mockGuardrails implements driven.GuardrailService for testing.
type mockGuardrails struct {
	inputVerdict  *domain.ScanVerdict
	outputVerdict *domain.ScanVerdict
	inputErr      error
	outputErr     error
	healthy       bool
	inputCalls    int
	outputCalls   int
}

func (m *mockGuardrails) ScanInput(_ context.Context, _ string) (*domain.ScanVerdict, error) {
	m.inputCalls++
	if m.inputErr != nil {
		return nil, m.inputErr
	}
	v := *m.inputVerdict
	return &v, nil
}

func (m *mockGuardrails) ScanOutput(_ context.Context, _, _ string) (*domain.ScanVerdict, error) {
	m.outputCalls++
	if m.outputErr != nil {
		return nil, m.outputErr
	}
	v := *m.outputVerdict
	return &v, nil
}

func (m *mockGuardrails) Healthy(_ context.Context) bool { return m.healthy }

// mockAudit implements driven.AuditStore for testing.
type mockAudit struct {
	mu      sync.Mutex
	scans   []driven.ScanEvent
	ingests []driven.IngestEvent
	scanErr error
}

func (m *mockAudit) RecordScan(_ context.Context, ev driven.ScanEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scanErr != nil {
		return m.scanErr
	}
	m.scans = append(m.scans, ev)
	return nil
}

func (m *mockAudit) RecordIngest(_ context.Context, ev driven.IngestEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingests = append(m.ingests, ev)
	return nil
}

func (m *mockAudit) RecentScans(_ context.Context, limit int) ([]driven.ScanEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.scans) {
		limit = len(m.scans)
	}
	out := make([]driven.ScanEvent, limit)
	for i := 0; i < limit; i++ {
		out[i] = m.scans[len(m.scans)-1-i]
	}
	return out, nil
}

func (m *mockAudit) Close() error { return nil }
