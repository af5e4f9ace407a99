package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Z3ROX-lab/ai-security-platform/internal/chunker"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// pointNamespace scopes chunk fingerprints to this platform's ID space.
var pointNamespace = uuid.MustParse("8f3c1de2-4b5a-4c6d-9e7f-0a1b2c3d4e5f")

// IngestService turns raw text into stored, searchable vectors.
type IngestService struct {
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	splitter *chunker.Chunker
	audit    driven.AuditStore
	cfg      PipelineConfig
	log      *slog.Logger
}

// NewIngestService creates the ingestion workflow. The audit store is
// optional.
func NewIngestService(
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	splitter *chunker.Chunker,
	audit driven.AuditStore,
	cfg PipelineConfig,
	log *slog.Logger,
) *IngestService {
	if log == nil {
		log = slog.Default()
	}
	return &IngestService{
		vectors:  vectors,
		embedder: embedder,
		splitter: splitter,
		audit:    audit,
		cfg:      cfg,
		log:      log,
	}
}

// Ingest chunks, embeds and stores text under the given source.
// Point IDs are deterministic fingerprints of source and chunk prefix,
// so re-ingesting the same text overwrites rather than duplicates.
// Storage is a single batched upsert: a failure commits nothing.
func (s *IngestService) Ingest(ctx context.Context, text, source string, metadata map[string]any) (*domain.IngestReceipt, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	if source == "" {
		return nil, fmt.Errorf("%w: empty source", domain.ErrInvalidInput)
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: text produced no chunks", domain.ErrInvalidInput)
	}
	s.log.Info("ingesting", "source", source, "chunks", len(chunks))

	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		s.recordIngest(ctx, source, 0, "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	points := make([]driven.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = driven.Point{
			ID:     PointID(chunk, source),
			Vector: embeddings[i],
			Payload: domain.Payload{
				Text:     chunk,
				Source:   source,
				Index:    i,
				Metadata: metadata,
			},
		}
	}

	if err := s.vectors.EnsureCollection(ctx, s.cfg.Collection, s.embedder.Dimensions()); err != nil {
		s.recordIngest(ctx, source, 0, "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	if err := s.vectors.Upsert(ctx, s.cfg.Collection, points); err != nil {
		s.recordIngest(ctx, source, 0, "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}

	s.recordIngest(ctx, source, len(points), "success")
	s.log.Info("ingest complete", "source", source, "stored", len(points))

	return &domain.IngestReceipt{
		Source:     source,
		ChunkCount: len(points),
		Status:     "success",
	}, nil
}

// PointID derives the deterministic point ID for a chunk. The
// fingerprint covers the source and the first 100 characters of the
// chunk; identical inputs always map to the same UUID.
func PointID(chunk, source string) string {
	prefix := chunk
	if len(prefix) > 100 {
		prefix = prefix[:100]
	}
	return uuid.NewMD5(pointNamespace, []byte(source+":"+prefix)).String()
}

func (s *IngestService) recordIngest(ctx context.Context, source string, chunks int, status string) {
	if s.audit == nil {
		return
	}
	ev := driven.IngestEvent{
		Source:     source,
		ChunkCount: chunks,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.RecordIngest(ctx, ev); err != nil {
		s.log.Warn("audit write failed", "error", err)
	}
}
