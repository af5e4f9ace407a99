package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// systemPrompt instructs the model to stay inside the retrieved context.
const systemPrompt = `You are a helpful assistant that answers questions based on the provided context.
Use ONLY the information from the context to answer. If the context doesn't contain enough information, say so.
Always cite the source when providing information.`

// noResultsAnswer is returned when retrieval finds nothing usable.
const noResultsAnswer = "I couldn't find any relevant information to answer your question."

// PipelineConfig tunes the retrieval and generation stages.
type PipelineConfig struct {
	Collection string
	TopK       int
	MinScore   float64
}

// PipelineService orchestrates one query: input scan, retrieval,
// context assembly, generation, output scan. A blocked request is a
// structured outcome, not an error; only infrastructure failures
// outside the guard layer surface as errors.
type PipelineService struct {
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
	guard    *Guard
	cfg      PipelineConfig
	log      *slog.Logger
}

// NewPipelineService creates the pipeline. The guard may be nil when
// scanning is disabled.
func NewPipelineService(
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	guard *Guard,
	cfg PipelineConfig,
	log *slog.Logger,
) *PipelineService {
	if log == nil {
		log = slog.Default()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &PipelineService{
		vectors:  vectors,
		embedder: embedder,
		llm:      llm,
		guard:    guard,
		cfg:      cfg,
		log:      log,
	}
}

// Query runs the full pipeline for one question.
func (s *PipelineService) Query(ctx context.Context, question string, topK int) (*domain.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	result := &domain.QueryResult{Sources: []domain.SourceRef{}}

	// Stage 1: input scan. A block terminates before any retrieval or
	// generation cost is paid.
	if s.guard != nil {
		decision := s.guard.CheckInput(ctx, question)
		if decision != nil {
			result.Guardrails.InputScan = decision.Summary
			if decision.Blocked {
				result.Blocked = true
				reason := decision.Reason
				result.BlockedReason = &reason
				s.log.Info("query blocked at input stage", "reason", reason)
				return result, nil
			}
		}
	}

	// Stage 2: retrieval.
	hits, err := s.Search(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		answer := noResultsAnswer
		result.Answer = &answer
		s.log.Info("no relevant chunks found", "question_len", len(question))
		return result, nil
	}

	// Stage 3: context assembly, in store ranking order.
	var contextParts []string
	for i, hit := range hits {
		contextParts = append(contextParts,
			fmt.Sprintf("[Source %d: %s]\n%s", i+1, hit.Payload.Source, hit.Payload.Text))
		result.Sources = append(result.Sources, domain.SourceRef{
			Source: hit.Payload.Source,
			Score:  hit.Score,
			Index:  hit.Payload.Index,
		})
	}
	result.Context = strings.Join(contextParts, "\n\n")
	s.log.Debug("context assembled", "chunks", len(hits))

	// Stage 4: generation.
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer based on the context above:",
		result.Context, question)

	answer, err := s.llm.Chat(ctx, userPrompt, driven.ChatOptions{System: systemPrompt})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	// Stage 5: output scan. The sanitized answer substitutes the raw
	// one; blocking here is advisory metadata.
	if s.guard != nil {
		decision := s.guard.CheckOutput(ctx, question, answer)
		if decision != nil {
			result.Guardrails.OutputScan = decision.Summary
			answer = decision.Answer
			if decision.Blocked {
				result.Blocked = true
				reason := decision.Reason
				result.BlockedReason = &reason
			}
		}
	}

	result.Answer = &answer
	return result, nil
}

// Search embeds the query and returns ranked chunks, dropping results
// below the minimum score.
func (s *PipelineService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := s.vectors.Search(ctx, s.cfg.Collection, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}

	if s.cfg.MinScore <= 0 {
		return hits, nil
	}

	filtered := hits[:0]
	for _, hit := range hits {
		if hit.Score >= s.cfg.MinScore {
			filtered = append(filtered, hit)
		}
	}
	return filtered, nil
}

// Stats reports the backing collection state.
func (s *PipelineService) Stats(ctx context.Context) (*domain.CollectionStats, error) {
	count, err := s.vectors.Count(ctx, s.cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}

	collections, err := s.vectors.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}

	return &domain.CollectionStats{
		Collection:     s.cfg.Collection,
		DocumentCount:  count,
		AllCollections: collections,
	}, nil
}

// Clear deletes and recreates the backing collection.
func (s *PipelineService) Clear(ctx context.Context) error {
	if err := s.vectors.DeleteCollection(ctx, s.cfg.Collection); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	if err := s.vectors.EnsureCollection(ctx, s.cfg.Collection, s.embedder.Dimensions()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	s.log.Info("collection cleared", "collection", s.cfg.Collection)
	return nil
}
