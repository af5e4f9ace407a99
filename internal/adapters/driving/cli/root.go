// Package cli wires the cobra command tree. Services are constructed
// once in the persistent pre-run and shared through package-level
// variables, so every command sees the same handles.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driven/generation/ollama"
	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driven/guardrails"
	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driven/storage/sqlite"
	"github.com/Z3ROX-lab/ai-security-platform/internal/adapters/driven/vector/qdrant"
	"github.com/Z3ROX-lab/ai-security-platform/internal/chunker"
	"github.com/Z3ROX-lab/ai-security-platform/internal/config"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
	"github.com/Z3ROX-lab/ai-security-platform/internal/core/services"
	"github.com/Z3ROX-lab/ai-security-platform/internal/guardrails/scanners"
)

// version is set at build time via -ldflags.
var version = "dev"

// Shared service handles, populated by initServices.
var (
	cfg             *config.Config
	pipelineService driving.PipelineService
	ingestService   driving.IngestService
	scanService     driving.GuardService
	guardPolicy     *services.Guard
	auditStore      driven.AuditStore
)

var rootCmd = &cobra.Command{
	Use:   "ragsec",
	Short: "Guarded RAG platform over Qdrant and Ollama",
	Long: `ragsec runs a retrieval-augmented generation pipeline with two-stage
security guardrails: documents are chunked, embedded and stored in
Qdrant; queries are scanned, answered from retrieved context via
Ollama, and scanned again before delivery.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command. The context cancels long-running
// commands such as the servers.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// initServices loads configuration and constructs the shared service
// graph. The version command works without any of it.
func initServices(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	setupLogging(cfg.LogLevel)

	vectors := qdrant.NewClient(qdrant.Config{
		BaseURL: cfg.QdrantURL,
		APIKey:  cfg.QdrantKey,
	})
	embedder := ollama.NewEmbeddingService(ollama.EmbeddingConfig{
		BaseURL:    cfg.OllamaURL,
		Model:      cfg.EmbeddingModel,
		Timeout:    cfg.EmbedTimeout,
		Dimensions: cfg.VectorSize,
		RateLimit:  cfg.EmbedRateLimit,
	})
	llm := ollama.NewLLMService(ollama.LLMConfig{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.ChatTimeout,
	})

	if cfg.AuditDBPath != "" {
		auditStore, err = sqlite.NewStore(cfg.AuditDBPath)
		if err != nil {
			return fmt.Errorf("opening audit store: %w", err)
		}
	}

	if cfg.GuardrailsEnabled {
		remote := guardrails.NewClient(guardrails.Config{BaseURL: cfg.GuardrailsURL})
		guardPolicy = services.NewGuard(remote, auditStore, services.GuardConfig{
			Enabled:             true,
			Mode:                services.GuardMode(cfg.GuardrailsMode),
			BlockOnDetection:    cfg.BlockOnDetection,
			OutputRiskThreshold: cfg.OutputRiskThreshold,
		}, slog.Default())
	}

	pipelineCfg := services.PipelineConfig{
		Collection: cfg.Collection,
		TopK:       cfg.TopK,
		MinScore:   cfg.MinScore,
	}
	pipelineService = services.NewPipelineService(vectors, embedder, llm, guardPolicy, pipelineCfg, slog.Default())

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}
	ingestService = services.NewIngestService(vectors, embedder, splitter, auditStore, pipelineCfg, slog.Default())

	registry := scanners.NewRegistry(scanners.RegistryConfig{
		PromptInjectionThreshold: cfg.PromptInjectionThreshold,
		ToxicityThreshold:        cfg.ToxicityThreshold,
		EnablePromptInjection:    cfg.EnablePromptInjection,
		EnableToxicity:           cfg.EnableToxicity,
		EnableSecrets:            cfg.EnableSecrets,
		EnablePII:                cfg.EnablePII,
	})
	scanService = services.NewScanService(registry, slog.Default())

	return nil
}

func closeServices() {
	if auditStore != nil {
		auditStore.Close() //nolint:errcheck
	}
}

// setupLogging installs the process-wide slog handler. Text output for
// humans at debug level, JSON otherwise.
func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if lvl == slog.LevelDebug {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
