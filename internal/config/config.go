// Package config loads the process-wide configuration.
//
// Configuration is immutable after process start. Values come from three
// layers, lowest precedence first: built-in defaults, an optional TOML
// file, and environment variables. A .env file in the working directory
// is folded into the environment when present. There is no hot reload.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/domain"
)

// GuardrailMode selects the input-scan strategy.
type GuardrailMode string

const (
	// ModeAlways sends every input and output to the remote scan service.
	ModeAlways GuardrailMode = "always"

	// ModeHybrid runs the lexical pre-filter first and consults the
	// remote service only when a keyword pattern matches.
	ModeHybrid GuardrailMode = "hybrid"
)

// Config holds all runtime settings. Construct via Load; do not mutate
// after startup.
type Config struct {
	// Qdrant
	QdrantURL  string `toml:"qdrant_url"`
	QdrantKey  string `toml:"qdrant_api_key"`
	Collection string `toml:"collection"`
	VectorSize int    `toml:"vector_size"`

	// Ollama
	OllamaURL      string        `toml:"ollama_url"`
	EmbeddingModel string        `toml:"embedding_model"`
	LLMModel       string        `toml:"llm_model"`
	EmbedTimeout   time.Duration `toml:"-"`
	ChatTimeout    time.Duration `toml:"-"`
	EmbedRateLimit float64       `toml:"embed_rate_limit"`

	// RAG parameters
	ChunkSize    int     `toml:"chunk_size"`
	ChunkOverlap int     `toml:"chunk_overlap"`
	TopK         int     `toml:"top_k"`
	MinScore     float64 `toml:"min_score"`

	// Guardrails (client side)
	GuardrailsURL       string        `toml:"guardrails_url"`
	GuardrailsEnabled   bool          `toml:"guardrails_enabled"`
	GuardrailsMode      GuardrailMode `toml:"guardrails_mode"`
	BlockOnDetection    bool          `toml:"block_on_detection"`
	OutputRiskThreshold float64       `toml:"output_risk_threshold"`

	// Scanner thresholds (server side)
	PromptInjectionThreshold float64 `toml:"prompt_injection_threshold"`
	ToxicityThreshold        float64 `toml:"toxicity_threshold"`
	EnablePromptInjection    bool    `toml:"enable_prompt_injection"`
	EnableToxicity           bool    `toml:"enable_toxicity"`
	EnablePII                bool    `toml:"enable_pii"`
	EnableSecrets            bool    `toml:"enable_secrets"`

	// Serving
	RAGAddr   string `toml:"rag_addr"`
	GuardAddr string `toml:"guard_addr"`
	LogLevel  string `toml:"log_level"`

	// Audit trail; empty path disables auditing.
	AuditDBPath string `toml:"audit_db_path"`
}

// defaults mirrors the platform's deployment defaults.
func defaults() Config {
	return Config{
		QdrantURL:      "http://localhost:6333",
		Collection:     "documents",
		VectorSize:     768, // nomic-embed-text
		OllamaURL:      "http://localhost:11434",
		EmbeddingModel: "nomic-embed-text",
		LLMModel:       "mistral:7b-instruct-v0.3-q4_K_M",
		EmbedTimeout:   60 * time.Second,
		ChatTimeout:    300 * time.Second,

		ChunkSize:    1000,
		ChunkOverlap: 100,
		TopK:         3,
		MinScore:     0,

		GuardrailsURL:       "http://localhost:8000",
		GuardrailsEnabled:   true,
		GuardrailsMode:      ModeAlways,
		BlockOnDetection:    true,
		OutputRiskThreshold: 0.9,

		PromptInjectionThreshold: 0.5,
		ToxicityThreshold:        0.7,
		EnablePromptInjection:    true,
		EnableToxicity:           true,
		EnablePII:                true,
		EnableSecrets:            true,

		RAGAddr:   ":8080",
		GuardAddr: ":8000",
		LogLevel:  "info",
	}
}

// Load builds the configuration from defaults, the optional TOML file
// named by CONFIG_FILE, and environment variables, then validates it.
func Load() (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides fields from environment variables. Names follow the
// platform's deployment manifests.
func (c *Config) applyEnv() {
	envString(&c.QdrantURL, "QDRANT_URL")
	envString(&c.QdrantKey, "QDRANT_API_KEY")
	envString(&c.Collection, "QDRANT_COLLECTION")
	envInt(&c.VectorSize, "VECTOR_SIZE")

	envString(&c.OllamaURL, "OLLAMA_URL")
	envString(&c.EmbeddingModel, "EMBEDDING_MODEL")
	envString(&c.LLMModel, "LLM_MODEL")
	envDuration(&c.EmbedTimeout, "EMBED_TIMEOUT")
	envDuration(&c.ChatTimeout, "CHAT_TIMEOUT")
	envFloat(&c.EmbedRateLimit, "EMBED_RATE_LIMIT")

	envInt(&c.ChunkSize, "CHUNK_SIZE")
	envInt(&c.ChunkOverlap, "CHUNK_OVERLAP")
	envInt(&c.TopK, "TOP_K")
	envFloat(&c.MinScore, "MIN_SCORE")

	envString(&c.GuardrailsURL, "GUARDRAILS_URL")
	envBool(&c.GuardrailsEnabled, "GUARDRAILS_ENABLED")
	if v := os.Getenv("GUARDRAILS_MODE"); v != "" {
		c.GuardrailsMode = GuardrailMode(strings.ToLower(v))
	}
	envBool(&c.BlockOnDetection, "BLOCK_ON_DETECTION")
	envFloat(&c.OutputRiskThreshold, "OUTPUT_RISK_THRESHOLD")

	envFloat(&c.PromptInjectionThreshold, "PROMPT_INJECTION_THRESHOLD")
	envFloat(&c.ToxicityThreshold, "TOXICITY_THRESHOLD")
	envBool(&c.EnablePromptInjection, "ENABLE_PROMPT_INJECTION")
	envBool(&c.EnableToxicity, "ENABLE_TOXICITY")
	envBool(&c.EnablePII, "ENABLE_PII")
	envBool(&c.EnableSecrets, "ENABLE_SECRETS")

	envString(&c.RAGAddr, "RAG_ADDR")
	envString(&c.GuardAddr, "GUARD_ADDR")
	envString(&c.LogLevel, "LOG_LEVEL")
	envString(&c.AuditDBPath, "AUDIT_DB_PATH")
}

// Validate rejects configurations that must fail fast rather than
// silently degrade.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive, got %d", domain.ErrInvalidConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CHUNK_OVERLAP %d must be in [0, CHUNK_SIZE)", domain.ErrInvalidConfig, c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: TOP_K must be positive, got %d", domain.ErrInvalidConfig, c.TopK)
	}
	if c.VectorSize <= 0 {
		return fmt.Errorf("%w: VECTOR_SIZE must be positive, got %d", domain.ErrInvalidConfig, c.VectorSize)
	}
	switch c.GuardrailsMode {
	case ModeAlways, ModeHybrid:
	default:
		return fmt.Errorf("%w: GUARDRAILS_MODE must be %q or %q, got %q",
			domain.ErrInvalidConfig, ModeAlways, ModeHybrid, c.GuardrailsMode)
	}
	if c.OutputRiskThreshold < 0 || c.OutputRiskThreshold > 1 {
		return fmt.Errorf("%w: OUTPUT_RISK_THRESHOLD must be in [0,1], got %g", domain.ErrInvalidConfig, c.OutputRiskThreshold)
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = strings.EqualFold(v, "true") || v == "1"
	}
}

func envDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
