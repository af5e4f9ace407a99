package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driven"
)

func TestEmbed_DecodesVector(t *testing.T) {
	var body embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"embedding":[0.25,0.5,-1.0]}`))
	}))
	defer srv.Close()

	svc := NewEmbeddingService(EmbeddingConfig{BaseURL: srv.URL, Model: "nomic-embed-text"})
	vec, err := svc.Embed(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Equal(t, "nomic-embed-text", body.Model)
	assert.Equal(t, "hello world", body.Prompt)
	assert.Equal(t, []float32{0.25, 0.5, -1.0}, vec)
}

func TestEmbed_SurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewEmbeddingService(EmbeddingConfig{BaseURL: srv.URL})
	_, err := svc.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestEmbedBatch_PreservesOrderAndReportsIndex(t *testing.T) {
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		prompts = append(prompts, body.Prompt)
		if body.Prompt == "bad" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"embedding":[0.1]}`))
	}))
	defer srv.Close()

	svc := NewEmbeddingService(EmbeddingConfig{BaseURL: srv.URL})

	vecs, err := svc.EmbedBatch(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, []string{"one", "two"}, prompts)

	_, err = svc.EmbedBatch(context.Background(), []string{"one", "bad", "never"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed text 1")
	// The batch aborts at the first failure.
	assert.NotContains(t, prompts, "never")
}

func TestEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(EmbeddingConfig{})
	assert.Equal(t, DefaultEmbeddingModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
}

func TestChat_SendsSystemAndUserMessages(t *testing.T) {
	var body chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"message":{"role":"assistant","content":"Paris."},"done":true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "mistral"})
	answer, err := svc.Chat(context.Background(), "capital of France?", driven.ChatOptions{
		System: "answer from context only",
	})
	require.NoError(t, err)

	assert.Equal(t, "Paris.", answer)
	assert.False(t, body.Stream)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "user", body.Messages[1].Role)
	assert.Equal(t, "capital of France?", body.Messages[1].Content)
}

func TestChat_OmitsSystemMessageWhenEmpty(t *testing.T) {
	var body chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"message":{"content":"hi"},"done":true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := svc.Chat(context.Background(), "hello", driven.ChatOptions{})
	require.NoError(t, err)

	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
}

func TestChat_PerCallModelOverride(t *testing.T) {
	var body chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"message":{"content":"ok"},"done":true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "default-model"})
	_, err := svc.Chat(context.Background(), "hi", driven.ChatOptions{Model: "other-model"})
	require.NoError(t, err)
	assert.Equal(t, "other-model", body.Model)
}

func TestChatStream_AssemblesFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)

		w.Write([]byte(`{"message":{"content":"Par"},"done":false}` + "\n"))
		w.Write([]byte("\n"))
		w.Write([]byte(`{"message":{"content":"is."},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":""},"done":true}` + "\n"))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})

	var sb strings.Builder
	err := svc.ChatStream(context.Background(), "capital?", driven.ChatOptions{}, func(fragment string) error {
		sb.WriteString(fragment)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris.", sb.String())
}

func TestChatStream_MissingDoneMarkerIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"partial"},"done":false}` + "\n"))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	err := svc.ChatStream(context.Background(), "q", driven.ChatOptions{}, func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without done marker")
}

func TestChatStream_CallbackErrorStopsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"a"},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":"b"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})
	calls := 0
	err := svc.ChatStream(context.Background(), "q", driven.ChatOptions{}, func(string) error {
		calls++
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	svc := NewEmbeddingService(EmbeddingConfig{BaseURL: srv.URL})
	assert.NoError(t, svc.Ping(context.Background()))
}
