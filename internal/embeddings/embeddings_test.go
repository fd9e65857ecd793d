package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/candidate-concierge/concierge/internal/config"
)

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := config.DefaultConfig().Extractive
	if _, err := New(cfg); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured without OPENAI_API_KEY, got %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "k")
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Dimensions() != 1536 {
		t.Errorf("dimensions = %d, want 1536", e.Dimensions())
	}
	if e.Name() != "openai/text-embedding-3-small" {
		t.Errorf("name = %q", e.Name())
	}
}

func TestNewOllamaDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	cfg := config.DefaultConfig().Extractive
	cfg.EmbeddingProvider = config.ProviderOllama
	cfg.EmbeddingModel = ""

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Name() != "ollama/nomic-embed-text" {
		t.Errorf("name = %q", e.Name())
	}
	if e.Dimensions() != 768 {
		t.Errorf("dimensions = %d, want 768", e.Dimensions())
	}
}

func TestNewUnsupported(t *testing.T) {
	cfg := config.DefaultConfig().Extractive
	cfg.EmbeddingProvider = config.ProviderAnthropic
	if _, err := New(cfg); err == nil {
		t.Error("expected error for anthropic embeddings")
	}
}

func TestOllamaEmbed(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		var resp ollamaEmbedResponse
		for _, in := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(len(in)), 1})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 2, srv.URL+"/")
	out, err := e.Embed(context.Background(), []string{"ab", "abcd"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 2 || out[0][0] != 2 || out[1][0] != 4 {
		t.Errorf("unexpected vectors %v", out)
	}
	if requests != 1 {
		t.Errorf("expected one batched request, got %d", requests)
	}
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder("m", 1, srv.URL).Embed(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Error("expected error when fewer vectors than texts come back")
	}
}

// countingEmbedder counts calls to the wrapped provider.
type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	c.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}
func (c *countingEmbedder) Dimensions() int { return 1 }
func (c *countingEmbedder) Name() string    { return "counting" }

func TestCachedEmbedder(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{}
	c := NewCached(inner, 2)

	for range 3 {
		if _, err := c.Embed(ctx, []string{"what skills?"}); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("repeated question embedded %d times, want 1", inner.calls)
	}

	c.Embed(ctx, []string{"where?"})
	c.Embed(ctx, []string{"contact?"})
	if c.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", c.Len())
	}
	c.Embed(ctx, []string{"what skills?"})
	if inner.calls != 4 {
		t.Errorf("evicted entry should be embedded again, calls = %d", inner.calls)
	}

	c.Embed(ctx, []string{"a", "b"})
	c.Embed(ctx, []string{"a", "b"})
	if inner.calls != 6 {
		t.Errorf("batches should bypass the cache, calls = %d", inner.calls)
	}
	if c.Name() != "counting" || c.Dimensions() != 1 {
		t.Error("wrapper should expose the inner embedder's name and size")
	}
}

func TestOllamaEmbedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder("missing", 2, srv.URL).Embed(context.Background(), []string{"x"})
	if err == nil {
		t.Error("expected error for 404")
	}
}
