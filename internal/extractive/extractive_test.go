package extractive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/config"
	"github.com/candidate-concierge/concierge/internal/embeddings"
	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/progress"
	"github.com/candidate-concierge/concierge/internal/vectordb"
)

// bagOfWords embeds text as normalised word-hash counts.
type bagOfWords struct{}

func (bagOfWords) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 256)
		for _, w := range strings.Fields(strings.ToLower(strings.Trim(text, ".?"))) {
			h := 7
			for _, c := range strings.Trim(w, ".,;:()?") {
				h = (h*31 + int(c)) % 256
			}
			vec[h]++
		}
		out[i] = vec
	}
	return out, nil
}
func (bagOfWords) Dimensions() int { return 256 }
func (bagOfWords) Name() string    { return "bow" }

func TestNewDisabled(t *testing.T) {
	p, err := New(context.Background(), config.DefaultConfig().Extractive, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewHuggingFace(t *testing.T) {
	cfg := config.DefaultConfig().Extractive
	cfg.Provider = config.ExtractiveHuggingFace
	p, err := New(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "huggingface/deepset/minilm-uncased-squad2", p.Name())
}

func TestNewSemanticWithoutCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	kb, err := knowledge.Default(zap.NewNop())
	require.NoError(t, err)

	cfg := config.DefaultConfig().Extractive
	cfg.Provider = config.ExtractiveSemantic
	p, err := New(context.Background(), cfg, kb, nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, embeddings.ErrNotConfigured)
}

func TestNewSemanticBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()
	t.Setenv("OLLAMA_HOST", srv.URL)

	kb, err := knowledge.Default(zap.NewNop())
	require.NoError(t, err)

	cfg := config.DefaultConfig().Extractive
	cfg.Provider = config.ExtractiveSemantic
	cfg.EmbeddingProvider = config.ProviderOllama
	cfg.EmbeddingModel = "nomic-embed-text"
	cfg.IndexDir = t.TempDir()
	p, err := New(context.Background(), cfg, kb, nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewUnknown(t *testing.T) {
	cfg := config.DefaultConfig().Extractive
	cfg.Provider = "bert"
	_, err := New(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestHuggingFaceAnswer(t *testing.T) {
	var got qaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deepset/minilm-uncased-squad2", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"answer":" 3+ years ","score":0.83,"start":10,"end":18}`))
	}))
	defer srv.Close()

	p := NewHuggingFace("deepset/minilm-uncased-squad2", "tok")
	p.baseURL = srv.URL + "/"

	ans, err := p.Answer(context.Background(), "how much azure", "Frank has 3+ years of Azure experience.")
	require.NoError(t, err)
	assert.Equal(t, "3+ years", ans.Text)
	assert.InDelta(t, 0.83, ans.Score, 1e-9)
	assert.Equal(t, "how much azure", got.Inputs.Question)
	assert.Contains(t, got.Inputs.Context, "Azure experience")
}

func TestHuggingFaceListResponse(t *testing.T) {
	r, err := decodeQAResult([]byte(`[{"answer":"Toronto","score":0.9},{"answer":"Canada","score":0.1}]`))
	require.NoError(t, err)
	assert.Equal(t, "Toronto", r.Answer)

	_, err = decodeQAResult([]byte(`[]`))
	assert.Error(t, err)
}

func TestHuggingFaceModelLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Model is currently loading"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHuggingFace("m", "")
	p.baseURL = srv.URL + "/"
	_, err := p.Answer(context.Background(), "q", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHuggingFaceToken(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "")
	t.Setenv("HUGGINGFACEHUB_API_TOKEN", "")
	t.Setenv("HF_TOKEN", "fallback")
	assert.Equal(t, "fallback", HuggingFaceToken())
}

func TestSemanticBuildsAndAnswers(t *testing.T) {
	ctx := context.Background()
	kb, err := knowledge.Default(nil)
	require.NoError(t, err)

	store, err := vectordb.NewChromemStore(bagOfWords{})
	require.NoError(t, err)

	p, err := NewSemantic(ctx, store, kb, "", nil)
	require.NoError(t, err)
	assert.Equal(t, len(kb.Passages()), store.Count())

	ans, err := p.Answer(ctx, "Frank holds the Certified Scrum Master certification from Scrum Alliance", "")
	require.NoError(t, err)
	assert.Contains(t, ans.Text, "Certified Scrum Master")
	assert.Greater(t, ans.Score, 0.7)
}

func TestSemanticReusesPersistedIndex(t *testing.T) {
	ctx := context.Background()
	kb, err := knowledge.Default(nil)
	require.NoError(t, err)
	dir := t.TempDir()

	store, _ := vectordb.NewChromemStore(bagOfWords{})
	var lines strings.Builder
	require.NoError(t, BuildIndex(ctx, store, kb, &progress.LineReporter{Task: "Indexing", Out: &lines}))
	require.NoError(t, store.Persist(ctx, dir))
	assert.Contains(t, lines.String(), "role-0")

	fresh, _ := vectordb.NewChromemStore(bagOfWords{})
	_, err = NewSemantic(ctx, fresh, kb, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, store.Count(), fresh.Count())
}
