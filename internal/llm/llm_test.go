package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/candidate-concierge/concierge/internal/config"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func generative(provider config.ProviderType) config.GenerativeConfig {
	cfg := config.DefaultConfig().Generative
	cfg.Provider = provider
	cfg.Model = config.DefaultModel(provider)
	cfg.RPM = 0
	return cfg
}

func TestFactoryReturnsNotConfiguredForMissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	for _, p := range []config.ProviderType{config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderGoogle} {
		_, err := NewProvider(context.Background(), generative(p))
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("provider %q: expected ErrNotConfigured, got %v", p, err)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), generative("unknown"))
	if err == nil {
		t.Error("expected error for unknown provider")
	}
	if errors.Is(err, ErrNotConfigured) {
		t.Error("unknown provider should not be reported as unconfigured")
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider(context.Background(), generative(config.ProviderOllama))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestFactoryCreatesProviders(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("GOOGLE_API_KEY", "test-key")

	for _, p := range []config.ProviderType{config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderGoogle} {
		provider, err := NewProvider(context.Background(), generative(p))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		if provider.Name() != string(p) {
			t.Errorf("expected name %q, got %q", p, provider.Name())
		}
	}
}

func TestFactoryWrapsRateLimiter(t *testing.T) {
	cfg := generative(config.ProviderOllama)
	cfg.RPM = 30
	provider, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := provider.(*RateLimitedProvider); !ok {
		t.Errorf("expected *RateLimitedProvider, got %T", provider)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected wrapped name 'ollama', got %q", provider.Name())
	}
}

func TestAnthropicSplitsSystemPrompt(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"Frank is based in Toronto."}],
			"model":"claude-haiku-4-5-20251001","stop_reason":"end_turn",
			"usage":{"input_tokens":120,"output_tokens":8}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("k", "claude-haiku-4-5-20251001")
	p.url = srv.URL

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "where is he?"},
		},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.System != "be brief" {
		t.Errorf("system = %q", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.MaxTokens != 256 {
		t.Errorf("max_tokens = %d", got.MaxTokens)
	}
	if resp.Content != "Frank is based in Toronto." || resp.InputTokens != 120 {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Cost() <= 0 {
		t.Errorf("expected a priced response, got %f", resp.Cost())
	}
}

func TestOllamaErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("code = %d", se.Code)
	}
}

func TestOllamaCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"model":"llama3","done_reason":"stop","prompt_eval_count":5,"eval_count":1}`))
	}))
	defer srv.Close()

	resp, err := NewOllamaProvider(srv.URL, "llama3").Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok" || resp.OutputTokens != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	resp, err := rl.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hello"}}}

	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, req); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// The third would have to wait 30s, well past the deadline.
	if _, err := rl.Complete(ctx, req); err == nil {
		t.Error("expected error due to rate limiting + context timeout")
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", mock.CallCount())
	}
}

func TestEstimateCostKnownModels(t *testing.T) {
	for _, model := range []string{"claude-haiku-4-5-20251001", "gpt-3.5-turbo", "gemini-2.5-flash"} {
		if cost := EstimateCost(model, 1000, 500); cost <= 0 {
			t.Errorf("EstimateCost(%q) = %f, expected > 0", model, cost)
		}
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	if cost := EstimateCost("unknown-model", 1000, 500); cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}

func TestEstimateCostAccuracy(t *testing.T) {
	// gpt-3.5-turbo: $0.50/1M input, $1.50/1M output
	cost := EstimateCost("gpt-3.5-turbo", 1_000_000, 1_000_000)
	if cost < 1.99 || cost > 2.01 {
		t.Errorf("expected cost ~$2.00, got $%.2f", cost)
	}
}

func TestEstimateCostDatedSnapshots(t *testing.T) {
	if got, want := EstimateCost("gpt-3.5-turbo-0125", 1000, 500), EstimateCost("gpt-3.5-turbo", 1000, 500); got != want {
		t.Errorf("dated snapshot cost = %f, want %f", got, want)
	}
	// gpt-4o-mini must not be priced as gpt-4o.
	if got, want := EstimateCost("gpt-4o-mini-2024-07-18", 1_000_000, 0), 0.15; got < want-0.001 || got > want+0.001 {
		t.Errorf("gpt-4o-mini cost = %f, want %f", got, want)
	}
}

func TestFillUsage(t *testing.T) {
	req := CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []Message{{Role: RoleSystem, Content: "12345678"}, {Role: RoleUser, Content: "1234"}},
	}
	resp := &CompletionResponse{Content: "abcdefgh"}
	resp.FillUsage(req)
	if resp.Model != "gpt-3.5-turbo" || resp.InputTokens != 3 || resp.OutputTokens != 2 {
		t.Errorf("unexpected usage %+v", resp)
	}

	reported := &CompletionResponse{Content: "x", Model: "gpt-4o", InputTokens: 50, OutputTokens: 7}
	reported.FillUsage(req)
	if reported.Model != "gpt-4o" || reported.InputTokens != 50 || reported.OutputTokens != 7 {
		t.Errorf("reported usage overwritten: %+v", reported)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
		{"a longer piece of text that has more characters", 11},
		{"Résumé", 1},
		{"ééééééééé", 2},
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
