package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by NewProvider when credentials for the
// requested provider are missing.
var ErrNotConfigured = errors.New("provider not configured")

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
