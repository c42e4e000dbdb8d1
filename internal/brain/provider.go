// Package brain talks to external reasoning services. Providers share
// one interface so curation strategies never care which service backs
// them.
package brain

import (
	"context"
)

// Provider is the interface for reasoning-service providers
type Provider interface {
	// Name returns the provider name (e.g., "anthropic", "openai")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to a reasoning provider
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Usage is the token usage reported by the service for one call
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the reasoning provider's reply
type Response struct {
	Content string
	Model   string
	Usage   Usage
}
