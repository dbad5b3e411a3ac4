package providers

import (
	"context"
)

// Config represents a single completion request to an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// JSON asks the provider to constrain its answer to a JSON document.
	JSON bool
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}
