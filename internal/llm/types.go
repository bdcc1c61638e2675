package llm

import (
	"context"
	"time"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultTimeout = 120 * time.Second
)

// Config is Ollama API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// GenerateRequest is a single text-generation request.
type GenerateRequest struct {
	Model       string
	Prompt      string
	System      string
	Temperature float64
	MaxTokens   int
}

// ModelInfo describes one installed model.
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

// Generator produces text for a prompt, either in one shot or as a
// stream of fragments whose concatenation is the full response.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req GenerateRequest, fn func(fragment string) error) error
}
