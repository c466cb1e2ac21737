package core

import "context"

// GenerateOptions are the sampling parameters passed to a model invocation.
type GenerateOptions struct {
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// DefaultGenerateOptions match the settings used for resume field extraction.
var DefaultGenerateOptions = GenerateOptions{MaxTokens: 4000, Temperature: 0.1, TopP: 0.9}

type LLMProvider interface {
	Name() string
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)
}
