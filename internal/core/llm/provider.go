package llm

import (
	"context"
	"fmt"

	cfg "github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/core"
)

// New builds the provider named by LLM_PROVIDER wrapped in a circuit breaker.
func New(ctx context.Context, cfg *cfg.Config) (*BreakerLLM, error) {
	var provider core.LLMProvider

	switch cfg.LLMProvider {
	case "", "bedrock":
		awsCfg, err := cfg.AWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		provider = NewBedrockLLM(awsCfg, cfg.LLMModel)
	case "gemini":
		g, err := NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize gemini: %w", err)
		}
		provider = g
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}

	bc := DefaultBreakerConfig
	if cfg.LLMTimeout > 0 {
		bc.CallTimeout = cfg.LLMTimeout
	}
	return NewBreakerLLM(provider, bc), nil
}
