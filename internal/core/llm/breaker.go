package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/metrics"
)

type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	CallTimeout      time.Duration
}

var DefaultBreakerConfig = BreakerConfig{
	FailureThreshold: 5,
	OpenTimeout:      30 * time.Second,
	CallTimeout:      60 * time.Second,
}

// BreakerLLM bounds each call with a timeout and stops calling a failing
// provider until the breaker half-opens. Every failure wraps core.ErrModelUnavailable.
type BreakerLLM struct {
	next    core.LLMProvider
	cb      *gobreaker.CircuitBreaker[string]
	timeout time.Duration
}

var _ core.LLMProvider = (*BreakerLLM)(nil)

func NewBreakerLLM(next core.LLMProvider, cfg BreakerConfig) *BreakerLLM {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig.FailureThreshold
	}
	name := next.Name()
	settings := gobreaker.Settings{
		Name:        "llm-" + name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("llm circuit breaker state change")
			if to == gobreaker.StateOpen {
				metrics.LLMCircuitState.WithLabelValues(name).Set(1)
			} else {
				metrics.LLMCircuitState.WithLabelValues(name).Set(0)
			}
		},
	}
	return &BreakerLLM{
		next:    next,
		cb:      gobreaker.NewCircuitBreaker[string](settings),
		timeout: cfg.CallTimeout,
	}
}

func (b *BreakerLLM) Name() string { return b.next.Name() }

func (b *BreakerLLM) Generate(ctx context.Context, systemPrompt, userPrompt string, opts core.GenerateOptions) (string, error) {
	out, err := b.cb.Execute(func() (string, error) {
		callCtx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return b.next.Generate(callCtx, systemPrompt, userPrompt, opts)
	})

	switch {
	case err == nil:
		metrics.LLMRequestsTotal.WithLabelValues(b.Name(), "ok").Inc()
		return out, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.LLMRequestsTotal.WithLabelValues(b.Name(), "rejected").Inc()
		return "", fmt.Errorf("%s: %w: %w", b.Name(), core.ErrModelUnavailable, err)
	default:
		metrics.LLMRequestsTotal.WithLabelValues(b.Name(), "error").Inc()
		return "", fmt.Errorf("%s: %w: %w", b.Name(), core.ErrModelUnavailable, err)
	}
}

// State reports the breaker state for health output.
func (b *BreakerLLM) State() string {
	return b.cb.State().String()
}
