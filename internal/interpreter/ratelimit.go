package interpreter

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimit caps requests sent to one provider.
type RateLimit struct {
	Enabled      bool    `mapstructure:"enabled"`
	ReqPerMinute float64 `mapstructure:"req_per_minute"`
	// Burst defaults to a tenth of the per-minute rate, at least 1.
	Burst int `mapstructure:"burst"`
}

// WithRateLimit wraps next so that each Complete first waits for a token.
// A disabled or non-positive limit returns next unchanged.
func WithRateLimit(next Interpreter, limit RateLimit) Interpreter {
	if !limit.Enabled || limit.ReqPerMinute <= 0 {
		return next
	}
	burst := limit.Burst
	if burst <= 0 {
		burst = int(limit.ReqPerMinute / 10)
		if burst < 1 {
			burst = 1
		}
	}
	return &limited{
		Interpreter: next,
		limiter:     rate.NewLimiter(rate.Limit(limit.ReqPerMinute/60.0), burst),
	}
}

type limited struct {
	Interpreter
	limiter *rate.Limiter
}

func (l *limited) Complete(ctx context.Context, systemPrompt, userText string, opts Options) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait for %s: %w", l.Name(), err)
	}
	return l.Interpreter.Complete(ctx, systemPrompt, userText, opts)
}
