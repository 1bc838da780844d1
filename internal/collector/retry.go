package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"HedgeMirror/internal/model"
)

// RetryingSource retries a failed fetch with exponential backoff.
type RetryingSource struct {
	Source     PriceSource
	MaxRetries int
	Backoff    time.Duration // first delay, doubled per attempt
	Logger     zerolog.Logger
}

// NewRetryingSource wraps src; maxRetries 0 disables retrying.
func NewRetryingSource(src PriceSource, maxRetries int, logger zerolog.Logger) *RetryingSource {
	return &RetryingSource{Source: src, MaxRetries: maxRetries, Backoff: time.Second, Logger: logger}
}

func (r *RetryingSource) Name() string { return r.Source.Name() }

func (r *RetryingSource) Fetch(ctx context.Context, symbols []string, start, end time.Time, interval model.Interval) (model.PriceTable, error) {
	var lastErr error
	for i := 0; i <= r.MaxRetries; i++ {
		table, err := r.Source.Fetch(ctx, symbols, start, end, interval)
		if err == nil {
			return table, nil
		}
		lastErr = err
		if i == r.MaxRetries {
			break
		}
		backoff := r.Backoff * time.Duration(1<<uint(i))
		r.Logger.Warn().Err(err).
			Int("attempt", i+1).
			Int("max_attempts", r.MaxRetries+1).
			Dur("backoff", backoff).
			Msg("price fetch failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", r.MaxRetries+1, lastErr)
}
