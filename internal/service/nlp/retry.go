package nlp

import (
	"context"
	"fmt"
	"time"
)

// Policy is a bounded retry with fixed delay. It is deliberately decoupled
// from any transport so callers can test their retry behavior without a
// network.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn until it succeeds, attempts are exhausted, or the context is
// canceled. The last error is returned wrapped with the attempt count.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
