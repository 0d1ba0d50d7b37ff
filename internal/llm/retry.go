package llm

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ecodeclub/ekit/retry"
)

type attemptFunc func(ctx context.Context) (*CompletionResponse, error)

// call runs attempt under the per-attempt timeout, retrying transient failures
// with exponential backoff plus jitter. A successful first attempt sends exactly one request.
func (c *Config) call(ctx context.Context, model string, statusOf func(error) int, attempt attemptFunc) (*CompletionResponse, error) {
	var strategy *retry.ExponentialBackoffRetryStrategy
	if c.MaxRetries > 0 {
		s, err := retry.NewExponentialBackoffRetryStrategy(c.initialBackoff(), c.maxBackoff(), int32(c.MaxRetries))
		if err != nil {
			return nil, fmt.Errorf("invalid retry configuration: %w", err)
		}
		strategy = s
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempts := 1; ; attempts++ {
		resp, err := c.attemptOnce(ctx, attempt)
		if err == nil {
			resp.Attempts = attempts
			return resp, nil
		}

		status, retryable := classify(err, statusOf)
		callErr := &APICallError{
			Provider:   c.Provider,
			Model:      model,
			StatusCode: status,
			Attempts:   attempts,
			Retryable:  retryable,
			Message:    "completion request failed",
			Cause:      err,
		}
		if !retryable || strategy == nil || ctx.Err() != nil {
			return nil, callErr
		}

		delay, ok := strategy.Next()
		if !ok {
			return nil, callErr
		}
		delay = withJitter(delay)

		c.logger().Warn("retrying completion request",
			"provider", c.Provider,
			"model", model,
			"attempt", attempts,
			"status", status,
			"delay", delay,
			"error", err)

		if timer == nil {
			timer = time.NewTimer(delay)
		} else {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			callErr.Cause = ctx.Err()
			callErr.Retryable = false
			return nil, callErr
		case <-timer.C:
		}
	}
}

func (c *Config) attemptOnce(ctx context.Context, attempt attemptFunc) (*CompletionResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()
	return attempt(attemptCtx)
}

// withJitter adds a random delay of up to half of d.
func withJitter(d time.Duration) time.Duration {
	if half := d / 2; half > 0 {
		return d + rand.N(half)
	}
	return d
}

func (c *Config) initialBackoff() time.Duration {
	if c.InitialBackoff <= 0 {
		return DefaultInitialBackoff
	}
	return c.InitialBackoff
}

func (c *Config) maxBackoff() time.Duration {
	return max(c.MaxBackoff, c.initialBackoff())
}
