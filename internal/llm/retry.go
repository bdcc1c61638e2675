package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultMaxRetries is the attempt budget used when none is configured.
const DefaultMaxRetries = 3

// connectBackoff is the delay before re-attempting after a connection
// failure: 1s, 2s, 4s, ...
func connectBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// timeoutBackoff is the delay before re-attempting after a timeout:
// 1.5s, 3s, 6s, ...
func timeoutBackoff(attempt int) time.Duration {
	return connectBackoff(attempt) * 3 / 2
}

// Retryer wraps a Generator with bounded exponential-backoff retry for
// connectivity and timeout failures. Any other error propagates
// immediately.
//
// For streaming calls a retry reissues generation from scratch;
// fragments already forwarded to the consumer stay forwarded, so a
// consumer may observe partial content from a failed attempt followed
// by the full content of the retried one.
type Retryer struct {
	Gen        Generator
	MaxRetries int

	// Sleep is the backoff wait. Overridable in tests; nil means a
	// context-aware real sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryer wraps gen with the default retry budget.
func NewRetryer(gen Generator) *Retryer {
	return &Retryer{Gen: gen, MaxRetries: DefaultMaxRetries}
}

func (r *Retryer) maxRetries() int {
	if r.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return r.MaxRetries
}

func (r *Retryer) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryDelay returns the backoff delay for a retryable error, or
// ok=false when the error must propagate immediately.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var connErr *ConnectError
	if errors.As(err, &connErr) {
		return connectBackoff(attempt), true
	}
	var toErr *TimeoutError
	if errors.As(err, &toErr) {
		return timeoutBackoff(attempt), true
	}
	return 0, false
}

func (r *Retryer) do(ctx context.Context, call func() error) error {
	maxAttempts := r.maxRetries()
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = call()
		if lastErr == nil {
			return nil
		}
		delay, retryable := retryDelay(lastErr, attempt)
		if !retryable || attempt == maxAttempts-1 {
			return lastErr
		}
		log.Warn().
			Err(lastErr).
			Int("attempt", attempt+1).
			Int("max_retries", maxAttempts).
			Dur("backoff", delay).
			Msg("generation failed, retrying")
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}

// Generate executes a batch generation call with retry.
func (r *Retryer) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var out string
	err := r.do(ctx, func() error {
		var callErr error
		out, callErr = r.Gen.Generate(ctx, req)
		return callErr
	})
	return out, err
}

// GenerateStream executes a streaming generation call with retry.
func (r *Retryer) GenerateStream(ctx context.Context, req GenerateRequest, fn func(fragment string) error) error {
	return r.do(ctx, func() error {
		return r.Gen.GenerateStream(ctx, req, fn)
	})
}
