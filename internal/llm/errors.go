package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ConnectError marks a failure to reach the generation backend.
// Calls failing this way are safe to retry.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string { return fmt.Sprintf("ollama connect: %v", e.Err) }

func (e *ConnectError) Unwrap() error { return e.Err }

// TimeoutError marks a generation call that exceeded its deadline.
// Calls failing this way are safe to retry.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("ollama timeout: %v", e.Err) }

func (e *TimeoutError) Unwrap() error { return e.Err }

// classifyTransport maps low-level transport failures onto the two
// retryable error classes. Anything else passes through unchanged.
func classifyTransport(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ConnectError{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &ConnectError{Err: err}
	}

	return err
}
