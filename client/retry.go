package client

import (
	"context"
	"errors"
	"net"
	"time"
)

// RetryConfig controls exponential-backoff retries of transient failures.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// BackoffMultiplier scales the delay after each retry.
	BackoffMultiplier float64

	// Retryable decides whether an error is worth retrying; nil uses
	// isRetryableError.
	Retryable func(error) bool

	// OnRetry, if set, is called before each retry.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig returns the retry policy used when none is configured.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
		Retryable:         isRetryableError,
	}
}

// isRetryableError reports whether err looks transient: network timeouts,
// connection failures, and DNS errors.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *retryableStatusError
	if errors.As(err, &statusErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// isRetryableHTTPStatus reports whether an HTTP status is worth retrying.
func isRetryableHTTPStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// withRetry runs fn, retrying per cfg until it succeeds, the error is not
// retryable, retries are exhausted, or ctx is done.
func withRetry(ctx context.Context, cfg *RetryConfig, fn func() error) error {
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = isRetryableError
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= cfg.MaxRetries || !retryable(err) {
			return err
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.BackoffMultiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
