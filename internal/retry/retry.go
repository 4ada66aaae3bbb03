package retry

import (
	"context"
	"fmt"
	"time"

	"canarycast/internal/errors"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultConfig returns sensible retry defaults for local storage operations
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2.0,
	}
}

// QuickConfig returns faster retry settings for interactive operations
func QuickConfig() *Config {
	return &Config{
		MaxAttempts: 2,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    500 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// WithRetry executes a function with exponential backoff retry logic.
// Only errors classified as retryable (sqlite lock contention, mostly) are
// retried; quota and validation failures return immediately.
func WithRetry(ctx context.Context, config *Config, operation string, fn func() error) error {
	if config == nil {
		config = DefaultConfig()
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if castErr, ok := err.(*errors.CastError); ok {
			if !castErr.IsRetryable() {
				return castErr
			}

			// Use error-specific retry delay if available
			if retryAfter := castErr.GetRetryAfter(); retryAfter > 0 {
				if attempt < config.MaxAttempts {
					select {
					case <-time.After(retryAfter):
						continue
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				continue
			}
		}

		// Don't sleep after the last attempt
		if attempt >= config.MaxAttempts {
			break
		}

		delay := time.Duration(float64(config.BaseDelay) * pow(config.Multiplier, float64(attempt-1)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if castErr, ok := lastErr.(*errors.CastError); ok {
		castErr.Message = fmt.Sprintf("%s (failed after %d attempts)", castErr.Message, config.MaxAttempts)
		return castErr
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, config.MaxAttempts, lastErr)
}

// WithQuickRetry is a convenience function for interactive operations that need fast retry
func WithQuickRetry(ctx context.Context, operation string, fn func() error) error {
	return WithRetry(ctx, QuickConfig(), operation, fn)
}

// WithDefaultRetry is a convenience function using default retry settings
func WithDefaultRetry(ctx context.Context, operation string, fn func() error) error {
	return WithRetry(ctx, DefaultConfig(), operation, fn)
}

// pow is a simple integer power function for exponential backoff
func pow(base float64, exp float64) float64 {
	result := 1.0
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	return result
}
