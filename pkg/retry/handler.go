package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/rohmanhakim/csp-hasher/pkg/failure"
	"github.com/rohmanhakim/csp-hasher/pkg/timeutil"
)

// Retry executes fn up to MaxAttempts times, waiting an exponential backoff
// between attempts. Only errors of SeverityRecoverable are retried; a fatal
// error is returned as is. Cancelling ctx stops the wait between attempts.
//
// Type parameter T represents the return type of the function being retried.
func Retry[T any](
	ctx context.Context,
	retryParam RetryParam,
	fn func() (T, failure.ClassifiedError),
) (T, failure.ClassifiedError) {
	var zero T

	if retryParam.MaxAttempts < 1 {
		return zero, &RetryError{
			Message:   "max attempt cannot be 0",
			Cause:     ErrZeroAttempt,
			Retryable: false,
		}
	}

	var lastErr failure.ClassifiedError
	for attempt := 1; attempt <= retryParam.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if err.Severity() != failure.SeverityRecoverable {
			return zero, err
		}
		if attempt == retryParam.MaxAttempts {
			break
		}

		timer := time.NewTimer(timeutil.ExponentialBackoffDelay(attempt, retryParam.BackoffParam))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &RetryError{
				Message:   fmt.Sprintf("stopped after %d attempts: %v", attempt, ctx.Err()),
				Cause:     ErrCancelled,
				Retryable: false,
				Last:      lastErr,
			}
		case <-timer.C:
		}
	}

	return zero, &RetryError{
		Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", retryParam.MaxAttempts, lastErr),
		Cause:     ErrExhaustedAttempts,
		Retryable: false,
		Last:      lastErr,
	}
}
