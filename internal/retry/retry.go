// Package retry provides the bounded retry executor and the advisory
// timeout used around every format-candidate load attempt.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/expozr/navigator/pkg/types"
)

// Op is one retryable unit of work.
type Op func(ctx context.Context) (any, error)

// Delay returns the wait before attempt n (1-based): delay * multiplier^(n-2).
// There is no wait before the first attempt, and the first retry waits the
// base delay. Multipliers below 1 are treated as 1 (fixed delay).
func Delay(delay time.Duration, multiplier float64, attempt int) time.Duration {
	if attempt <= 1 || delay <= 0 {
		return 0
	}
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	return time.Duration(float64(delay) * math.Pow(multiplier, float64(attempt-2)))
}

// Do runs op up to attempts times, waiting Delay between tries. On
// exhaustion the last observed error is returned unchanged so the caller
// sees the true root cause. A cancelled context stops further attempts and
// returns the context error.
func Do(ctx context.Context, op Op, attempts int, delay time.Duration, multiplier float64) (any, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if wait := Delay(delay, multiplier, attempt); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// WithTimeout races op against a timer and returns a *types.LoadTimeoutError
// when the timer elapses first. The timeout is advisory: op keeps running on
// its own goroutine with the caller's context and may still complete or
// mutate shared state after the caller has given up. Callers that need hard
// cancellation must put a deadline on ctx themselves.
// A non-positive timeout means no limit.
func WithTimeout(ctx context.Context, name string, timeout time.Duration, op Op) (any, error) {
	if timeout <= 0 {
		return op(ctx)
	}

	type outcome struct {
		result any
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		result, err := op(ctx)
		done <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.result, out.err
	case <-timer.C:
		return nil, &types.LoadTimeoutError{Op: name, Timeout: timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
