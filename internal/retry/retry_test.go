package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/expozr/navigator/pkg/types"
)

func TestDelay(t *testing.T) {
	tests := []struct {
		name       string
		delay      time.Duration
		multiplier float64
		attempt    int
		want       time.Duration
	}{
		{"no wait before first attempt", time.Second, 2.0, 1, 0},
		{"first retry waits the base delay", 100 * time.Millisecond, 2.0, 2, 100 * time.Millisecond},
		{"third attempt", 100 * time.Millisecond, 2.0, 3, 200 * time.Millisecond},
		{"fourth attempt", 100 * time.Millisecond, 2.0, 4, 400 * time.Millisecond},
		{"fixed delay", 100 * time.Millisecond, 1.0, 4, 100 * time.Millisecond},
		{"multiplier below one clamped", 100 * time.Millisecond, 0.5, 3, 100 * time.Millisecond},
		{"zero delay", 0, 2.0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Delay(tt.delay, tt.multiplier, tt.attempt); got != tt.want {
				t.Fatalf("Delay = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestDoStopsOnSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func(context.Context) (any, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}, 5, 0, 1.0)

	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != "ok" {
		t.Fatalf("result = %v", result)
	}
	if calls != 2 {
		t.Fatalf("op called %d times; want 2", calls)
	}
}

func TestDoReturnsLastErrorUnchanged(t *testing.T) {
	last := errors.New("attempt 3 failed")
	calls := 0
	_, err := Do(context.Background(), func(context.Context) (any, error) {
		calls++
		if calls == 3 {
			return nil, last
		}
		return nil, errors.New("earlier failure")
	}, 3, 0, 1.0)

	if err != last {
		t.Fatalf("Do error = %v; want the final attempt's error", err)
	}
	if calls != 3 {
		t.Fatalf("op called %d times; want 3", calls)
	}
}

func TestDoBackoffTiming(t *testing.T) {
	var gaps []time.Duration
	var prev time.Time

	start := time.Now()
	_, _ = Do(context.Background(), func(context.Context) (any, error) {
		now := time.Now()
		if !prev.IsZero() {
			gaps = append(gaps, now.Sub(prev))
		}
		prev = now
		return nil, errors.New("always fails")
	}, 3, 30*time.Millisecond, 2.0)

	if len(gaps) != 2 {
		t.Fatalf("observed %d gaps; want 2", len(gaps))
	}
	// Expected waits: 30ms before attempt 2, 60ms before attempt 3.
	if gaps[0] < 30*time.Millisecond {
		t.Fatalf("first gap %v; want >= 30ms", gaps[0])
	}
	if gaps[1] < 60*time.Millisecond {
		t.Fatalf("second gap %v; want >= 60ms", gaps[1])
	}
	if gaps[1] < gaps[0] {
		t.Fatalf("gaps did not grow: %v then %v", gaps[0], gaps[1])
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("retries took %v; backoff math is off", elapsed)
	}
}

func TestDoRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, func(context.Context) (any, error) {
		calls++
		cancel()
		return nil, errors.New("fails")
	}, 10, time.Hour, 1.0)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do error = %v; want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("op called %d times after cancel; want 1", calls)
	}
}

func TestWithTimeoutCompletesInTime(t *testing.T) {
	result, err := WithTimeout(context.Background(), "fast op", time.Second,
		func(context.Context) (any, error) { return 42, nil })
	if err != nil {
		t.Fatalf("WithTimeout: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %v", result)
	}
}

func TestWithTimeoutExpires(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	_, err := WithTimeout(context.Background(), "slow op", 20*time.Millisecond,
		func(context.Context) (any, error) {
			<-release
			return nil, nil
		})

	var timeoutErr *types.LoadTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("WithTimeout error = %v; want *LoadTimeoutError", err)
	}
	if timeoutErr.Op != "slow op" {
		t.Fatalf("Op = %q", timeoutErr.Op)
	}
	if timeoutErr.Timeout != 20*time.Millisecond {
		t.Fatalf("Timeout = %v", timeoutErr.Timeout)
	}
}

func TestWithTimeoutZeroMeansNoLimit(t *testing.T) {
	result, err := WithTimeout(context.Background(), "op", 0,
		func(context.Context) (any, error) {
			time.Sleep(10 * time.Millisecond)
			return "done", nil
		})
	if err != nil || result != "done" {
		t.Fatalf("WithTimeout = %v, %v; want done, nil", result, err)
	}
}

func TestWithTimeoutDoesNotCancelOp(t *testing.T) {
	sawCancel := make(chan bool, 1)
	release := make(chan struct{})

	_, err := WithTimeout(context.Background(), "op", 10*time.Millisecond,
		func(ctx context.Context) (any, error) {
			<-release
			sawCancel <- ctx.Err() != nil
			return nil, nil
		})
	if err == nil {
		t.Fatal("expected a timeout")
	}

	// The operation keeps running with a live context after the caller
	// has given up.
	close(release)
	if <-sawCancel {
		t.Fatal("op's context was cancelled by the advisory timeout")
	}
}
