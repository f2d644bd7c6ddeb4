package util

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffDelay computes the exponential backoff delay for a zero-based retry
// attempt, with random jitter added on top.
func BackoffDelay(attempt int, base, jitter time.Duration) time.Duration {
	delay := base * time.Duration(math.Pow(2, float64(attempt)))
	return delay + time.Duration(rand.Float64()*float64(jitter))
}

// SleepContext waits for d or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
