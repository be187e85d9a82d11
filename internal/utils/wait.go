package utils

import (
	"context"
	"math"
	"time"
)

// WaitFor blocks for d or until ctx is done, whichever comes first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

// Backoff returns the exponential wait before retry attempt (0-based), capped at max.
func Backoff(attempt int, initial, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	wait := time.Duration(float64(initial) * math.Pow(2, float64(attempt)))
	if max > 0 && (wait > max || wait <= 0) {
		return max
	}
	return wait
}
