// Package time contains time related helpers: run budgets that never extend a
// parent deadline, and small formatting helpers for logs and metadata
package time

import (
	"context"
	"time"
)

// Budget returns a child of parent limited to d without extending any parent
// deadline. d <= 0 adds no limit but still returns a cancelable child
func Budget(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		d := time.Until(dl)
		if d > 0 {
			return d
		}
	}
	return 0
}

// MS returns whole milliseconds elapsed since t
func MS(t time.Time) int64 { return time.Since(t).Milliseconds() }

// Age returns now - t, or zero for a zero t
func Age(t, now time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	return now.Sub(t)
}
