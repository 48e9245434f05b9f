package core

import (
	"context"
	"time"
)

// Reveal pauses for d before a result is shown. It returns early with the
// context error when ctx is cancelled. A non-positive d returns immediately.
func Reveal(ctx context.Context, d time.Duration) error {
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
