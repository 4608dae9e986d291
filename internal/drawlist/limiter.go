package drawlist

import (
	"context"
	"time"
)

// FrameLimiter paces a consumer loop to a fixed rate.
type FrameLimiter struct {
	hz   int
	next time.Time
}

// NewFrameLimiter returns a limiter for hz frames per second. Zero or less
// disables pacing.
func NewFrameLimiter(hz int) *FrameLimiter {
	return &FrameLimiter{hz: hz}
}

// Wait blocks until the next frame is due or ctx is done. It reports false
// when ctx ended the wait.
func (f *FrameLimiter) Wait(ctx context.Context) bool {
	if f.hz <= 0 {
		f.next = time.Time{}
		return ctx.Err() == nil
	}
	target := time.Second / time.Duration(f.hz)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	if remaining := time.Until(f.next); remaining > 0 {
		t := time.NewTimer(remaining)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}

	// Resync after a hitch so later frames do not rush to catch up.
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
	return ctx.Err() == nil
}
