package player

import (
	"context"
	"time"
)

// Sleeper performs the real-time wait before a due event. Implementations
// must return early with ctx.Err() when ctx is cancelled
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// WallClock sleeps on a timer
type WallClock struct{}

func (WallClock) Sleep(ctx context.Context, d time.Duration) error {
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

// VirtualClock never blocks; it only accumulates the time it was asked to
// wait. Useful for tests and for rendering a file faster than real time
type VirtualClock struct {
	Elapsed time.Duration
	Waits   []time.Duration
}

func (c *VirtualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Elapsed += d
	c.Waits = append(c.Waits, d)
	return nil
}
