package fetch

import (
	"context"
	"time"
)

// Throttle is a fixed-interval gate between requests. Each caller pays the
// full interval after its own request, so adding workers raises throughput
// without shortening the per-request delay the remote site sees.
type Throttle struct {
	interval time.Duration
}

// NewThrottle creates a throttle with the given interval. A zero or
// negative interval disables the gate.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Pay blocks for the configured interval, or until ctx is cancelled.
func (t *Throttle) Pay(ctx context.Context) {
	if t.interval <= 0 {
		return
	}
	timer := time.NewTimer(t.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
