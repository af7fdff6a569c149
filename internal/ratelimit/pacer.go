package ratelimit

import (
	"context"
	"math/rand"
	"time"
)

// Pacer delays each detail fetch by a randomized interval so that a burst
// of concurrent page opens does not present a machine-regular request
// pattern to the target site.
type Pacer struct {
	minDelay time.Duration
	maxDelay time.Duration
}

func NewPacer(minDelay, maxDelay time.Duration) *Pacer {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Pacer{minDelay: minDelay, maxDelay: maxDelay}
}

// Wait blocks for a random duration in [min, max], or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	delay := p.minDelay
	if delta := p.maxDelay - p.minDelay; delta > 0 {
		delay += time.Duration(rand.Int63n(int64(delta)))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
