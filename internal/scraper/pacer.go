package scraper

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer blocks between two page requests of one session
type Pacer interface {
	Wait(ctx context.Context) error
}

type noDelay struct{}

func (noDelay) Wait(ctx context.Context) error { return ctx.Err() }

// NoDelay only honours cancellation
var NoDelay Pacer = noDelay{}

// JitterPacer sleeps a duration drawn uniformly from [Min, Max]
type JitterPacer struct {
	Min time.Duration
	Max time.Duration
}

// NewJitterPacer returns NoDelay when both bounds are zero
func NewJitterPacer(min, max time.Duration) Pacer {
	if max < min {
		min, max = max, min
	}
	if max <= 0 {
		return NoDelay
	}
	return JitterPacer{Min: min, Max: max}
}

func (p JitterPacer) Delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rand.N(p.Max-p.Min+1)
}

func (p JitterPacer) Wait(ctx context.Context) error {
	d := p.Delay()
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
