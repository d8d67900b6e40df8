package seed

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// NewDelayPacer returns a limiter that lets one call through per delay.
// The initial token is spent so the first Wait also pauses.
func NewDelayPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	l := rate.NewLimiter(rate.Every(delay), 1)
	l.Allow()
	return l
}

// NoPacer never waits.
type NoPacer struct{}

func (NoPacer) Wait(ctx context.Context) error { return ctx.Err() }
