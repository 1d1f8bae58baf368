// Package pace provides a minimum-interval gate used to space out calls
// against rate-limited providers. The gate is injectable so tests run with
// zero delay.
package pace

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate blocks until the next call is allowed to proceed.
type Gate interface {
	Wait(ctx context.Context) error
}

type intervalGate struct {
	limiter *rate.Limiter
}

// NewInterval returns a gate that enforces a minimum interval between
// consecutive calls. The first call passes immediately. A non-positive
// interval yields a gate that never blocks.
func NewInterval(interval time.Duration) Gate {
	if interval <= 0 {
		return None()
	}
	return &intervalGate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (g *intervalGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

type nopGate struct{}

func (nopGate) Wait(ctx context.Context) error { return ctx.Err() }

// None returns a gate that never blocks.
func None() Gate { return nopGate{} }
