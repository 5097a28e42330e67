package it600

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// requestGate allows a single in-flight exchange with the gateway.
// Waiters are woken in FIFO order.
type requestGate struct {
	sem *semaphore.Weighted
}

func newRequestGate() *requestGate {
	return &requestGate{sem: semaphore.NewWeighted(1)}
}

func (g *requestGate) acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *requestGate) release() {
	g.sem.Release(1)
}
