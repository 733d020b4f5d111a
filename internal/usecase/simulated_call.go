package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/V4T54L/venue-portal/internal/adapter/metrics"
	"github.com/V4T54L/venue-portal/internal/domain"
)

// SimulatedCall stands in for a backend request: it waits a fixed delay, then runs the
// local completion. While in flight the form's submit button is disabled, so a second
// call is refused with domain.ErrBusy. There is no retry.
type SimulatedCall struct {
	operation string
	delay     time.Duration
	metrics   *metrics.PortalMetrics
	busy      atomic.Bool
}

// NewSimulatedCall creates a SimulatedCall. metrics may be nil.
func NewSimulatedCall(operation string, delay time.Duration, m *metrics.PortalMetrics) *SimulatedCall {
	return &SimulatedCall{operation: operation, delay: delay, metrics: m}
}

// Busy reports whether a call is in flight.
func (c *SimulatedCall) Busy() bool {
	return c.busy.Load()
}

// Do waits out the delay and then runs complete. Cancelling ctx abandons the call
// before complete runs.
func (c *SimulatedCall) Do(ctx context.Context, complete func() error) error {
	if !c.busy.CompareAndSwap(false, true) {
		return domain.ErrBusy
	}
	defer c.busy.Store(false)

	if c.metrics != nil {
		c.metrics.SimulatedCalls.WithLabelValues(c.operation).Inc()
	}

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return complete()
}
