// Package wait polls readiness predicates with a bounded timeout.
package wait

import (
	"context"
	"errors"
	"time"

	apiwait "k8s.io/apimachinery/pkg/util/wait"
)

// ErrTimedOut indicates a predicate did not become true within the
// waiter's timeout.
var ErrTimedOut = errors.New("timed out waiting for condition")

// DefaultInterval is the default poll interval.
const DefaultInterval = 2 * time.Second

// Predicate probes a condition. Returning (true, nil) stops the wait.
// A non-nil error aborts the wait immediately; transient probe
// failures should be reported as (false, nil).
type Predicate func(ctx context.Context) (bool, error)

// Waiter polls a predicate at a fixed interval up to a timeout.
type Waiter struct {
	Interval time.Duration
	Timeout  time.Duration
}

// New creates a Waiter with the default interval.
func New(timeout time.Duration) Waiter {
	return Waiter{Interval: DefaultInterval, Timeout: timeout}
}

// WaitFor polls the predicate until it is satisfied, the timeout
// elapses, or the context is cancelled. The first poll happens
// immediately. Timeout is reported as ErrTimedOut; caller
// cancellation is reported as the context's error.
func (w Waiter) WaitFor(ctx context.Context, predicate Predicate) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	err := apiwait.PollUntilContextTimeout(ctx, interval, w.Timeout, true,
		func(ctx context.Context) (bool, error) {
			return predicate(ctx)
		})
	if err == nil {
		return nil
	}

	// The caller's own cancellation wins over the timeout bound.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if apiwait.Interrupted(err) {
		return ErrTimedOut
	}
	return err
}
