package catch

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultDelay is the suspense pause before a catch resolves.
const DefaultDelay = 1400 * time.Millisecond

// Attempter runs delayed catch attempts.
type Attempter struct {
	evaluator *Evaluator
	delay     atomic.Int64
}

// NewAttempter creates an attempter. A non-positive delay resolves immediately.
func NewAttempter(evaluator *Evaluator, delay time.Duration) *Attempter {
	if evaluator == nil {
		evaluator = NewEvaluator(nil)
	}
	a := &Attempter{evaluator: evaluator}
	a.delay.Store(int64(delay))
	return a
}

// Delay returns the configured suspense delay.
func (a *Attempter) Delay() time.Duration {
	return time.Duration(a.delay.Load())
}

// SetDelay changes the suspense delay for subsequent attempts.
func (a *Attempter) SetDelay(d time.Duration) {
	a.delay.Store(int64(d))
}

// Attempt waits for the suspense delay and then rolls the catch.
// If ctx is done first the attempt is abandoned: ctx.Err() is returned and no
// roll is drawn.
func (a *Attempter) Attempt(ctx context.Context, stage int) (Result, error) {
	if delay := a.Delay(); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return a.evaluator.Evaluate(stage), nil
}
