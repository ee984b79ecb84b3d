package web

import (
	"context"
	"errors"
	"time"
)

// errBusy is returned when no validation slot frees up in time.
var errBusy = errors.New("too many concurrent validations")

// limiter caps the number of plans validated at once. A request waits up to
// maxWait for a slot.
type limiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

func newLimiter(maxConcurrent int, maxWait time.Duration) *limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire takes a slot. The caller must release it.
func (l *limiter) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	default:
	}
	if l.maxWait <= 0 {
		return errBusy
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errBusy
	}
}

func (l *limiter) release() {
	<-l.slots
}

// active returns the number of slots in use.
func (l *limiter) active() int {
	return len(l.slots)
}

// drain blocks until every slot is free or ctx is done.
func (l *limiter) drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
