package reasoning

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time for the pacer
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
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

// Pacer keeps successive reasoning calls at least interval apart. Each
// caller reserves the next free slot under the lock, so concurrent callers
// are serialized onto distinct slots.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	clock    Clock
}

// NewPacer creates a pacer. A nil clock uses wall time.
func NewPacer(interval time.Duration, clock Clock) *Pacer {
	if clock == nil {
		clock = realClock{}
	}
	if interval < 0 {
		interval = 0
	}
	return &Pacer{interval: interval, clock: clock}
}

// Wait blocks until the caller's slot and returns how long it waited
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	p.mu.Lock()
	now := p.clock.Now()
	slot := now
	if p.next.After(now) {
		slot = p.next
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	wait := slot.Sub(now)
	if err := p.clock.Sleep(ctx, wait); err != nil {
		return wait, err
	}
	return wait, nil
}

// Done marks the end of a call; the next slot is at least interval after now
func (p *Pacer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if anchored := p.clock.Now().Add(p.interval); anchored.After(p.next) {
		p.next = anchored
	}
}

// Interval returns the configured spacing
func (p *Pacer) Interval() time.Duration { return p.interval }
