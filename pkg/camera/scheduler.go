package camera

import (
	"context"
	"sync"
	"time"
)

// Handle identifies a pending frame request. The zero Handle is never
// issued.
type Handle uint64

// Scheduler delivers frame callbacks. Request queues fn for the next
// frame; Cancel drops a queued request and is a no-op for unknown or
// already delivered handles.
type Scheduler interface {
	Request(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

type request struct {
	h  Handle
	fn func(now time.Time)
}

// queue is the request list shared by the schedulers.
type queue struct {
	mu      sync.Mutex
	next    Handle
	pending []request
}

func (q *queue) Request(fn func(now time.Time)) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, request{h: q.next, fn: fn})
	return q.next
}

func (q *queue) Cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.h == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// take removes and returns every queued request.
func (q *queue) take() []request {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler runs frames only when Flush is called. Requests made
// from inside a callback wait for the next Flush.
type ManualScheduler struct {
	q queue
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (m *ManualScheduler) Request(fn func(now time.Time)) Handle { return m.q.Request(fn) }

func (m *ManualScheduler) Cancel(h Handle) { m.q.Cancel(h) }

// Flush delivers one frame at now to every queued request and returns how
// many ran.
func (m *ManualScheduler) Flush(now time.Time) int {
	reqs := m.q.take()
	for _, r := range reqs {
		r.fn(now)
	}
	return len(reqs)
}

// Pending returns the number of queued requests.
func (m *ManualScheduler) Pending() int { return m.q.len() }

// TickerScheduler delivers frames from a time.Ticker. Callbacks run on the
// goroutine executing Run, so callers that share state with them must hand
// work to that goroutine or synchronize themselves.
type TickerScheduler struct {
	q        queue
	interval time.Duration
}

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// NewTickerScheduler returns a scheduler ticking every interval. A
// non-positive interval uses DefaultFrameInterval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerScheduler{interval: interval}
}

func (t *TickerScheduler) Request(fn func(now time.Time)) Handle { return t.q.Request(fn) }

func (t *TickerScheduler) Cancel(h Handle) { t.q.Cancel(h) }

// Run delivers frames until ctx is done.
func (t *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			for _, r := range t.q.take() {
				r.fn(now)
			}
		}
	}
}
