// Package motion holds the view-triggered animation and filtering engine:
// once-only reveal controllers, staggered child reveals, tab filtering of the
// project catalog and tweened counters.
//
// Every callback in the package runs on a single logical thread supplied by
// a Scheduler. Components are not safe for concurrent use; callers from other
// goroutines go through Scheduler.Do.
package motion

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultFrameInterval is roughly one frame at 60 FPS.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("motion: scheduler stopped")

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented it
	// from firing.
	Stop() bool
}

// Scheduler is the cooperative event loop the engine runs on.
type Scheduler interface {
	Now() time.Time
	// After schedules fn to run on the loop once d has elapsed.
	After(d time.Duration, fn func()) Timer
	// Do runs fn on the loop and waits for it to return.
	Do(ctx context.Context, fn func()) error
}

type timerEntry struct {
	at       time.Time
	seq      uint64
	fn       func()
	index    int
	canceled bool
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// timerQueue is shared by Loop and ManualScheduler.
type timerQueue struct {
	mu   sync.Mutex
	h    timerHeap
	seq  uint64
	wake chan struct{}
}

func (q *timerQueue) push(at time.Time, fn func()) *queuedTimer {
	q.mu.Lock()
	e := &timerEntry{at: at, seq: q.seq, fn: fn}
	q.seq++
	heap.Push(&q.h, e)
	q.mu.Unlock()
	if q.wake != nil {
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	return &queuedTimer{q: q, e: e}
}

// popDue removes the earliest timer due at or before now.
func (q *timerQueue) popDue(now time.Time) *timerEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.h.Len() > 0 {
		e := q.h[0]
		if e.at.After(now) {
			return nil
		}
		heap.Pop(&q.h)
		if !e.canceled {
			return e
		}
	}
	return nil
}

// next reports the deadline of the earliest pending timer.
func (q *timerQueue) next() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.h.Len() > 0 {
		if q.h[0].canceled {
			heap.Pop(&q.h)
			continue
		}
		return q.h[0].at, true
	}
	return time.Time{}, false
}

func (q *timerQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, e := range q.h {
		if !e.canceled {
			n++
		}
	}
	return n
}

func (q *timerQueue) clear() {
	q.mu.Lock()
	for _, e := range q.h {
		e.canceled = true
	}
	q.h = nil
	q.mu.Unlock()
}

type queuedTimer struct {
	q *timerQueue
	e *timerEntry
}

func (t *queuedTimer) Stop() bool {
	t.q.mu.Lock()
	defer t.q.mu.Unlock()
	if t.e.canceled || t.e.index < 0 {
		return false
	}
	t.e.canceled = true
	heap.Remove(&t.q.h, t.e.index)
	return true
}

// Loop is the production Scheduler: one goroutine drains posted tasks and
// fires due timers in deadline order.
type Loop struct {
	timers timerQueue
	tasks  chan func()

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewLoop creates a loop. It does nothing until Start.
func NewLoop() *Loop {
	return &Loop{
		timers: timerQueue{wake: make(chan struct{}, 1)},
		tasks:  make(chan func(), 64),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.stopped = make(chan struct{})
	go l.run(ctx, l.stopped)
}

// Stop ends the loop and drops every pending timer.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, stopped := l.cancel, l.stopped
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
	l.timers.clear()
}

func (l *Loop) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		for e := l.timers.popDue(time.Now()); e != nil; e = l.timers.popDue(time.Now()) {
			e.fn()
		}

		wait := time.Hour
		if at, ok := l.timers.next(); ok {
			wait = time.Until(at)
			if wait < 0 {
				wait = 0
			}
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		case <-l.timers.wake:
		case <-timer.C:
		}
	}
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return l.timers.push(time.Now().Add(d), fn)
}

func (l *Loop) Do(ctx context.Context, fn func()) error {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped == nil {
		return ErrStopped
	}

	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}
	select {
	case l.tasks <- task:
	case <-stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ManualScheduler runs on virtual time that only moves when Advance is
// called. Do runs inline on the caller's goroutine.
type ManualScheduler struct {
	timers timerQueue
	now    time.Time
	mu     sync.Mutex
}

// NewManualScheduler starts the virtual clock at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualScheduler) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return m.timers.push(m.Now().Add(d), fn)
}

func (m *ManualScheduler) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}

// Advance moves the clock forward by d, firing every timer that comes due.
// Each callback observes Now() equal to its own deadline.
func (m *ManualScheduler) Advance(d time.Duration) {
	end := m.Now().Add(d)
	for {
		at, ok := m.timers.next()
		if !ok || at.After(end) {
			break
		}
		e := m.timers.popDue(at)
		if e == nil {
			continue
		}
		m.mu.Lock()
		m.now = at
		m.mu.Unlock()
		e.fn()
	}
	m.mu.Lock()
	m.now = end
	m.mu.Unlock()
}

// Pending reports the number of timers still scheduled.
func (m *ManualScheduler) Pending() int { return m.timers.pending() }
