// Package sched provides the single timer abstraction used by the engine:
// a priority queue of deadlines on a logical clock, plus a Loop that drives
// the queue from wall-clock time on one goroutine.
//
// Callbacks registered with a Scheduler never run concurrently with each
// other; they run from AdvanceTo or Step on whichever goroutine owns the
// scheduler.
package sched

import (
	"container/heap"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer struct {
	due     time.Time
	seq     uint64
	every   time.Duration
	fn      func()
	index   int
	stopped bool
	sched   *Scheduler
}

// Stop cancels the timer. It reports whether the call prevented a pending
// firing; stopping a fired or already stopped one-shot timer returns false.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	if t.index >= 0 {
		heap.Remove(&t.sched.queue, t.index)
		return true
	}
	return false
}

// Scheduler is a deadline queue on a logical clock. Time only moves when the
// owner calls AdvanceTo or Step.
type Scheduler struct {
	now   time.Time
	seq   uint64
	queue timerHeap
}

// New creates a scheduler whose logical clock starts at start.
func New(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler's logical time.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After schedules fn to run once, d after the current logical time.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	return s.push(d, 0, fn)
}

// Every schedules fn to run every d until the returned timer is stopped.
// A non-positive period panics because it would never let time advance.
func (s *Scheduler) Every(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		panic("sched: non-positive period")
	}
	return s.push(d, d, fn)
}

func (s *Scheduler) push(d, every time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{
		due:   s.now.Add(d),
		seq:   s.seq,
		every: every,
		fn:    fn,
		index: -1,
		sched: s,
	}
	heap.Push(&s.queue, t)
	return t
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Next returns the earliest pending deadline.
func (s *Scheduler) Next() (time.Time, bool) {
	if s.queue.Len() == 0 {
		return time.Time{}, false
	}
	return s.queue[0].due, true
}

// AdvanceTo moves the logical clock to now, running every timer due at or
// before it in deadline order. Timers scheduled by callbacks run in the same
// call if they also fall due. It returns the number of callbacks run.
func (s *Scheduler) AdvanceTo(now time.Time) int {
	ran := 0
	for s.queue.Len() > 0 && !s.queue[0].due.After(now) {
		s.fire()
		ran++
	}
	if now.After(s.now) {
		s.now = now
	}
	return ran
}

// Advance moves the logical clock forward by d.
func (s *Scheduler) Advance(d time.Duration) int {
	return s.AdvanceTo(s.now.Add(d))
}

// Step jumps the logical clock to the earliest deadline and runs that one
// timer. It returns false when nothing is pending. Headless callers drain the
// queue with it instead of waiting in real time.
func (s *Scheduler) Step() bool {
	if s.queue.Len() == 0 {
		return false
	}
	s.fire()
	return true
}

func (s *Scheduler) fire() {
	t := heap.Pop(&s.queue).(*Timer)
	if t.due.After(s.now) {
		s.now = t.due
	}
	if t.every > 0 {
		s.seq++
		t.seq = s.seq
		t.due = t.due.Add(t.every)
		heap.Push(&s.queue, t)
	} else {
		t.stopped = true
	}
	t.fn()
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
