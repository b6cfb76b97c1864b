package sched

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Loop owns a Scheduler and runs it against a quartz clock. Posted events
// and due timers execute one at a time on the goroutine that calls Run.
type Loop struct {
	clock  quartz.Clock
	sched  *Scheduler
	logger *log.Logger

	events chan func()
	wakeC  chan struct{}

	wake    *quartz.Timer
	wakeDue time.Time
	wakeSet bool
}

// NewLoop creates a loop whose scheduler starts at the clock's current time.
func NewLoop(clock quartz.Clock, logger *log.Logger) *Loop {
	return &Loop{
		clock:  clock,
		sched:  New(clock.Now()),
		logger: logger.WithPrefix("loop"),
		events: make(chan func(), 64),
		wakeC:  make(chan struct{}, 1),
	}
}

// Scheduler returns the scheduler driven by the loop. It must only be used
// from callbacks running on the loop.
func (l *Loop) Scheduler() *Scheduler {
	return l.sched
}

// Post queues fn to run on the loop goroutine. It never blocks the caller for
// longer than it takes the loop to drain one event.
func (l *Loop) Post(fn func()) {
	l.events <- fn
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case l.events <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events and timers until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.disarm()
	l.logger.Debug("Loop started")

	for {
		l.rearm()
		select {
		case <-ctx.Done():
			l.logger.Debug("Loop stopped", "pending", l.sched.Len())
			return ctx.Err()
		case fn := <-l.events:
			l.sched.AdvanceTo(l.clock.Now())
			fn()
		case <-l.wakeC:
			l.wakeSet = false
			if n := l.sched.AdvanceTo(l.clock.Now()); n > 0 {
				l.logger.Debug("Timers fired", "count", n)
			}
		}
	}
}

// rearm points the wake timer at the scheduler's earliest deadline.
func (l *Loop) rearm() {
	next, ok := l.sched.Next()
	if !ok {
		l.disarm()
		return
	}
	if l.wakeSet && l.wakeDue.Equal(next) {
		return
	}
	l.disarm()

	d := next.Sub(l.clock.Now())
	if d <= 0 {
		l.signal()
		return
	}
	l.wakeDue = next
	l.wakeSet = true
	l.wake = l.clock.AfterFunc(d, l.signal)
}

func (l *Loop) disarm() {
	if l.wake != nil {
		l.wake.Stop()
		l.wake = nil
	}
	l.wakeSet = false
}

func (l *Loop) signal() {
	select {
	case l.wakeC <- struct{}{}:
	default:
	}
}
