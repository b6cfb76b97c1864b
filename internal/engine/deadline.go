package engine

import (
	"time"

	"github.com/lox/whist/internal/sched"
)

// DeadlineTimer counts a human decision window down in fixed ticks. Each
// tick removes one indicator; the expiry callback runs once when the count
// reaches zero while still armed.
type DeadlineTimer struct {
	sched    *sched.Scheduler
	ticks    int
	interval time.Duration

	remaining int
	armed     bool
	gen       uint64
	timer     *sched.Timer

	onTick func(remaining int)
}

// NewDeadlineTimer creates a timer of ticks indicators spread over window
func NewDeadlineTimer(s *sched.Scheduler, window time.Duration, ticks int) *DeadlineTimer {
	if ticks < 1 {
		ticks = 1
	}
	return &DeadlineTimer{
		sched:    s,
		ticks:    ticks,
		interval: window / time.Duration(ticks),
	}
}

// OnTick sets the function told about every tick
func (d *DeadlineTimer) OnTick(fn func(remaining int)) {
	d.onTick = fn
}

// Arm restarts the countdown for a new decision. A pending expiry of the
// previous decision is cancelled.
func (d *DeadlineTimer) Arm(expire func()) {
	d.Disarm()
	d.gen++
	gen := d.gen
	d.remaining = d.ticks
	d.armed = true
	d.timer = d.sched.Every(d.interval, func() { d.tick(gen, expire) })
}

func (d *DeadlineTimer) tick(gen uint64, expire func()) {
	if gen != d.gen || !d.armed {
		return
	}
	d.remaining--
	if d.onTick != nil {
		d.onTick(d.remaining)
	}
	if d.remaining <= 0 {
		d.Disarm()
		expire()
	}
}

// Disarm stops the countdown. It reports whether the timer was armed;
// disarming twice is harmless.
func (d *DeadlineTimer) Disarm() bool {
	if !d.armed {
		return false
	}
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return true
}

// Armed reports whether a countdown is running
func (d *DeadlineTimer) Armed() bool {
	return d.armed
}

// Remaining returns the indicators left in the current countdown
func (d *DeadlineTimer) Remaining() int {
	return d.remaining
}

// Ticks returns the number of indicators in a full window
func (d *DeadlineTimer) Ticks() int {
	return d.ticks
}

// Interval returns the time between ticks
func (d *DeadlineTimer) Interval() time.Duration {
	return d.interval
}
