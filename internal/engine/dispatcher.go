package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/whist"
)

// BotDispatcher staggers bot decisions so they land one unit apart.
type BotDispatcher struct {
	sched  *sched.Scheduler
	unit   time.Duration
	logger *log.Logger
}

// NewBotDispatcher creates a dispatcher spacing bot turns by unit
func NewBotDispatcher(s *sched.Scheduler, unit time.Duration, logger *log.Logger) *BotDispatcher {
	return &BotDispatcher{sched: s, unit: unit, logger: logger.WithPrefix("dispatch")}
}

// Dispatch schedules fire once for every bot in seats[left:right], the k-th
// bot k units from now. Empty and human seats are skipped. It returns the
// number of callbacks scheduled.
func (b *BotDispatcher) Dispatch(seats []*whist.Player, left, right int, fire func(seat int)) (int, error) {
	if fire == nil {
		return 0, ErrNilArgument
	}
	if left < 0 || left > whist.MaxSeats || right < 0 || right > whist.MaxSeats {
		return 0, fmt.Errorf("dispatch [%d,%d): %w", left, right, ErrIllegalValue)
	}
	right = min(right, len(seats))

	n := 0
	for i := left; i < right; i++ {
		p := seats[i]
		if p == nil || p.Human {
			continue
		}
		n++
		seat := i
		b.sched.After(time.Duration(n)*b.unit, func() { fire(seat) })
		b.logger.Debug("Bot turn scheduled", "seat", seat, "player", p.Name, "delay", time.Duration(n)*b.unit)
	}
	return n, nil
}
