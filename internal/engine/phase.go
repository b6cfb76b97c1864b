package engine

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/whist"
)

type phaseState int

const (
	stateIdle phaseState = iota
	stateAwaitHuman
	stateAwaitBot
	stateResolving
	stateComplete
)

func (s phaseState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitHuman:
		return "awaiting-human"
	case stateAwaitBot:
		return "awaiting-bot"
	case stateResolving:
		return "resolving"
	case stateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var phaseTransitions = map[phaseState][]phaseState{
	stateIdle:       {stateAwaitHuman, stateAwaitBot, stateComplete},
	stateAwaitHuman: {stateResolving},
	stateAwaitBot:   {stateResolving},
	stateResolving:  {stateAwaitHuman, stateAwaitBot, stateComplete},
	stateComplete:   {},
}

// turnSource is the table side of a phase: who sits where, what is legal,
// how a value is committed and what happens when everyone has acted.
type turnSource interface {
	seats() ([]*whist.Player, error)
	legal(p *whist.Player, value int) bool
	commit(p *whist.Player, value int, by Resolution) error
	decide(p *whist.Player) int
	armed(p *whist.Player)
	turn(seat int, p *whist.Player)
	complete()
}

// PhaseController walks one phase seat by seat, resolving each seat exactly
// once by human input, a bot decision or the deadline fallback.
type PhaseController struct {
	kind     DecisionKind
	src      turnSource
	sel      *SelectionState
	deadline *DeadlineTimer
	bots     *BotDispatcher
	logger   *log.Logger

	index int
	count int
	state phaseState
	// epoch invalidates callbacks scheduled by an earlier Start.
	epoch uint64
	// botsThrough is the first seat without a pending bot callback.
	botsThrough int
}

func newPhaseController(kind DecisionKind, src turnSource, sel *SelectionState, deadline *DeadlineTimer, bots *BotDispatcher, logger *log.Logger) *PhaseController {
	return &PhaseController{
		kind:     kind,
		src:      src,
		sel:      sel,
		deadline: deadline,
		bots:     bots,
		logger:   logger.WithPrefix(kind.String() + "-phase"),
	}
}

// Index returns the zero-based turn index within the phase
func (pc *PhaseController) Index() int {
	return pc.index
}

// Complete reports whether every seat of the phase has acted
func (pc *PhaseController) Complete() bool {
	return pc.state == stateComplete
}

func (pc *PhaseController) transition(to phaseState) error {
	for _, allowed := range phaseTransitions[pc.state] {
		if allowed == to {
			pc.state = to
			return nil
		}
	}
	return fmt.Errorf("%s phase %s -> %s: %w", pc.kind, pc.state, to, ErrIllegalValue)
}

// Start begins the phase at seat from. Callbacks left over from a previous
// start of this phase become no-ops.
func (pc *PhaseController) Start(from int) error {
	seats, err := pc.src.seats()
	if err != nil {
		return err
	}
	if from < 0 || from > len(seats) {
		return fmt.Errorf("start %s phase at %d: %w", pc.kind, from, ErrIllegalValue)
	}
	if pc.sel.Take(pc.kind) {
		pc.deadline.Disarm()
	}

	pc.epoch++
	pc.state = stateIdle
	pc.index = from
	pc.count = len(seats)
	pc.botsThrough = from
	pc.logger.Debug("Phase started", "from", from, "seats", pc.count)
	return pc.enter(seats)
}

func (pc *PhaseController) enter(seats []*whist.Player) error {
	if pc.index >= pc.count {
		pc.src.turn(pc.index, nil)
		if err := pc.transition(stateComplete); err != nil {
			return err
		}
		pc.logger.Debug("Phase complete")
		pc.src.complete()
		return nil
	}

	p := seats[pc.index]
	if p == nil {
		return fmt.Errorf("%s seat %d: %w", pc.kind, pc.index, ErrMissingPlayer)
	}
	pc.src.turn(pc.index, p)

	if p.Human {
		if err := pc.transition(stateAwaitHuman); err != nil {
			return err
		}
		if err := pc.sel.Arm(pc.kind, p); err != nil {
			return err
		}
		epoch := pc.epoch
		pc.deadline.Arm(func() {
			if epoch != pc.epoch {
				return
			}
			if err := pc.ResolveByTimeout(); err != nil && !Ignorable(err) {
				pc.logger.Error("Timeout resolution failed", "error", err)
			}
		})
		pc.src.armed(p)
		pc.logger.Debug("Awaiting human", "seat", pc.index, "player", p.Name)
		return nil
	}

	if err := pc.transition(stateAwaitBot); err != nil {
		return err
	}
	if pc.index >= pc.botsThrough {
		right := pc.count
		for i := pc.index + 1; i < pc.count; i++ {
			if seats[i] != nil && seats[i].Human {
				right = i
				break
			}
		}
		epoch := pc.epoch
		if _, err := pc.bots.Dispatch(seats, pc.index, right, func(seat int) {
			pc.botFired(epoch, seat)
		}); err != nil {
			return err
		}
		pc.botsThrough = right
	}
	return nil
}

func (pc *PhaseController) botFired(epoch uint64, seat int) {
	if epoch != pc.epoch {
		pc.logger.Debug("Stale bot callback", "seat", seat)
		return
	}
	if err := pc.ResolveBot(seat); err != nil {
		if Ignorable(err) {
			pc.logger.Debug("Bot callback dropped", "seat", seat, "error", err)
			return
		}
		pc.logger.Error("Bot resolution failed", "seat", seat, "error", err)
	}
}

// current returns the player whose turn it is
func (pc *PhaseController) current() (*whist.Player, []*whist.Player, error) {
	seats, err := pc.src.seats()
	if err != nil {
		return nil, nil, err
	}
	if pc.index < 0 || pc.index >= len(seats) || seats[pc.index] == nil {
		return nil, nil, fmt.Errorf("%s seat %d: %w", pc.kind, pc.index, ErrMissingPlayer)
	}
	return seats[pc.index], seats, nil
}

// ResolveHuman commits the human's candidate. It is dropped unless the
// phase awaits the human and the candidate is legal.
func (pc *PhaseController) ResolveHuman(candidate int) error {
	if pc.state != stateAwaitHuman || !pc.sel.Awaiting(pc.kind) {
		return fmt.Errorf("%s from human: %w", pc.kind, ErrIllegalValue)
	}
	p, seats, err := pc.current()
	if err != nil {
		return err
	}
	if !pc.src.legal(p, candidate) {
		return fmt.Errorf("%s %d from %s: %w", pc.kind, candidate, p.Name, ErrIllegalValue)
	}
	pc.sel.Take(pc.kind)
	pc.deadline.Disarm()
	return pc.resolve(p, seats, candidate, ResolvedByHuman)
}

// ResolveBot commits the bot decision for seat. Callbacks for a seat the
// phase has already moved past are dropped.
func (pc *PhaseController) ResolveBot(seat int) error {
	if pc.state != stateAwaitBot || seat != pc.index {
		return fmt.Errorf("%s from bot seat %d at turn %d: %w", pc.kind, seat, pc.index, ErrIllegalValue)
	}
	p, seats, err := pc.current()
	if err != nil {
		return err
	}
	value := pc.src.decide(p)
	if !pc.src.legal(p, value) {
		pc.logger.Warn("Bot decision rejected by rules", "player", p.Name, "value", value)
		return fmt.Errorf("%s %d from bot %s: %w", pc.kind, value, p.Name, ErrIllegalValue)
	}
	return pc.resolve(p, seats, value, ResolvedByBot)
}

// ResolveByTimeout auto-plays for the human once the deadline lapses. It
// does nothing if the decision was already resolved, and an illegal fallback
// leaves the decision with the human.
func (pc *PhaseController) ResolveByTimeout() error {
	if pc.state != stateAwaitHuman {
		return fmt.Errorf("%s by timeout: %w", pc.kind, ErrIllegalValue)
	}
	p, seats, err := pc.current()
	if err != nil {
		return err
	}
	if !pc.sel.Awaiting(pc.kind) {
		return fmt.Errorf("%s by timeout: %w", pc.kind, ErrIllegalValue)
	}
	value := pc.src.decide(p)
	if !pc.src.legal(p, value) {
		pc.logger.Warn("Fallback decision rejected by rules", "player", p.Name, "value", value)
		return fmt.Errorf("%s %d by timeout for %s: %w", pc.kind, value, p.Name, ErrIllegalValue)
	}
	pc.sel.Take(pc.kind)
	pc.deadline.Disarm()
	pc.logger.Info("Decision window lapsed", "player", p.Name, "value", value)
	return pc.resolve(p, seats, value, ResolvedByTimeout)
}

func (pc *PhaseController) resolve(p *whist.Player, seats []*whist.Player, value int, by Resolution) error {
	if err := pc.transition(stateResolving); err != nil {
		return err
	}
	if err := pc.src.commit(p, value, by); err != nil {
		return fmt.Errorf("commit %s %d for %s: %w", pc.kind, value, p.Name, err)
	}
	pc.index++
	return pc.enter(seats)
}
