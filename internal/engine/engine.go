// Package engine sequences the turns of a whist game: who bids or plays
// next, how long a human may think, when bots act and when tricks, rounds
// and the game end. Every method must be called from the goroutine that owns
// the scheduler.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/layout"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/whist"
)

// Config holds the engine timings
type Config struct {
	// DecisionWindow is how long a human may take over one decision
	DecisionWindow time.Duration
	// DeadlineTicks is the number of countdown indicators in the window
	DeadlineTicks int
	// BotDelay is the unit between bot decisions and deferred transitions
	BotDelay time.Duration
}

// DefaultConfig returns the timings of the desktop game
func DefaultConfig() Config {
	return Config{
		DecisionWindow: 10 * time.Second,
		DeadlineTicks:  10,
		BotDelay:       time.Second,
	}
}

// Strategy supplies bot decisions, and the human's decision once the window
// lapses. Both methods must return a legal value.
type Strategy interface {
	Bid(r *whist.Round, p *whist.Player) int
	Card(r *whist.Round, p *whist.Player) int
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig overrides the default timings
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithEventBus publishes notifications on bus instead of a private one
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// InputKind names a kind of user input
type InputKind int

const (
	InputStart InputKind = iota
	InputClick
	InputMove
	InputBid
	InputCard
)

func (k InputKind) String() string {
	switch k {
	case InputStart:
		return "start"
	case InputClick:
		return "click"
	case InputMove:
		return "move"
	case InputBid:
		return "bid"
	case InputCard:
		return "card"
	default:
		return "unknown"
	}
}

// Input is one user action. X and Y are table pixels for clicks and moves;
// Value is a bid or a card slot for the direct kinds.
type Input struct {
	Kind  InputKind
	X, Y  int
	Value int
}

// Engine is the application context of one game
type Engine struct {
	game     *whist.Game
	rules    whist.Rules
	strategy Strategy
	sched    *sched.Scheduler
	bus      EventBus
	logger   *log.Logger
	cfg      Config

	selection *SelectionState
	deadline  *DeadlineTimer
	bots      *BotDispatcher
	bid       *PhaseController
	card      *PhaseController
	lifecycle *RoundLifecycle

	handlers map[InputKind]func(Input) error
}

// New creates an engine for game. Nothing happens until InputStart is
// handled or StartRound is called.
func New(game *whist.Game, rules whist.Rules, strategy Strategy, s *sched.Scheduler, logger *log.Logger, opts ...Option) (*Engine, error) {
	if game == nil {
		return nil, ErrMissingGame
	}
	if strategy == nil || s == nil || logger == nil {
		return nil, ErrNilArgument
	}

	e := &Engine{
		game:     game,
		rules:    rules,
		strategy: strategy,
		sched:    s,
		logger:   logger.WithPrefix("engine"),
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = NewEventBus()
	}
	if e.cfg.DecisionWindow <= 0 || e.cfg.DeadlineTicks < 1 || e.cfg.BotDelay <= 0 {
		return nil, fmt.Errorf("engine timings %+v: %w", e.cfg, ErrIllegalValue)
	}

	e.selection = NewSelectionState()
	e.deadline = NewDeadlineTimer(s, e.cfg.DecisionWindow, e.cfg.DeadlineTicks)
	e.deadline.OnTick(func(remaining int) {
		e.bus.Publish(DeadlineTickEvent{Remaining: remaining})
	})
	e.bots = NewBotDispatcher(s, e.cfg.BotDelay, e.logger)
	e.bid = newPhaseController(AwaitBid, bidTurns{e}, e.selection, e.deadline, e.bots, e.logger)
	e.card = newPhaseController(AwaitCard, cardTurns{e}, e.selection, e.deadline, e.bots, e.logger)
	e.lifecycle = newRoundLifecycle(e, e.logger)

	e.handlers = map[InputKind]func(Input) error{
		InputStart: e.handleStart,
		InputClick: e.handleClick,
		InputMove:  e.handleMove,
		InputBid:   e.handleBid,
		InputCard:  e.handleCard,
	}
	return e, nil
}

// Handle dispatches one user input. Errors for which Ignorable holds mean
// the input had no effect.
func (e *Engine) Handle(in Input) error {
	h, ok := e.handlers[in.Kind]
	if !ok {
		return fmt.Errorf("input %d: %w", in.Kind, ErrIllegalValue)
	}
	err := h(in)
	if err != nil && Ignorable(err) {
		e.logger.Debug("Input dropped", "kind", in.Kind, "x", in.X, "y", in.Y, "value", in.Value, "error", err)
	}
	return err
}

func (e *Engine) handleStart(Input) error {
	if e.game.CurrentRound >= 0 || e.lifecycle.Pending() {
		return fmt.Errorf("game already started: %w", ErrIllegalValue)
	}
	return e.StartRound()
}

// handleClick tries the click as a card pick and then as a bid.
func (e *Engine) handleClick(in Input) error {
	cardErr := e.clickCard(in.X, in.Y)
	if cardErr == nil {
		return nil
	}
	bidErr := e.clickBid(in.X, in.Y)
	if bidErr == nil {
		return nil
	}
	return errors.Join(cardErr, bidErr)
}

func (e *Engine) clickCard(x, y int) error {
	slot := layout.CardSlotAt(x, y)
	if slot < 0 {
		return fmt.Errorf("click (%d,%d) outside cards: %w", x, y, ErrIllegalValue)
	}
	return e.playSlot(slot)
}

func (e *Engine) clickBid(x, y int) error {
	v := layout.BidValueAt(x, y)
	if v < 0 {
		return fmt.Errorf("click (%d,%d) outside bids: %w", x, y, ErrIllegalValue)
	}
	return e.bid.ResolveHuman(v)
}

// playSlot plays the slot-th remaining card of the human
func (e *Engine) playSlot(slot int) error {
	if !e.selection.Awaiting(AwaitCard) {
		return fmt.Errorf("card slot %d: %w", slot, ErrIllegalValue)
	}
	p := e.selection.Player()
	pos := p.NthCard(slot)
	if pos < 0 {
		return fmt.Errorf("card slot %d of %d: %w", slot, p.CardsNumber(), ErrIllegalValue)
	}
	return e.card.ResolveHuman(pos)
}

func (e *Engine) handleMove(in Input) error {
	switch e.selection.Kind() {
	case AwaitCard:
		slot := layout.CardSlotAt(in.X, in.Y)
		if slot >= e.selection.Player().CardsNumber() {
			slot = -1
		}
		if !e.selection.Hover(slot) {
			return nil
		}
		e.bus.Publish(SelectionChangedEvent{
			Kind:      AwaitCard,
			Candidate: slot,
			Marker:    layout.CardMarker(max(slot, 0)),
			Visible:   slot >= 0,
		})
	case AwaitBid:
		v := layout.BidValueAt(in.X, in.Y)
		if v >= 0 && !e.rules.CheckBid(e.game.Round(), e.selection.Player(), v) {
			v = -1
		}
		if !e.selection.Hover(v) {
			return nil
		}
		e.bus.Publish(SelectionChangedEvent{
			Kind:      AwaitBid,
			Candidate: v,
			Marker:    layout.BidMarker(max(v, 0)),
			Visible:   v >= 0,
		})
	default:
		return fmt.Errorf("move with no decision pending: %w", ErrIllegalValue)
	}
	return nil
}

func (e *Engine) handleBid(in Input) error {
	return e.bid.ResolveHuman(in.Value)
}

func (e *Engine) handleCard(in Input) error {
	return e.playSlot(in.Value)
}

// StartRound deals the next round
func (e *Engine) StartRound() error {
	return e.lifecycle.StartRound()
}

// StartHand opens a trick led by round seat winner
func (e *Engine) StartHand(winner int) error {
	return e.lifecycle.StartHand(winner)
}

// EndHand collects the full trick on the table
func (e *Engine) EndHand() error {
	return e.lifecycle.EndHand()
}

// round returns the game and its current round
func (e *Engine) round() (*whist.Game, *whist.Round, error) {
	if e.game == nil {
		return nil, nil, ErrMissingGame
	}
	r := e.game.Round()
	if r == nil {
		return e.game, nil, ErrMissingRound
	}
	return e.game, r, nil
}

// Game returns the game driven by the engine
func (e *Engine) Game() *whist.Game {
	return e.game
}

// Over reports whether the last round has been played
func (e *Engine) Over() bool {
	return e.game.Over()
}

// Bus returns the notification bus
func (e *Engine) Bus() EventBus {
	return e.bus
}

// Selection returns the human's pending decision
func (e *Engine) Selection() *SelectionState {
	return e.selection
}

// Deadline returns the human decision countdown
func (e *Engine) Deadline() *DeadlineTimer {
	return e.deadline
}

// BidPhase returns the bid phase controller
func (e *Engine) BidPhase() *PhaseController {
	return e.bid
}

// CardPhase returns the card phase controller
func (e *Engine) CardPhase() *PhaseController {
	return e.card
}

// Lifecycle returns the round lifecycle
func (e *Engine) Lifecycle() *RoundLifecycle {
	return e.lifecycle
}

// Rules returns the rules the engine enforces
func (e *Engine) Rules() whist.Rules {
	return e.rules
}
