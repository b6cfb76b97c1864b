package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/whist"
)

// RoundLifecycle deals rounds, opens and collects tricks, scores finished
// rounds and moves the game on to the next one.
type RoundLifecycle struct {
	e      *Engine
	logger *log.Logger

	// collected is the last hand EndHand has run for
	collected  *whist.Hand
	endTimer   *sched.Timer
	roundTimer *sched.Timer
}

func newRoundLifecycle(e *Engine, logger *log.Logger) *RoundLifecycle {
	return &RoundLifecycle{e: e, logger: logger.WithPrefix("lifecycle")}
}

// StartRound deals the next round and opens its bid phase from seat 0. Past
// the last round it reports ErrGameOver and deals nothing.
func (l *RoundLifecycle) StartRound() error {
	g := l.e.game
	if g == nil {
		return ErrMissingGame
	}
	if g.Over() {
		return ErrGameOver
	}

	next := g.CurrentRound + 1
	if next >= whist.RoundsNumber(g.PlayersNumber) {
		g.CurrentRound = next
		standings := g.Standings()
		l.logger.Info("Game over", "rounds", next, "standings", standings)
		names := make([]string, g.PlayersNumber)
		for i := range g.PlayersNumber {
			names[i] = g.Players[i].Name
		}
		l.e.bus.Publish(GameOverEvent{Standings: standings, Players: names})
		return ErrGameOver
	}

	r := g.Rounds[next]
	if next > 0 {
		r.CopyScore(g.Rounds[next-1])
	}
	if err := r.Distribute(g.NewDeck()); err != nil {
		return fmt.Errorf("start round %d: %w", next, err)
	}
	if h := g.Human(); h != nil {
		h.SortCards()
	}
	g.CurrentRound = next
	l.collected = nil

	rewards := make([]whist.Reward, g.PlayersNumber)
	for pos := range g.PlayersNumber {
		rewards[pos] = g.RewardAt(next-1, g.Players[pos])
	}
	l.logger.Info("Round started", "round", next, "type", r.Type, "trump", r.Trump)
	l.e.bus.Publish(RoundStartedEvent{
		Round:     next,
		RoundType: r.Type,
		Trump:     r.Trump,
		Rewards:   rewards,
	})
	return l.e.bid.Start(0)
}

// StartHand opens a trick led by the round seat winner. It reports
// ErrRoundOver, clearing the active hand, once the reference player has no
// cards left.
func (l *RoundLifecycle) StartHand(winner int) error {
	g, r, err := l.e.round()
	if err != nil {
		return err
	}
	if winner < 0 || winner >= len(r.Players) {
		return fmt.Errorf("start hand led by seat %d: %w", winner, ErrIllegalValue)
	}
	ref := g.Reference()
	if ref == nil {
		return ErrMissingPlayer
	}
	if ref.CardsNumber() == 0 {
		r.Hand = nil
		return ErrRoundOver
	}

	r.StartHand(winner)
	leader := r.Players[winner]
	l.logger.Debug("Hand started", "round", r.Index, "leader", leader.Name)
	l.e.bus.Publish(HandStartedEvent{Leader: leader.Name, Seat: winner})
	return l.e.card.Start(0)
}

func (l *RoundLifecycle) scheduleEndHand() {
	if l.endTimer != nil {
		l.endTimer.Stop()
	}
	l.endTimer = l.e.sched.After(l.e.cfg.BotDelay, func() {
		l.endTimer = nil
		if err := l.EndHand(); err != nil && !errors.Is(err, ErrGameOver) {
			if Ignorable(err) {
				l.logger.Debug("End of hand dropped", "error", err)
				return
			}
			l.logger.Error("Failed to end hand", "error", err)
		}
	})
}

// EndHand collects a full trick: the winner's trick count goes up and the
// winner leads the next one. When no cards are left the round is replayed or
// scored, and the next round is dealt one unit later. A hand is collected at
// most once.
func (l *RoundLifecycle) EndHand() error {
	g, r, err := l.e.round()
	if err != nil {
		return err
	}
	h := r.Hand
	if h == nil {
		return ErrMissingHand
	}
	if !h.Complete() || h == l.collected {
		return fmt.Errorf("end hand with %d of %d cards: %w", len(h.Cards), len(h.Players), ErrIllegalValue)
	}
	l.collected = h

	winner := l.e.rules.TrickWinner(r)
	seat := r.SeatOf(winner)
	if seat < 0 {
		return ErrMissingPlayer
	}
	r.Tricks[seat]++
	l.logger.Debug("Hand won", "round", r.Index, "winner", winner.Name, "tricks", r.Tricks[seat])
	l.e.bus.Publish(HandEndedEvent{Winner: winner.Name, Seat: seat, Tricks: r.Tricks[seat]})

	err = l.StartHand(seat)
	if !errors.Is(err, ErrRoundOver) {
		return err
	}

	if l.e.rules.RepeatRound(r) {
		l.logger.Info("Round repeated", "round", r.Index)
		r.Reinitialize()
		g.CurrentRound--
		l.e.bus.Publish(RoundRepeatedEvent{Round: r.Index})
	} else {
		whist.ScoreRound(r)
		whist.ApplyRewards(r)
		points := make([]int, g.PlayersNumber)
		rewards := make([]whist.Reward, g.PlayersNumber)
		for pos := range g.PlayersNumber {
			s := r.SeatOf(g.Players[pos])
			points[pos] = r.Points[s]
			rewards[pos] = r.Bonus[s]
		}
		l.logger.Info("Round scored", "round", r.Index, "points", points)
		l.e.bus.Publish(RoundScoredEvent{Round: r.Index, Points: points, Rewards: rewards})
	}
	l.scheduleStartRound()
	return nil
}

func (l *RoundLifecycle) scheduleStartRound() {
	if l.roundTimer != nil {
		l.roundTimer.Stop()
	}
	l.roundTimer = l.e.sched.After(l.e.cfg.BotDelay, func() {
		l.roundTimer = nil
		if err := l.StartRound(); err != nil && !errors.Is(err, ErrGameOver) {
			l.logger.Error("Failed to start round", "error", err)
		}
	})
}

// Pending reports whether a deferred end of hand or round transition is
// still scheduled.
func (l *RoundLifecycle) Pending() bool {
	return l.endTimer != nil || l.roundTimer != nil
}
