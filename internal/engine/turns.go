package engine

import (
	"fmt"

	"github.com/lox/whist/internal/layout"
	"github.com/lox/whist/internal/whist"
)

// bidTurns feeds the bid phase: every seat of the round, in round order.
type bidTurns struct {
	e *Engine
}

func (t bidTurns) seats() ([]*whist.Player, error) {
	_, r, err := t.e.round()
	if err != nil {
		return nil, err
	}
	return r.Players, nil
}

func (t bidTurns) legal(p *whist.Player, value int) bool {
	r := t.e.game.Round()
	return r != nil && t.e.rules.CheckBid(r, p, value)
}

func (t bidTurns) commit(p *whist.Player, value int, by Resolution) error {
	_, r, err := t.e.round()
	if err != nil {
		return err
	}
	if err := r.PlaceBid(p, value); err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalValue, err)
	}
	t.e.logger.Info("Bid placed", "round", r.Index, "player", p.Name, "bid", value, "by", by)
	if p.Human {
		t.e.bus.Publish(BidSelectorEvent{Visible: false})
		t.e.bus.Publish(SelectionChangedEvent{Kind: AwaitBid, Candidate: -1})
	}
	t.e.bus.Publish(BidPlacedEvent{
		Player:   p.Name,
		Seat:     r.SeatOf(p),
		Bid:      value,
		Total:    r.BidTotal(),
		Resolved: by,
	})
	return nil
}

func (t bidTurns) decide(p *whist.Player) int {
	return t.e.strategy.Bid(t.e.game.Round(), p)
}

func (t bidTurns) armed(p *whist.Player) {
	r := t.e.game.Round()
	t.e.bus.Publish(BidSelectorEvent{Visible: true, Legal: t.e.rules.LegalBids(r, p)})
	t.e.bus.Publish(DeadlineArmedEvent{Kind: AwaitBid, Ticks: t.e.deadline.Ticks()})
}

func (t bidTurns) turn(seat int, p *whist.Player) {
	t.e.publishTurn(AwaitBid, seat, p)
}

func (t bidTurns) complete() {
	err := t.e.lifecycle.StartHand(0)
	if err != nil && !Ignorable(err) {
		t.e.logger.Error("Failed to start first hand", "error", err)
	}
}

// cardTurns feeds the card phase: the seats of the active hand, starting
// with the trick leader.
type cardTurns struct {
	e *Engine
}

func (t cardTurns) seats() ([]*whist.Player, error) {
	_, r, err := t.e.round()
	if err != nil {
		return nil, err
	}
	if r.Hand == nil {
		return nil, ErrMissingHand
	}
	return r.Hand.Players, nil
}

func (t cardTurns) legal(p *whist.Player, pos int) bool {
	r := t.e.game.Round()
	return r != nil && t.e.rules.CheckCard(r, p, pos)
}

func (t cardTurns) commit(p *whist.Player, pos int, by Resolution) error {
	_, r, err := t.e.round()
	if err != nil {
		return err
	}
	c, err := r.PlayCard(p, pos)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIllegalValue, err)
	}
	t.e.logger.Info("Card played", "round", r.Index, "player", p.Name, "card", c, "by", by)
	if p.Human {
		t.e.bus.Publish(SelectionChangedEvent{Kind: AwaitCard, Candidate: -1})
	}
	t.e.bus.Publish(CardPlayedEvent{Player: p.Name, Card: c, Resolved: by})
	return nil
}

func (t cardTurns) decide(p *whist.Player) int {
	return t.e.strategy.Card(t.e.game.Round(), p)
}

func (t cardTurns) armed(*whist.Player) {
	t.e.bus.Publish(DeadlineArmedEvent{Kind: AwaitCard, Ticks: t.e.deadline.Ticks()})
}

func (t cardTurns) turn(seat int, p *whist.Player) {
	t.e.publishTurn(AwaitCard, seat, p)
}

// complete leaves the full trick on the table for one unit before it is
// collected.
func (t cardTurns) complete() {
	t.e.lifecycle.scheduleEndHand()
}

func (e *Engine) publishTurn(kind DecisionKind, seat int, p *whist.Player) {
	if p == nil {
		e.bus.Publish(TurnChangedEvent{Phase: kind, Seat: seat, Position: -1, Hidden: true})
		return
	}
	pos := e.game.PositionOf(p)
	marker, ok := layout.SeatMarker(pos)
	e.bus.Publish(TurnChangedEvent{
		Phase:    kind,
		Seat:     seat,
		Player:   p.Name,
		Position: pos,
		Marker:   marker,
		Hidden:   !ok,
	})
}
