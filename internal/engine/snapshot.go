package engine

import (
	"github.com/lox/whist/internal/deck"
	"github.com/lox/whist/internal/whist"
)

// SeatView is one table position as a renderer sees it
type SeatView struct {
	Name    string
	Human   bool
	Bid     int
	HasBid  bool
	Tricks  int
	Points  int
	Reward  whist.Reward
	Played  deck.Card
	Active  bool
	Leading bool
}

// Snapshot is a copy of everything a renderer shows. It shares no memory
// with the engine and may be handed to another goroutine.
type Snapshot struct {
	Round     int
	Rounds    int
	RoundType int
	Trump     deck.Card
	Seats     []SeatView
	Hand      []deck.Card
	Legal     []int
	Awaiting  DecisionKind
	Candidate int
	Remaining int
	Ticks     int
	Over      bool
}

// Snapshot copies the current table state
func (e *Engine) Snapshot() Snapshot {
	g := e.game
	s := Snapshot{
		Round:     g.CurrentRound,
		Rounds:    len(g.Rounds),
		Seats:     make([]SeatView, g.PlayersNumber),
		Awaiting:  e.selection.Kind(),
		Candidate: -1,
		Ticks:     e.deadline.Ticks(),
		Over:      g.Over(),
	}
	if c, ok := e.selection.Candidate(); ok {
		s.Candidate = c
	}
	if e.deadline.Armed() {
		s.Remaining = e.deadline.Remaining()
	}

	r := g.Round()
	for pos := range g.PlayersNumber {
		p := g.Players[pos]
		v := SeatView{Name: p.Name, Human: p.Human}
		if r != nil {
			if seat := r.SeatOf(p); seat >= 0 {
				v.Bid = r.Bids[seat]
				v.HasBid = r.HasBid[seat]
				v.Tricks = r.Tricks[seat]
				v.Points = r.Points[seat]
				v.Reward = r.Bonus[seat]
			}
			if r.Hand != nil {
				if i := r.Hand.SeatOf(p); i >= 0 && i < len(r.Hand.Cards) {
					v.Played = r.Hand.Cards[i]
				}
				v.Active = r.Hand.Next() == p && s.Awaiting != AwaitBid
				v.Leading = len(r.Hand.Players) > 0 && r.Hand.Players[0] == p
			}
		} else if g.Over() {
			v.Points = g.Standings()[pos]
		}
		s.Seats[pos] = v
	}
	if r == nil {
		return s
	}

	s.RoundType = r.Type
	s.Trump = r.Trump
	if r.Hand == nil {
		for pos := range g.PlayersNumber {
			seat := r.SeatOf(g.Players[pos])
			s.Seats[pos].Active = seat == r.BidsPlaced()
		}
	}
	if h := g.Human(); h != nil {
		s.Hand = h.Remaining()
		switch s.Awaiting {
		case AwaitBid:
			s.Legal = e.rules.LegalBids(r, h)
		case AwaitCard:
			for _, pos := range e.rules.LegalCards(r, h) {
				s.Legal = append(s.Legal, slotOf(h, pos))
			}
		}
	}
	return s
}

// slotOf converts a card position into its index among remaining cards
func slotOf(p *whist.Player, pos int) int {
	slot := 0
	for i := 0; i < pos; i++ {
		if !p.Cards[i].IsZero() {
			slot++
		}
	}
	return slot
}
