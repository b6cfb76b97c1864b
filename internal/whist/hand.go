package whist

import "github.com/lox/whist/internal/deck"

// Hand is one trick: the seats in play order and the cards placed so far.
type Hand struct {
	Players []*Player
	Cards   []deck.Card
}

func newHand(players []*Player, leader int) *Hand {
	n := len(players)
	h := &Hand{
		Players: make([]*Player, n),
		Cards:   make([]deck.Card, 0, n),
	}
	for i := range n {
		h.Players[i] = players[(leader+i)%n]
	}
	return h
}

// SeatOf returns the play-order index of p in this trick, or -1
func (h *Hand) SeatOf(p *Player) int {
	for i, hp := range h.Players {
		if hp == p {
			return i
		}
	}
	return -1
}

// Next returns the player due to place a card, or nil once the trick is full
func (h *Hand) Next() *Player {
	if len(h.Cards) >= len(h.Players) {
		return nil
	}
	return h.Players[len(h.Cards)]
}

// Lead returns the suit of the first card, if any card was placed
func (h *Hand) Lead() (deck.Suit, bool) {
	if len(h.Cards) == 0 {
		return 0, false
	}
	return h.Cards[0].Suit, true
}

// Complete reports whether every seat has placed a card
func (h *Hand) Complete() bool {
	return len(h.Cards) == len(h.Players)
}
