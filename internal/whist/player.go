package whist

import (
	"slices"

	"github.com/lox/whist/internal/deck"
)

// Player is a seat occupant. Cards keeps fixed slots; a played card leaves
// its slot empty.
type Player struct {
	Name  string
	Human bool
	Cards [MaxCards]deck.Card
}

// NewPlayer creates a player with an empty hand
func NewPlayer(name string, human bool) *Player {
	return &Player{Name: name, Human: human}
}

// CardsNumber returns how many cards the player still holds
func (p *Player) CardsNumber() int {
	n := 0
	for _, c := range p.Cards {
		if !c.IsZero() {
			n++
		}
	}
	return n
}

// NthCard returns the slot of the n-th (zero based) card still held, or -1.
// Interfaces that show only remaining cards select through it.
func (p *Player) NthCard(n int) int {
	if n < 0 {
		return -1
	}
	for pos, c := range p.Cards {
		if c.IsZero() {
			continue
		}
		if n == 0 {
			return pos
		}
		n--
	}
	return -1
}

// Holds reports whether the player has a card of the given suit
func (p *Player) Holds(suit deck.Suit) bool {
	for _, c := range p.Cards {
		if !c.IsZero() && c.Suit == suit {
			return true
		}
	}
	return false
}

// Remaining returns the held cards in slot order
func (p *Player) Remaining() []deck.Card {
	cards := make([]deck.Card, 0, MaxCards)
	for _, c := range p.Cards {
		if !c.IsZero() {
			cards = append(cards, c)
		}
	}
	return cards
}

// SortCards orders the hand by suit and rank, moving empty slots last
func (p *Player) SortCards() {
	slices.SortStableFunc(p.Cards[:], func(a, b deck.Card) int {
		switch {
		case deck.Less(a, b):
			return -1
		case deck.Less(b, a):
			return 1
		default:
			return 0
		}
	})
}

func (p *Player) take(pos int) (deck.Card, bool) {
	if pos < 0 || pos >= MaxCards || p.Cards[pos].IsZero() {
		return deck.Card{}, false
	}
	c := p.Cards[pos]
	p.Cards[pos] = deck.Card{}
	return c, true
}

func (p *Player) clear() {
	p.Cards = [MaxCards]deck.Card{}
}
