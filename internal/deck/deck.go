package deck

import (
	"math/rand/v2"
)

// CardsPerPlayer is the number of cards each seat contributes to the deck.
const CardsPerPlayer = 8

// Deck is the reduced whist deck: the 2*players highest ranks of every suit,
// eight cards per player.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// New creates a shuffled deck sized for the given number of players.
func New(players int, rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, players*CardsPerPlayer),
		rng:   rng,
	}

	lowest := Ace - Rank(2*players) + 1
	for _, suit := range Suits {
		for rank := Ace; rank >= lowest && rank >= Two; rank-- {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	d.Shuffle()
	return d
}

// Shuffle shuffles the deck using Fisher-Yates and resets the deal position
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if fewer than n remain
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Len returns the full size of the deck
func (d *Deck) Len() int {
	return len(d.cards)
}
