package whist

import (
	"errors"
	"fmt"

	"github.com/lox/whist/internal/deck"
)

var (
	ErrNotSeated   = errors.New("player is not seated in this round")
	ErrBidPlaced   = errors.New("bid already placed")
	ErrNoHand      = errors.New("no hand in progress")
	ErrNotYourTurn = errors.New("not this player's turn")
	ErrEmptySlot   = errors.New("card slot is empty")
	ErrShortDeck   = errors.New("deck too small for round")
)

// Reward marks a bonus or penalty earned at the end of a round
type Reward int

const (
	RewardNone Reward = iota
	RewardPositive
	RewardNegative
)

func (r Reward) String() string {
	switch r {
	case RewardPositive:
		return "positive"
	case RewardNegative:
		return "negative"
	default:
		return "none"
	}
}

// Round is one deal: bidding followed by Type tricks. All per-seat slices are
// indexed by the round's seat order, not by game position.
type Round struct {
	Index   int
	Type    int
	Trump   deck.Card
	Players []*Player

	Bids   []int
	HasBid []bool
	Tricks []int
	Points []int
	Streak []int
	Bonus  []Reward

	Hand *Hand
}

// NewRound creates a round with the given seat order
func NewRound(index, roundType int, players []*Player) *Round {
	n := len(players)
	return &Round{
		Index:   index,
		Type:    roundType,
		Players: players,
		Bids:    make([]int, n),
		HasBid:  make([]bool, n),
		Tricks:  make([]int, n),
		Points:  make([]int, n),
		Streak:  make([]int, n),
		Bonus:   make([]Reward, n),
	}
}

// SeatOf returns the seat index of p in this round, or -1
func (r *Round) SeatOf(p *Player) int {
	for i, rp := range r.Players {
		if rp == p {
			return i
		}
	}
	return -1
}

// BidsPlaced returns how many seats have bid
func (r *Round) BidsPlaced() int {
	n := 0
	for _, ok := range r.HasBid {
		if ok {
			n++
		}
	}
	return n
}

// BidTotal returns the sum of the bids placed so far
func (r *Round) BidTotal() int {
	total := 0
	for i, b := range r.Bids {
		if r.HasBid[i] {
			total += b
		}
	}
	return total
}

// TricksToDate returns the number of tricks already won this round
func (r *Round) TricksToDate() int {
	total := 0
	for _, t := range r.Tricks {
		total += t
	}
	return total
}

// PlaceBid records p's bid. Legality is the caller's concern.
func (r *Round) PlaceBid(p *Player, bid int) error {
	seat := r.SeatOf(p)
	if seat < 0 {
		return fmt.Errorf("place bid for %s: %w", p.Name, ErrNotSeated)
	}
	if r.HasBid[seat] {
		return fmt.Errorf("place bid for %s: %w", p.Name, ErrBidPlaced)
	}
	r.Bids[seat] = bid
	r.HasBid[seat] = true
	return nil
}

// Distribute clears every hand and deals Type cards to each seat. In rounds
// of fewer than MaxCards cards the next card turned up is the trump.
func (r *Round) Distribute(d *deck.Deck) error {
	need := r.Type * len(r.Players)
	if r.Type < MaxCards {
		need++
	}
	left := d.Remaining()
	cards := d.Deal(need)
	if cards == nil {
		return fmt.Errorf("round %d needs %d cards, %d left: %w", r.Index, need, left, ErrShortDeck)
	}

	for _, p := range r.Players {
		p.clear()
	}
	n := len(r.Players)
	for i := range r.Type {
		for seat, p := range r.Players {
			p.Cards[i] = cards[i*n+seat]
		}
	}

	r.Trump = deck.Card{}
	if r.Type < MaxCards {
		r.Trump = cards[need-1]
	}
	return nil
}

// CopyScore carries the cumulative fields of prev into r
func (r *Round) CopyScore(prev *Round) {
	for seat, p := range r.Players {
		from := prev.SeatOf(p)
		if from < 0 {
			continue
		}
		r.Points[seat] = prev.Points[from]
		r.Streak[seat] = prev.Streak[from]
	}
}

// Reinitialize discards bids, tricks and the active hand so the round can be
// dealt again. Cumulative points and streaks are kept.
func (r *Round) Reinitialize() {
	for i := range r.Players {
		r.Bids[i] = 0
		r.HasBid[i] = false
		r.Tricks[i] = 0
		r.Bonus[i] = RewardNone
		r.Players[i].clear()
	}
	r.Trump = deck.Card{}
	r.Hand = nil
}

// StartHand replaces the active hand with a new trick led by seat leader
func (r *Round) StartHand(leader int) *Hand {
	r.Hand = newHand(r.Players, leader)
	return r.Hand
}

// PlayCard moves the card in slot pos of p's hand onto the active trick.
func (r *Round) PlayCard(p *Player, pos int) (deck.Card, error) {
	if r.Hand == nil {
		return deck.Card{}, ErrNoHand
	}
	if r.Hand.Next() != p {
		return deck.Card{}, fmt.Errorf("play card for %s: %w", p.Name, ErrNotYourTurn)
	}
	c, ok := p.take(pos)
	if !ok {
		return deck.Card{}, fmt.Errorf("play slot %d for %s: %w", pos, p.Name, ErrEmptySlot)
	}
	r.Hand.Cards = append(r.Hand.Cards, c)
	return c, nil
}

// HasTrump reports whether the round is played with a trump suit
func (r *Round) HasTrump() bool {
	return !r.Trump.IsZero()
}
