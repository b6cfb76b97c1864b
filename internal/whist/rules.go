package whist

import "github.com/lox/whist/internal/deck"

const (
	rewardStreak = 5
	rewardPoints = 10
	madeBonus    = 5
)

// BidRule decides whether seat may bid value in r. The range 0..r.Type is
// checked before the rule is consulted.
type BidRule func(r *Round, seat, value int) bool

// RepeatRule decides whether a finished round is replayed instead of scored.
type RepeatRule func(r *Round) bool

// StandardBid forbids the last bidder from making the bids add up to the
// number of cards dealt, so at least one seat must miss.
func StandardBid(r *Round, seat, value int) bool {
	if r.BidsPlaced() == len(r.Players)-1 && !r.HasBid[seat] {
		return r.BidTotal()+value != r.Type
	}
	return true
}

// AnyBid accepts every bid in range.
func AnyBid(*Round, int, int) bool { return true }

// NeverRepeat scores every round.
func NeverRepeat(*Round) bool { return false }

// RepeatWhenAllMissed replays a round in which no seat made its bid.
func RepeatWhenAllMissed(r *Round) bool {
	for i := range r.Players {
		if r.Tricks[i] == r.Bids[i] {
			return false
		}
	}
	return true
}

// Rules bundles the pluggable predicates with the fixed card rules.
type Rules struct {
	Bid    BidRule
	Repeat RepeatRule
}

// DefaultRules returns the standard bid rule and never repeats rounds
func DefaultRules() Rules {
	return Rules{Bid: StandardBid, Repeat: NeverRepeat}
}

// CheckBid reports whether p may bid value in r
func (rs Rules) CheckBid(r *Round, p *Player, value int) bool {
	seat := r.SeatOf(p)
	if seat < 0 || r.HasBid[seat] {
		return false
	}
	if value < 0 || value > r.Type {
		return false
	}
	if rs.Bid == nil {
		return true
	}
	return rs.Bid(r, seat, value)
}

// LegalBids lists every bid p may place in r
func (rs Rules) LegalBids(r *Round, p *Player) []int {
	var bids []int
	for v := 0; v <= r.Type; v++ {
		if rs.CheckBid(r, p, v) {
			bids = append(bids, v)
		}
	}
	return bids
}

// CheckCard reports whether p may play the card in slot pos. A player must
// follow the lead suit and, lacking it, must trump when holding a trump.
func (rs Rules) CheckCard(r *Round, p *Player, pos int) bool {
	if r.Hand == nil || r.Hand.Next() != p {
		return false
	}
	if pos < 0 || pos >= MaxCards || p.Cards[pos].IsZero() {
		return false
	}
	card := p.Cards[pos]
	lead, ok := r.Hand.Lead()
	if !ok {
		return true
	}
	if p.Holds(lead) {
		return card.Suit == lead
	}
	if r.HasTrump() && p.Holds(r.Trump.Suit) {
		return card.Suit == r.Trump.Suit
	}
	return true
}

// LegalCards lists the slots p may play from
func (rs Rules) LegalCards(r *Round, p *Player) []int {
	var slots []int
	for pos := range MaxCards {
		if rs.CheckCard(r, p, pos) {
			slots = append(slots, pos)
		}
	}
	return slots
}

// TrickWinner returns the player who took the active trick: the highest
// trump, or the highest card of the lead suit.
func (rs Rules) TrickWinner(r *Round) *Player {
	h := r.Hand
	if h == nil || len(h.Cards) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(h.Cards); i++ {
		if beats(h.Cards[i], h.Cards[best], h.Cards[0].Suit, r) {
			best = i
		}
	}
	return h.Players[best]
}

func beats(c, best deck.Card, lead deck.Suit, r *Round) bool {
	if r.HasTrump() {
		trump := r.Trump.Suit
		if c.Suit == trump && best.Suit != trump {
			return true
		}
		if c.Suit != trump && best.Suit == trump {
			return false
		}
	}
	if c.Suit == best.Suit {
		return c.Rank > best.Rank
	}
	return c.Suit == lead && best.Suit != lead
}

// RepeatRound reports whether r should be replayed
func (rs Rules) RepeatRound(r *Round) bool {
	if rs.Repeat == nil {
		return false
	}
	return rs.Repeat(r)
}

// ScoreRound adds this round's result to every seat: 5 plus the bid for an
// exact bid, minus the difference otherwise.
func ScoreRound(r *Round) {
	for i := range r.Players {
		diff := r.Tricks[i] - r.Bids[i]
		if diff == 0 {
			r.Points[i] += madeBonus + r.Bids[i]
		} else {
			r.Points[i] -= abs(diff)
		}
	}
}

// ApplyRewards advances every seat's streak for the scored round and grants
// the bonus or penalty when a streak reaches five. One-card rounds do not
// count towards streaks.
func ApplyRewards(r *Round) {
	for i := range r.Players {
		r.Bonus[i] = RewardNone
		if r.Type == 1 {
			continue
		}
		if r.Tricks[i] == r.Bids[i] {
			r.Streak[i] = max(r.Streak[i], 0) + 1
		} else {
			r.Streak[i] = min(r.Streak[i], 0) - 1
		}
		switch r.Streak[i] {
		case rewardStreak:
			r.Points[i] += rewardPoints
			r.Bonus[i] = RewardPositive
			r.Streak[i] = 0
		case -rewardStreak:
			r.Points[i] -= rewardPoints
			r.Bonus[i] = RewardNegative
			r.Streak[i] = 0
		}
	}
}

// RewardAt returns the reward p earned in round idx
func (g *Game) RewardAt(idx int, p *Player) Reward {
	if idx < 0 || idx >= len(g.Rounds) {
		return RewardNone
	}
	r := g.Rounds[idx]
	seat := r.SeatOf(p)
	if seat < 0 {
		return RewardNone
	}
	return r.Bonus[seat]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// WouldWin reports whether c would currently take the active trick. Leading
// a trick always counts as winning it.
func (r *Round) WouldWin(c deck.Card) bool {
	h := r.Hand
	if h == nil || len(h.Cards) == 0 {
		return true
	}
	lead := h.Cards[0].Suit
	best := h.Cards[0]
	for _, other := range h.Cards[1:] {
		if beats(other, best, lead, r) {
			best = other
		}
	}
	return beats(c, best, lead, r)
}
