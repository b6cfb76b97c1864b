package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/deck"
	"github.com/lox/whist/internal/whist"
)

// GreedyBot bids the number of sure-looking tricks in its hand and then plays
// to hit that bid: it takes tricks cheaply while short of the bid and ducks
// once it has enough.
type GreedyBot struct {
	rules  whist.Rules
	logger *log.Logger
}

// NewGreedyBot creates a new GreedyBot instance
func NewGreedyBot(rules whist.Rules, logger *log.Logger) *GreedyBot {
	return &GreedyBot{rules: rules, logger: logger}
}

func (b *GreedyBot) Bid(r *whist.Round, p *whist.Player) int {
	want := min(b.estimate(r, p), r.Type)

	bids := b.rules.LegalBids(r, p)
	if len(bids) == 0 {
		b.logger.Error("No legal bid", "player", p.Name, "round", r.Index)
		return 0
	}
	best := bids[0]
	for _, v := range bids[1:] {
		if distance(v, want) < distance(best, want) {
			best = v
		}
	}
	b.logger.Debug("Greedy bid", "player", p.Name, "estimate", want, "bid", best)
	return best
}

// estimate counts aces and kings, plus trumps from the jack up.
func (b *GreedyBot) estimate(r *whist.Round, p *whist.Player) int {
	n := 0
	for _, c := range p.Remaining() {
		switch {
		case c.Rank >= deck.King:
			n++
		case r.HasTrump() && c.Suit == r.Trump.Suit && c.Rank >= deck.Jack:
			n++
		}
	}
	return n
}

func (b *GreedyBot) Card(r *whist.Round, p *whist.Player) int {
	slots := b.rules.LegalCards(r, p)
	if len(slots) == 0 {
		b.logger.Error("No legal card", "player", p.Name, "round", r.Index)
		return p.NthCard(0)
	}

	seat := r.SeatOf(p)
	short := seat >= 0 && r.Tricks[seat] < r.Bids[seat]

	var winners, losers []int
	for _, s := range slots {
		if r.WouldWin(p.Cards[s]) {
			winners = append(winners, s)
		} else {
			losers = append(losers, s)
		}
	}

	var slot int
	switch {
	case short && len(winners) > 0:
		slot = lowest(p, winners)
	case !short && len(losers) > 0:
		slot = highest(p, losers)
	default:
		slot = lowest(p, slots)
	}
	b.logger.Debug("Greedy card", "player", p.Name, "short", short, "card", p.Cards[slot])
	return slot
}

func lowest(p *whist.Player, slots []int) int {
	best := slots[0]
	for _, s := range slots[1:] {
		if p.Cards[s].Rank < p.Cards[best].Rank {
			best = s
		}
	}
	return best
}

func highest(p *whist.Player, slots []int) int {
	best := slots[0]
	for _, s := range slots[1:] {
		if p.Cards[s].Rank > p.Cards[best].Rank {
			best = s
		}
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
