package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/whist"
)

// RandBot picks uniformly among legal bids and cards
type RandBot struct {
	rules  whist.Rules
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rules whist.Rules, rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rules: rules, rng: rng, logger: logger}
}

func (b *RandBot) Bid(r *whist.Round, p *whist.Player) int {
	bids := b.rules.LegalBids(r, p)
	if len(bids) == 0 {
		b.logger.Error("No legal bid", "player", p.Name, "round", r.Index)
		return 0
	}
	bid := bids[b.rng.IntN(len(bids))]
	b.logger.Debug("Random bid", "player", p.Name, "bid", bid)
	return bid
}

func (b *RandBot) Card(r *whist.Round, p *whist.Player) int {
	slots := b.rules.LegalCards(r, p)
	if len(slots) == 0 {
		b.logger.Error("No legal card", "player", p.Name, "round", r.Index)
		return p.NthCard(0)
	}
	slot := slots[b.rng.IntN(len(slots))]
	b.logger.Debug("Random card", "player", p.Name, "card", p.Cards[slot])
	return slot
}
