// Package bot provides automated decision functions for bot seats and for
// humans whose decision window runs out. Every strategy returns a legal value
// synchronously.
package bot

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/whist"
)

// Strategy decides bids and cards for a seat
type Strategy interface {
	// Bid returns a legal bid for p in r
	Bid(r *whist.Round, p *whist.Player) int
	// Card returns the slot of a legal card for p in the active trick of r
	Card(r *whist.Round, p *whist.Player) int
}

var strategies = map[string]func(rules whist.Rules, rng *rand.Rand, logger *log.Logger) Strategy{
	"random": func(rules whist.Rules, rng *rand.Rand, logger *log.Logger) Strategy {
		return NewRandBot(rules, rng, logger)
	},
	"greedy": func(rules whist.Rules, _ *rand.Rand, logger *log.Logger) Strategy {
		return NewGreedyBot(rules, logger)
	},
}

// Names returns the registered strategy names in sorted order
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New resolves a strategy by name
func New(name string, rules whist.Rules, rng *rand.Rand, logger *log.Logger) (Strategy, error) {
	ctor, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q", name)
	}
	return ctor(rules, rng, logger.WithPrefix("bot").With("strategy", name)), nil
}

// Table routes decisions to a per-player strategy, falling back to a default
// for players without one (the human on timeout, among others).
type Table struct {
	byPlayer map[*whist.Player]Strategy
	fallback Strategy
}

// NewTable creates a routing strategy with the given fallback
func NewTable(fallback Strategy) *Table {
	return &Table{byPlayer: make(map[*whist.Player]Strategy), fallback: fallback}
}

// Seat assigns s to p
func (t *Table) Seat(p *whist.Player, s Strategy) {
	t.byPlayer[p] = s
}

func (t *Table) strategy(p *whist.Player) Strategy {
	if s, ok := t.byPlayer[p]; ok {
		return s
	}
	return t.fallback
}

func (t *Table) Bid(r *whist.Round, p *whist.Player) int {
	return t.strategy(p).Bid(r, p)
}

func (t *Table) Card(r *whist.Round, p *whist.Player) int {
	return t.strategy(p).Card(r, p)
}
