// Package whist holds the table model of the game (players, rounds, tricks)
// and the rules the turn engine consults: bid and card legality, trick
// winners, scoring, reward streaks and the round-repeat predicate.
package whist

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lox/whist/internal/deck"
)

const (
	MaxSeats  = 6
	MinSeats  = 2
	MaxCards  = deck.CardsPerPlayer
	MaxRounds = 12 + 3*MaxSeats
)

var (
	ErrSeatCount = errors.New("invalid number of players")
	ErrTwoHumans = errors.New("at most one human player is supported")
)

// RoundsNumber returns how many rounds a game with the given number of
// players lasts.
func RoundsNumber(players int) int {
	return 12 + 3*players
}

// RoundTypes returns the number of cards dealt in each round: players rounds
// of one card, two to seven, players rounds of eight, seven down to two and
// players rounds of one card again.
func RoundTypes(players int) []int {
	types := make([]int, 0, RoundsNumber(players))
	for range players {
		types = append(types, 1)
	}
	for n := 2; n < MaxCards; n++ {
		types = append(types, n)
	}
	for range players {
		types = append(types, MaxCards)
	}
	for n := MaxCards - 1; n >= 2; n-- {
		types = append(types, n)
	}
	for range players {
		types = append(types, 1)
	}
	return types
}

// Game is a whole match. CurrentRound starts at -1 and equals
// len(Rounds) once the last round has been played.
type Game struct {
	Players       [MaxSeats]*Player
	PlayersNumber int
	Rounds        []*Round
	CurrentRound  int
	Deck          *deck.Deck

	rng *rand.Rand
}

// NewGame seats the players in order and builds the round schedule. Seat
// order rotates by one position every round.
func NewGame(players []*Player, rng *rand.Rand) (*Game, error) {
	n := len(players)
	if n < MinSeats || n > MaxSeats {
		return nil, fmt.Errorf("%d players: %w", n, ErrSeatCount)
	}
	humans := 0
	for _, p := range players {
		if p.Human {
			humans++
		}
	}
	if humans > 1 {
		return nil, ErrTwoHumans
	}

	g := &Game{
		PlayersNumber: n,
		CurrentRound:  -1,
		rng:           rng,
	}
	copy(g.Players[:], players)

	g.Rounds = make([]*Round, 0, MaxRounds)
	for i, t := range RoundTypes(n) {
		order := make([]*Player, n)
		for s := range n {
			order[s] = players[(i+s)%n]
		}
		g.Rounds = append(g.Rounds, NewRound(i, t, order))
	}
	return g, nil
}

// Round returns the current round, or nil before the first and after the
// last round.
func (g *Game) Round() *Round {
	if g.CurrentRound < 0 || g.CurrentRound >= len(g.Rounds) {
		return nil
	}
	return g.Rounds[g.CurrentRound]
}

// PositionOf returns p's fixed position at the table, or -1
func (g *Game) PositionOf(p *Player) int {
	for i, gp := range g.Players {
		if gp != nil && gp == p {
			return i
		}
	}
	return -1
}

// Human returns the human player, or nil when every seat is a bot
func (g *Game) Human() *Player {
	for _, p := range g.Players {
		if p != nil && p.Human {
			return p
		}
	}
	return nil
}

// Reference is the player whose remaining cards decide when a round has run
// out of tricks: the human, or the first seat in an all-bot game.
func (g *Game) Reference() *Player {
	if h := g.Human(); h != nil {
		return h
	}
	return g.Players[0]
}

// NewDeck replaces the shared deck with a freshly shuffled one
func (g *Game) NewDeck() *deck.Deck {
	g.Deck = deck.New(g.PlayersNumber, g.rng)
	return g.Deck
}

// Over reports whether every round has been played
func (g *Game) Over() bool {
	return g.CurrentRound >= len(g.Rounds)
}

// Standings returns cumulative points by table position after the latest
// scored round.
func (g *Game) Standings() []int {
	points := make([]int, g.PlayersNumber)
	idx := min(g.CurrentRound, len(g.Rounds)-1)
	if idx < 0 {
		return points
	}
	r := g.Rounds[idx]
	for pos := range g.PlayersNumber {
		if seat := r.SeatOf(g.Players[pos]); seat >= 0 {
			points[pos] = r.Points[seat]
		}
	}
	return points
}
