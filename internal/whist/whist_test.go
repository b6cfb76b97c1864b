package whist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whist/internal/deck"
	"github.com/lox/whist/internal/randutil"
)

func card(s deck.Suit, r deck.Rank) deck.Card { return deck.NewCard(s, r) }

func testPlayers(n int) []*Player {
	names := []string{"Ana", "Bogdan", "Cristi", "Dana", "Elena", "Florin"}
	players := make([]*Player, n)
	for i := range n {
		players[i] = NewPlayer(names[i], false)
	}
	return players
}

func TestRoundTypes(t *testing.T) {
	for p := MinSeats; p <= MaxSeats; p++ {
		types := RoundTypes(p)
		require.Len(t, types, RoundsNumber(p))
		assert.Equal(t, 1, types[0])
		assert.Equal(t, 1, types[len(types)-1])
	}
	assert.Equal(t, []int{1, 1, 2, 3, 4, 5, 6, 7, 8, 8, 7, 6, 5, 4, 3, 2, 1, 1}, RoundTypes(2))
	assert.Equal(t, 24, RoundsNumber(4))
}

func TestNewGameValidation(t *testing.T) {
	_, err := NewGame(testPlayers(1), randutil.New(1))
	assert.ErrorIs(t, err, ErrSeatCount)

	players := testPlayers(3)
	players[0].Human = true
	players[1].Human = true
	_, err = NewGame(players, randutil.New(1))
	assert.ErrorIs(t, err, ErrTwoHumans)
}

func TestNewGameRotatesSeats(t *testing.T) {
	players := testPlayers(4)
	g, err := NewGame(players, randutil.New(1))
	require.NoError(t, err)

	assert.Equal(t, -1, g.CurrentRound)
	assert.Nil(t, g.Round())
	assert.Same(t, players[0], g.Rounds[0].Players[0])
	assert.Same(t, players[1], g.Rounds[1].Players[0])
	assert.Same(t, players[0], g.Rounds[4].Players[0])
	assert.Same(t, players[0], g.Reference())
}

func TestDistributeDealsTypeCardsAndTrump(t *testing.T) {
	g, err := NewGame(testPlayers(4), randutil.New(3))
	require.NoError(t, err)

	r := g.Rounds[7]
	require.NoError(t, r.Distribute(g.NewDeck()))
	for _, p := range r.Players {
		assert.Equal(t, r.Type, p.CardsNumber())
	}
	assert.True(t, r.HasTrump())

	eight := g.Rounds[10]
	require.Equal(t, MaxCards, eight.Type)
	require.NoError(t, eight.Distribute(g.NewDeck()))
	assert.False(t, eight.HasTrump(), "no card left to turn up")
}

func TestDistributeFollowsDeckOrder(t *testing.T) {
	g, err := NewGame(testPlayers(4), randutil.New(3))
	require.NoError(t, err)
	r := g.Rounds[7]
	need := r.Type*4 + 1

	expected := deck.New(4, randutil.New(5)).Deal(need)
	require.NoError(t, r.Distribute(deck.New(4, randutil.New(5))))
	for seat, p := range r.Players {
		for i := range r.Type {
			assert.Equal(t, expected[i*4+seat], p.Cards[i])
		}
	}
	assert.Equal(t, expected[need-1], r.Trump)
}

func TestDistributeShortDeck(t *testing.T) {
	g, err := NewGame(testPlayers(4), randutil.New(3))
	require.NoError(t, err)
	r := g.Rounds[7]

	d := deck.New(4, randutil.New(5))
	require.NotNil(t, d.Deal(d.Len()-2))
	err = r.Distribute(d)
	assert.ErrorIs(t, err, ErrShortDeck)
	assert.Equal(t, 2, d.Remaining(), "a failed deal takes nothing")
}

func TestStandardBidForbidsMatchingTotal(t *testing.T) {
	players := testPlayers(3)
	r := NewRound(0, 3, players)
	rules := DefaultRules()

	require.NoError(t, r.PlaceBid(players[0], 1))
	require.NoError(t, r.PlaceBid(players[1], 1))

	assert.False(t, rules.CheckBid(r, players[2], 1), "1+1+1 equals the cards dealt")
	assert.True(t, rules.CheckBid(r, players[2], 0))
	assert.True(t, rules.CheckBid(r, players[2], 2))
	assert.False(t, rules.CheckBid(r, players[2], 4), "out of range")
	assert.False(t, rules.CheckBid(r, players[0], 0), "already bid")
	assert.Equal(t, []int{0, 2, 3}, rules.LegalBids(r, players[2]))

	rules.Bid = AnyBid
	assert.True(t, rules.CheckBid(r, players[2], 1))
}

func TestPlaceBidTwice(t *testing.T) {
	players := testPlayers(2)
	r := NewRound(0, 1, players)
	require.NoError(t, r.PlaceBid(players[0], 0))
	assert.ErrorIs(t, r.PlaceBid(players[0], 1), ErrBidPlaced)
	assert.ErrorIs(t, r.PlaceBid(NewPlayer("x", false), 1), ErrNotSeated)
}

func TestCheckCardFollowSuitThenTrump(t *testing.T) {
	players := testPlayers(3)
	r := NewRound(0, 3, players)
	r.Trump = card(deck.Hearts, deck.Two)
	players[0].Cards[0] = card(deck.Spades, deck.Ace)
	players[1].Cards[0] = card(deck.Clubs, deck.King)
	players[1].Cards[1] = card(deck.Hearts, deck.Nine)
	players[1].Cards[2] = card(deck.Spades, deck.Ten)
	players[2].Cards[0] = card(deck.Clubs, deck.Ace)
	players[2].Cards[1] = card(deck.Hearts, deck.Ten)

	rules := DefaultRules()
	r.StartHand(0)
	assert.False(t, rules.CheckCard(r, players[1], 0), "not their turn")
	require.True(t, rules.CheckCard(r, players[0], 0))
	_, err := r.PlayCard(players[0], 0)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, rules.LegalCards(r, players[1]), "must follow spades")
	_, err = r.PlayCard(players[1], 2)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, rules.LegalCards(r, players[2]), "no spades, must trump")
	_, err = r.PlayCard(players[2], 1)
	require.NoError(t, err)

	assert.True(t, r.Hand.Complete())
	assert.Same(t, players[2], rules.TrickWinner(r))
}

func TestTrickWinnerWithoutTrump(t *testing.T) {
	players := testPlayers(3)
	r := NewRound(0, 8, players)
	r.Hand = newHand(players, 1)
	r.Hand.Cards = []deck.Card{
		card(deck.Diamonds, deck.Ten),
		card(deck.Spades, deck.Ace),
		card(deck.Diamonds, deck.Queen),
	}
	assert.Same(t, players[0], DefaultRules().TrickWinner(r), "seat 0 played third")
}

func TestNthCardSkipsEmptySlots(t *testing.T) {
	p := NewPlayer("x", true)
	p.Cards[0] = card(deck.Spades, deck.Ace)
	p.Cards[2] = card(deck.Spades, deck.King)
	p.Cards[5] = card(deck.Clubs, deck.Nine)

	assert.Equal(t, 0, p.NthCard(0))
	assert.Equal(t, 2, p.NthCard(1))
	assert.Equal(t, 5, p.NthCard(2))
	assert.Equal(t, -1, p.NthCard(3))
	assert.Equal(t, -1, p.NthCard(-1))
	assert.Equal(t, 3, p.CardsNumber())

	p.SortCards()
	assert.Equal(t, []deck.Card{card(deck.Spades, deck.King), card(deck.Spades, deck.Ace), card(deck.Clubs, deck.Nine)}, p.Remaining())
	assert.Equal(t, 0, p.NthCard(0))
}

func TestScoreAndRewards(t *testing.T) {
	players := testPlayers(2)
	r := NewRound(0, 4, players)
	r.Bids = []int{2, 1}
	r.Tricks = []int{2, 2}

	ScoreRound(r)
	assert.Equal(t, []int{7, -1}, r.Points)

	r.Streak = []int{4, -4}
	ApplyRewards(r)
	assert.Equal(t, []int{17, -11}, r.Points)
	assert.Equal(t, []Reward{RewardPositive, RewardNegative}, r.Bonus)
	assert.Equal(t, []int{0, 0}, r.Streak)
}

func TestOneCardRoundsSkipStreaks(t *testing.T) {
	players := testPlayers(2)
	r := NewRound(0, 1, players)
	r.Streak = []int{4, 2}
	ApplyRewards(r)
	assert.Equal(t, []int{4, 2}, r.Streak)
}

func TestCopyScoreFollowsPlayersAcrossRotation(t *testing.T) {
	players := testPlayers(3)
	g, err := NewGame(players, randutil.New(1))
	require.NoError(t, err)

	prev, next := g.Rounds[0], g.Rounds[1]
	prev.Points = []int{6, -1, 3}
	next.CopyScore(prev)
	// round 1 seats players rotated by one
	assert.Equal(t, []int{-1, 3, 6}, next.Points)

	g.CurrentRound = 1
	assert.Equal(t, []int{6, -1, 3}, g.Standings())
}

func TestRepeatWhenAllMissed(t *testing.T) {
	players := testPlayers(2)
	r := NewRound(0, 2, players)
	r.Bids = []int{0, 0}
	r.Tricks = []int{1, 1}
	assert.True(t, RepeatWhenAllMissed(r))
	r.Tricks = []int{0, 2}
	assert.False(t, RepeatWhenAllMissed(r))

	rules := DefaultRules()
	assert.False(t, rules.RepeatRound(r))
}

func TestReinitializeKeepsPoints(t *testing.T) {
	players := testPlayers(2)
	r := NewRound(0, 2, players)
	r.Points = []int{4, 9}
	require.NoError(t, r.PlaceBid(players[0], 1))
	r.Tricks[0] = 2
	r.StartHand(0)

	r.Reinitialize()
	assert.Nil(t, r.Hand)
	assert.Equal(t, 0, r.BidsPlaced())
	assert.Equal(t, 0, r.TricksToDate())
	assert.Equal(t, []int{4, 9}, r.Points)
}
