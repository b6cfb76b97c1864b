package engine

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/bot"
	"github.com/lox/whist/internal/layout"
	"github.com/lox/whist/internal/randutil"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/whist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanBidTimesOut(t *testing.T) {
	te := newTestEngine(t, withPlayers(4), withRoundType(7), withHuman(2))

	require.NoError(t, te.StartRound())
	r := te.Game().Round()
	require.Equal(t, 7, r.Type)
	require.Equal(t, te.human, r.Players[2])
	assert.Equal(t, 0, te.BidPhase().Index())
	assert.Equal(t, 0, r.BidsPlaced())

	te.advance(1)
	assert.Equal(t, 1, r.BidsPlaced(), "seat 0 bids after one unit")
	assert.False(t, te.Selection().Awaiting(AwaitBid))

	te.advance(1)
	assert.Equal(t, 2, r.BidsPlaced(), "seat 1 bids after two units")
	require.True(t, te.Selection().Awaiting(AwaitBid))
	assert.Equal(t, te.human, te.Selection().Player())
	assert.True(t, te.Deadline().Armed())
	assert.Equal(t, 10, te.Deadline().Remaining())
	assert.Equal(t, 2, te.BidPhase().Index())

	te.advance(9)
	assert.Equal(t, 1, te.Deadline().Remaining())
	assert.Equal(t, 2, r.BidsPlaced())
	assert.Equal(t, 9, te.events.count(EventTypeDeadlineTick))

	te.advance(1)
	assert.True(t, r.HasBid[2])
	assert.Equal(t, 3, r.BidsPlaced())
	assert.Equal(t, 3, te.BidPhase().Index())
	assert.False(t, te.Deadline().Armed())
	assert.False(t, te.Selection().Awaiting(AwaitBid))

	placed := te.events.last(EventTypeBidPlaced).(BidPlacedEvent)
	assert.Equal(t, te.human.Name, placed.Player)
	assert.Equal(t, ResolvedByTimeout, placed.Resolved)

	turn := te.events.last(EventTypeTurnChanged).(TurnChangedEvent)
	assert.Equal(t, 3, turn.Seat)
	assert.False(t, turn.Hidden)

	te.advance(1)
	assert.Equal(t, 4, r.BidsPlaced())
	assert.True(t, te.BidPhase().Complete())
	assert.NotNil(t, r.Hand, "first hand starts once bidding completes")
}

func TestHumanBidByClick(t *testing.T) {
	te := newTestEngine(t, withRoundType(7), withHuman(2))
	require.NoError(t, te.StartRound())
	te.advance(2)
	require.True(t, te.Selection().Awaiting(AwaitBid))

	c := layout.BidCenter(3)
	require.NoError(t, te.Handle(Input{Kind: InputClick, X: c.X, Y: c.Y}))

	r := te.Game().Round()
	assert.Equal(t, 3, r.Bids[2])
	assert.False(t, te.Deadline().Armed())
	placed := te.events.last(EventTypeBidPlaced).(BidPlacedEvent)
	assert.Equal(t, ResolvedByHuman, placed.Resolved)

	hidden := te.events.last(EventTypeBidSelector).(BidSelectorEvent)
	assert.False(t, hidden.Visible)

	bids := te.strategy.bids
	assert.ErrorIs(t, te.BidPhase().ResolveByTimeout(), ErrIllegalValue)
	te.advance(1)
	assert.Equal(t, bids+1, te.strategy.bids, "only seat 3 is decided by the strategy")
	assert.Equal(t, 3, r.Bids[2])
}

func TestDeadlineResolvesOnce(t *testing.T) {
	te := newTestEngine(t, withRoundType(7), withHuman(0))
	require.NoError(t, te.StartRound())
	require.True(t, te.Selection().Awaiting(AwaitBid))

	te.advance(10)
	r := te.Game().Round()
	assert.True(t, r.HasBid[0])
	assert.Equal(t, 1, te.BidPhase().Index())
	assert.Equal(t, 1, te.events.count(EventTypeBidPlaced))

	before := te.events.count(EventTypeDeadlineTick)
	te.advance(2)
	assert.Equal(t, 3, r.BidsPlaced())
	assert.Equal(t, before, te.events.count(EventTypeDeadlineTick), "no tick of the lapsed window survives")

	byTimeout := 0
	for _, ev := range te.events.events {
		if b, ok := ev.(BidPlacedEvent); ok && b.Resolved == ResolvedByTimeout {
			byTimeout++
		}
	}
	assert.Equal(t, 1, byTimeout)
}

func TestStaleResolutionsAreNoOps(t *testing.T) {
	te := newTestEngine(t, withRoundType(7), withHuman(2))
	require.NoError(t, te.StartRound())
	r := te.Game().Round()

	t.Run("bot callback for another seat", func(t *testing.T) {
		err := te.BidPhase().ResolveBot(3)
		assert.ErrorIs(t, err, ErrIllegalValue)
		assert.Equal(t, 0, r.BidsPlaced())
		assert.Equal(t, 0, te.BidPhase().Index())
	})

	t.Run("human input during a bot turn", func(t *testing.T) {
		c := layout.BidCenter(1)
		err := te.Handle(Input{Kind: InputClick, X: c.X, Y: c.Y})
		assert.True(t, Ignorable(err))
		assert.Equal(t, 0, r.BidsPlaced())
	})

	t.Run("restarted phase drops earlier dispatches", func(t *testing.T) {
		require.NoError(t, te.BidPhase().Start(0))
		te.advance(2)
		assert.Equal(t, 2, r.BidsPlaced())
		assert.Equal(t, 2, te.strategy.bids)
		assert.True(t, te.Selection().Awaiting(AwaitBid))
	})

	t.Run("timeout after human click", func(t *testing.T) {
		require.NoError(t, te.Handle(Input{Kind: InputBid, Value: 0}))
		assert.ErrorIs(t, te.BidPhase().ResolveByTimeout(), ErrIllegalValue)
		assert.ErrorIs(t, te.BidPhase().ResolveHuman(1), ErrIllegalValue)
		assert.Equal(t, 3, r.BidsPlaced())
	})
}

func TestIllegalBidDropped(t *testing.T) {
	te := newTestEngine(t, withRoundType(7), withHuman(0))
	require.NoError(t, te.StartRound())

	err := te.Handle(Input{Kind: InputBid, Value: 8})
	assert.ErrorIs(t, err, ErrIllegalValue)
	assert.True(t, te.Selection().Awaiting(AwaitBid))
	assert.True(t, te.Deadline().Armed())
	assert.Equal(t, 0, te.Game().Round().BidsPlaced())
}

// startCardTurn plays a round of type 2 up to the human's first card
func startCardTurn(t *testing.T) *testEngine {
	t.Helper()
	te := newTestEngine(t, withRoundType(2), withHuman(0))
	require.NoError(t, te.StartRound())
	require.NoError(t, te.Handle(Input{Kind: InputBid, Value: 1}))
	te.advance(3)
	require.True(t, te.BidPhase().Complete())
	require.True(t, te.Selection().Awaiting(AwaitCard))
	return te
}

func TestCardClick(t *testing.T) {
	t.Run("gap between cards", func(t *testing.T) {
		te := startCardTurn(t)
		err := te.Handle(Input{Kind: InputClick, X: 95, Y: 405})
		assert.True(t, Ignorable(err))
		assert.True(t, te.Selection().Awaiting(AwaitCard))
		assert.Equal(t, 2, te.human.CardsNumber())
	})

	t.Run("second card", func(t *testing.T) {
		te := startCardTurn(t)
		want := te.human.Remaining()[1]
		require.NoError(t, te.Handle(Input{Kind: InputClick, X: 100, Y: 405}))

		played := te.events.last(EventTypeCardPlayed).(CardPlayedEvent)
		assert.Equal(t, want, played.Card)
		assert.Equal(t, ResolvedByHuman, played.Resolved)
		assert.Equal(t, 1, te.human.CardsNumber())
		assert.False(t, te.Deadline().Armed())
		assert.Equal(t, 1, te.CardPhase().Index())
	})

	t.Run("empty slot", func(t *testing.T) {
		te := startCardTurn(t)
		c := layout.CardCenter(5)
		err := te.Handle(Input{Kind: InputClick, X: c.X, Y: c.Y})
		assert.True(t, Ignorable(err))
		assert.Equal(t, 2, te.human.CardsNumber())
	})
}

func TestHoverPublishesSelection(t *testing.T) {
	te := startCardTurn(t)
	c := layout.CardCenter(1)
	require.NoError(t, te.Handle(Input{Kind: InputMove, X: c.X, Y: c.Y}))

	sel := te.events.last(EventTypeSelectionChanged).(SelectionChangedEvent)
	assert.True(t, sel.Visible)
	assert.Equal(t, 1, sel.Candidate)
	assert.Equal(t, layout.CardMarker(1), sel.Marker)

	n := te.events.count(EventTypeSelectionChanged)
	require.NoError(t, te.Handle(Input{Kind: InputMove, X: c.X + 1, Y: c.Y}))
	assert.Equal(t, n, te.events.count(EventTypeSelectionChanged), "same slot publishes nothing")

	require.NoError(t, te.Handle(Input{Kind: InputMove, X: 0, Y: 0}))
	sel = te.events.last(EventTypeSelectionChanged).(SelectionChangedEvent)
	assert.False(t, sel.Visible)
}

func TestHandEndsOnce(t *testing.T) {
	te := newTestEngine(t, withPlayers(4))
	require.NoError(t, te.StartRound())

	te.advance(4)
	require.True(t, te.BidPhase().Complete())
	te.advance(4)
	r := te.Game().Round()
	require.NotNil(t, r.Hand)
	require.True(t, r.Hand.Complete())
	assert.Equal(t, 0, te.events.count(EventTypeHandEnded), "trick stays on the table for one unit")

	te.advance(1)
	assert.Equal(t, 1, te.events.count(EventTypeHandEnded))
	assert.Equal(t, 1, r.TricksToDate())
	assert.Equal(t, 1, te.events.count(EventTypeRoundScored))

	assert.True(t, Ignorable(te.EndHand()))
	assert.Equal(t, 1, te.events.count(EventTypeHandEnded))
	assert.Equal(t, 1, r.TricksToDate())
}

func TestRoundAdvances(t *testing.T) {
	te := newTestEngine(t, withPlayers(3))
	require.NoError(t, te.StartRound())

	for te.Game().CurrentRound == 0 {
		require.True(t, te.sched.Step())
	}
	assert.Equal(t, 1, te.Game().CurrentRound)
	assert.Equal(t, 0, te.BidPhase().Index())

	prev := te.Game().Rounds[0]
	next := te.Game().Round()
	for seat, p := range next.Players {
		assert.Equal(t, prev.Points[prev.SeatOf(p)], next.Points[seat])
	}
}

func TestRoundRepeat(t *testing.T) {
	repeats := 0
	rules := whist.Rules{
		Bid: whist.AnyBid,
		Repeat: func(*whist.Round) bool {
			repeats++
			return repeats == 1
		},
	}
	te := newTestEngine(t, withPlayers(4), withRules(rules))
	require.NoError(t, te.StartRound())

	for te.events.count(EventTypeRoundRepeated) == 0 {
		require.True(t, te.sched.Step())
	}
	r := te.Game().Rounds[0]
	assert.Equal(t, -1, te.Game().CurrentRound)
	assert.Equal(t, 0, r.TricksToDate())
	assert.Equal(t, 0, r.BidsPlaced())
	assert.Nil(t, r.Hand)

	te.advance(1)
	assert.Equal(t, 0, te.Game().CurrentRound)
	assert.Equal(t, 2, te.events.count(EventTypeRoundStarted))
	started := te.events.last(EventTypeRoundStarted).(RoundStartedEvent)
	assert.Equal(t, 0, started.Round)

	for te.Game().CurrentRound == 0 {
		require.True(t, te.sched.Step())
	}
	assert.Equal(t, 1, te.events.count(EventTypeRoundScored))
}

func TestStartInputDuringRepeatIgnored(t *testing.T) {
	repeats := 0
	rules := whist.Rules{
		Bid: whist.AnyBid,
		Repeat: func(*whist.Round) bool {
			repeats++
			return repeats == 1
		},
	}
	te := newTestEngine(t, withPlayers(4), withRules(rules))
	require.NoError(t, te.Handle(Input{Kind: InputStart}))

	for te.events.count(EventTypeRoundRepeated) == 0 {
		require.True(t, te.sched.Step())
	}
	require.Equal(t, -1, te.Game().CurrentRound)
	require.True(t, te.Lifecycle().Pending())

	err := te.Handle(Input{Kind: InputStart})
	assert.ErrorIs(t, err, ErrIllegalValue)
	assert.Equal(t, -1, te.Game().CurrentRound)
	assert.Equal(t, 1, te.events.count(EventTypeRoundStarted))

	te.advance(1)
	assert.Equal(t, 0, te.Game().CurrentRound)
	assert.Equal(t, 2, te.events.count(EventTypeRoundStarted))

	for te.Game().CurrentRound == 0 {
		require.True(t, te.sched.Step())
	}
	assert.Equal(t, 1, te.events.count(EventTypeRoundScored))
	scored := te.events.last(EventTypeRoundScored).(RoundScoredEvent)
	assert.Equal(t, 0, scored.Round)
	assert.Equal(t, 1, te.Game().CurrentRound)
}

func TestTimeoutRejectsIllegalFallback(t *testing.T) {
	te := newTestEngine(t, withRoundType(7), withHuman(0))
	illegal := 9
	te.strategy.fixedBid = &illegal
	require.NoError(t, te.StartRound())
	r := te.Game().Round()
	require.True(t, te.Selection().Awaiting(AwaitBid))

	assert.ErrorIs(t, te.BidPhase().ResolveByTimeout(), ErrIllegalValue)
	assert.Equal(t, 0, r.BidsPlaced())
	assert.Equal(t, 0, te.events.count(EventTypeBidPlaced))
	assert.True(t, te.Selection().Awaiting(AwaitBid), "the decision stays with the human")

	te.advance(10)
	assert.False(t, te.Deadline().Armed())
	assert.Equal(t, 0, r.BidsPlaced())

	require.NoError(t, te.Handle(Input{Kind: InputBid, Value: 1}))
	assert.Equal(t, 1, r.BidsPlaced())
	placed := te.events.last(EventTypeBidPlaced).(BidPlacedEvent)
	assert.Equal(t, ResolvedByHuman, placed.Resolved)
}

func TestGameOver(t *testing.T) {
	te := newTestEngine(t, withPlayers(4))
	g := te.Game()
	require.Equal(t, 24, whist.RoundsNumber(4))

	g.CurrentRound = 23
	last := g.Rounds[23]
	last.Points[0] = 17

	err := te.StartRound()
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 24, g.CurrentRound)
	assert.True(t, te.Over())
	assert.Nil(t, g.Deck, "no deck is dealt")
	assert.Equal(t, 17, last.Points[0])
	assert.Equal(t, 0, te.sched.Len())

	over := te.events.last(EventTypeGameOver).(GameOverEvent)
	assert.Len(t, over.Standings, 4)

	assert.ErrorIs(t, te.StartRound(), ErrGameOver)
	assert.Equal(t, 24, g.CurrentRound)
	assert.Equal(t, 1, te.events.count(EventTypeGameOver))
}

func TestStartInput(t *testing.T) {
	te := newTestEngine(t)
	require.NoError(t, te.Handle(Input{Kind: InputStart}))
	assert.Equal(t, 0, te.Game().CurrentRound)
	assert.ErrorIs(t, te.Handle(Input{Kind: InputStart}), ErrIllegalValue)
	assert.ErrorIs(t, te.Handle(Input{Kind: InputKind(99)}), ErrIllegalValue)
}

func TestFullGames(t *testing.T) {
	for players := whist.MinSeats; players <= whist.MaxSeats; players++ {
		t.Run(fmt.Sprintf("%d players", players), func(t *testing.T) {
			rules := whist.DefaultRules()
			seated := make([]*whist.Player, players)
			table := bot.NewTable(bot.NewRandBot(rules, randutil.New(int64(players)), log.New(io.Discard)))
			for i := range seated {
				seated[i] = whist.NewPlayer(string(rune('A'+i)), false)
			}
			g, err := whist.NewGame(seated, randutil.New(int64(players)))
			require.NoError(t, err)

			s := sched.New(time.Unix(0, 0))
			e, err := New(g, rules, table, s, log.New(io.Discard))
			require.NoError(t, err)

			rounds, nextBid := 0, 0
			e.Bus().Subscribe(SubscriberFunc(func(ev Event) {
				switch ev := ev.(type) {
				case RoundStartedEvent:
					rounds++
					nextBid = 0
					assert.Equal(t, ev.Round, g.CurrentRound)
				case BidPlacedEvent:
					assert.Equal(t, nextBid, ev.Seat, "bidding runs from seat 0 in order")
					nextBid++
				}
			}))

			require.NoError(t, e.StartRound())
			for s.Step() {
			}
			assert.True(t, e.Over())
			assert.Equal(t, whist.RoundsNumber(players), rounds)
			for _, r := range g.Rounds {
				assert.Equal(t, players, r.BidsPlaced())
				assert.Equal(t, r.Type, r.TricksToDate())
			}
		})
	}
}
