package engine

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/randutil"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/whist"
	"github.com/stretchr/testify/require"
)

const unit = time.Second

// firstLegal always takes the lowest legal value and counts its calls.
// A non-nil fixedBid is returned as is, legal or not.
type firstLegal struct {
	rules    whist.Rules
	bids     int
	cards    int
	fixedBid *int
}

func (f *firstLegal) Bid(r *whist.Round, p *whist.Player) int {
	f.bids++
	if f.fixedBid != nil {
		return *f.fixedBid
	}
	return f.rules.LegalBids(r, p)[0]
}

func (f *firstLegal) Card(r *whist.Round, p *whist.Player) int {
	f.cards++
	return f.rules.LegalCards(r, p)[0]
}

// recorder keeps every published event
type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(event Event) {
	r.events = append(r.events, event)
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t EventType) Event {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EventType() == t {
			return r.events[i]
		}
	}
	return nil
}

type testEngineConfig struct {
	players   int
	humanSeat int
	roundType int
	rules     whist.Rules
	cfg       Config
	seed      int64
}

type testEngineOption func(*testEngineConfig)

func withPlayers(n int) testEngineOption {
	return func(c *testEngineConfig) { c.players = n }
}

// withHuman seats the human at round seat s of the first round played
func withHuman(s int) testEngineOption {
	return func(c *testEngineConfig) { c.humanSeat = s }
}

// withRoundType starts play at the first round dealing n cards
func withRoundType(n int) testEngineOption {
	return func(c *testEngineConfig) { c.roundType = n }
}

func withRules(rules whist.Rules) testEngineOption {
	return func(c *testEngineConfig) { c.rules = rules }
}

type testEngine struct {
	*Engine
	sched    *sched.Scheduler
	strategy *firstLegal
	events   *recorder
	human    *whist.Player
}

// advance moves logical time forward by n units
func (te *testEngine) advance(n int) {
	te.sched.Advance(time.Duration(n) * unit)
}

func newTestEngine(t *testing.T, opts ...testEngineOption) *testEngine {
	t.Helper()
	c := &testEngineConfig{
		players:   4,
		humanSeat: -1,
		roundType: 1,
		rules:     whist.DefaultRules(),
		cfg:       DefaultConfig(),
		seed:      7,
	}
	for _, opt := range opts {
		opt(c)
	}

	first := -1
	for i, rt := range whist.RoundTypes(c.players) {
		if rt == c.roundType {
			first = i
			break
		}
	}
	require.GreaterOrEqual(t, first, 0, "no round of type %d", c.roundType)

	players := make([]*whist.Player, c.players)
	human := -1
	if c.humanSeat >= 0 {
		human = (first + c.humanSeat) % c.players
	}
	for pos := range players {
		players[pos] = whist.NewPlayer(fmt.Sprintf("P%d", pos), pos == human)
	}

	g, err := whist.NewGame(players, randutil.New(c.seed))
	require.NoError(t, err)
	g.CurrentRound = first - 1

	s := sched.New(time.Unix(0, 0))
	strategy := &firstLegal{rules: c.rules}
	rec := &recorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	e, err := New(g, c.rules, strategy, s, log.New(io.Discard), WithConfig(c.cfg), WithEventBus(bus))
	require.NoError(t, err)

	te := &testEngine{Engine: e, sched: s, strategy: strategy, events: rec}
	if human >= 0 {
		te.human = players[human]
	}
	return te
}
