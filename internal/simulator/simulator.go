// Package simulator plays all-bot games headless, as fast as the scheduler
// can be drained, and aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/bot"
	"github.com/lox/whist/internal/engine"
	"github.com/lox/whist/internal/randutil"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/statistics"
	"github.com/lox/whist/internal/whist"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Games      int
	Players    int
	Strategies []string // Cycled over the seats; rotated every game
	Seed       int64
	Rules      whist.Rules
	Workers    int
	Timeout    time.Duration // Per game
	Logger     *log.Logger
}

// Simulator runs whist game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if len(config.Strategies) == 0 {
		config.Strategies = bot.Names()
	}
	if config.Rules.Bid == nil && config.Rules.Repeat == nil {
		config.Rules = whist.DefaultRules()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every game and returns the aggregated report
func (s *Simulator) Run(ctx context.Context) (*statistics.Report, error) {
	if s.config.Players < whist.MinSeats || s.config.Players > whist.MaxSeats {
		return nil, fmt.Errorf("players must be between %d and %d, got %d", whist.MinSeats, whist.MaxSeats, s.config.Players)
	}
	for _, name := range s.config.Strategies {
		if !slices.Contains(bot.Names(), name) {
			return nil, fmt.Errorf("unknown bot strategy %q", name)
		}
	}

	reports := make([]*statistics.Report, s.config.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for n := range s.config.Games {
		g.Go(func() error {
			result, err := s.playGame(ctx, n)
			if err != nil {
				return fmt.Errorf("game %d: %w", n+1, err)
			}
			reports[n] = statistics.NewReport()
			reports[n].Add(result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := statistics.NewReport()
	for _, r := range reports {
		report.Merge(r)
	}
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return report, nil
}

// seatStrategy returns the strategy of table position pos in game n
func (s *Simulator) seatStrategy(n, pos int) string {
	strategies := s.config.Strategies
	return strategies[(pos+n)%len(strategies)]
}

// playGame simulates a single game on its own scheduler
func (s *Simulator) playGame(ctx context.Context, n int) (statistics.GameResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	seed := randutil.Derive(s.config.Seed, n)
	logger := s.config.Logger.With("game", n+1)

	players := make([]*whist.Player, s.config.Players)
	for pos := range players {
		players[pos] = whist.NewPlayer(fmt.Sprintf("Bot %d", pos+1), false)
	}
	game, err := whist.NewGame(players, randutil.New(seed))
	if err != nil {
		return statistics.GameResult{}, err
	}

	table := bot.NewTable(bot.NewGreedyBot(s.config.Rules, logger))
	for pos, p := range players {
		strategy, err := bot.New(s.seatStrategy(n, pos), s.config.Rules, randutil.New(randutil.Derive(seed, pos)), logger)
		if err != nil {
			return statistics.GameResult{}, err
		}
		table.Seat(p, strategy)
	}

	clock := sched.New(time.Unix(0, 0))
	e, err := engine.New(game, s.config.Rules, table, clock, logger)
	if err != nil {
		return statistics.GameResult{}, err
	}
	repeated := 0
	e.Bus().Subscribe(engine.SubscriberFunc(func(ev engine.Event) {
		if ev.EventType() == engine.EventTypeRoundRepeated {
			repeated++
		}
	}))

	if err := e.StartRound(); err != nil {
		return statistics.GameResult{}, err
	}
	for clock.Step() {
		if err := ctx.Err(); err != nil {
			return statistics.GameResult{}, fmt.Errorf("game timed out after %v (seed: %d): %w", s.config.Timeout, seed, err)
		}
	}
	if !e.Over() {
		return statistics.GameResult{}, fmt.Errorf("game stalled in round %d (seed: %d)", game.CurrentRound, seed)
	}

	result := statistics.GameResult{Seed: seed, Rounds: len(game.Rounds), Repeated: repeated}
	standings := game.Standings()
	best := slices.Max(standings)
	for pos, p := range players {
		seat := statistics.SeatResult{
			Position: pos,
			Strategy: s.seatStrategy(n, pos),
			Points:   standings[pos],
			Rounds:   len(game.Rounds),
			Won:      standings[pos] == best,
		}
		for _, r := range game.Rounds {
			i := r.SeatOf(p)
			if r.Tricks[i] == r.Bids[i] {
				seat.ExactBids++
			}
			switch r.Bonus[i] {
			case whist.RewardPositive:
				seat.Bonuses++
			case whist.RewardNegative:
				seat.Penalties++
			}
		}
		result.Seats = append(result.Seats, seat)
	}
	logger.Debug("Game finished", "standings", standings, "repeated", repeated)
	return result, nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, report *statistics.Report, players int) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS (%d players) ===\n", players)
	fmt.Fprintf(w, "Games played: %d\n", report.Games)
	fmt.Fprintf(w, "Rounds scored: %d, repeated: %d\n", report.Rounds, report.Repeated)

	fmt.Fprintf(w, "\n=== STRATEGIES ===\n")
	for _, name := range report.Strategies() {
		s := report.ByStrategy[name]
		low, high := s.ConfidenceInterval95()
		fmt.Fprintf(w, "%s: %d seats\n", name, s.Seats)
		fmt.Fprintf(w, "  Mean: %.2f points (95%% CI [%.2f, %.2f])\n", s.Mean(), low, high)
		fmt.Fprintf(w, "  Median: %.2f, Std Dev: %.2f, range [%d, %d]\n", s.Median(), s.StdDev(), s.MinPoints, s.MaxPoints)
		fmt.Fprintf(w, "  Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
			s.Percentile(0.05), s.Percentile(0.25), s.Percentile(0.75), s.Percentile(0.95))
		fmt.Fprintf(w, "  Exact bids: %.1f%%, wins: %.1f%%, bonuses: %d, penalties: %d\n",
			s.ExactRate()*100, s.WinRate()*100, s.Bonuses, s.Penalties)
	}

	fmt.Fprintf(w, "\n=== POSITION ANALYSIS ===\n")
	for pos, ps := range report.ByPosition {
		if ps.Games > 0 {
			fmt.Fprintf(w, "Position %d: %d games, %.2f points/game\n", pos+1, ps.Games, ps.Mean())
		}
	}
}

// Describe names the strategy line-up
func (s *Simulator) Describe() string {
	return strings.Join(s.config.Strategies, ",")
}
