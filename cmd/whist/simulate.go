package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/whist/internal/config"
	"github.com/lox/whist/internal/simulator"
)

// SimulateCmd runs headless all-bot games
type SimulateCmd struct {
	Games      int           `short:"g" default:"100" help:"Number of games to play"`
	Players    int           `short:"p" default:"4" help:"Players per game"`
	Strategies []string      `short:"s" default:"greedy,random" help:"Bot strategies, cycled over the seats"`
	Seed       *int64        `help:"Deterministic RNG seed (optional)"`
	Workers    int           `short:"w" default:"0" help:"Games played in parallel (0 = all CPUs)"`
	Timeout    time.Duration `default:"30s" help:"Per-game timeout"`
	BidRule    string        `default:"standard" enum:"standard,any" help:"Bid rule"`
	RepeatRule string        `default:"never" enum:"never,all_missed" help:"Round repeat rule"`
	LogLevel   string        `short:"l" default:"warn" help:"Log level"`
}

func (c *SimulateCmd) Run() error {
	logger, err := setupLogger(os.Stderr, c.LogLevel)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Game.BidRule = c.BidRule
	cfg.Game.RepeatRule = c.RepeatRule
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Games:      c.Games,
		Players:    c.Players,
		Strategies: c.Strategies,
		Seed:       seed,
		Rules:      rules,
		Workers:    c.Workers,
		Timeout:    c.Timeout,
		Logger:     logger,
	})
	logger.Info("Starting simulation", "games", c.Games, "players", c.Players, "strategies", sim.Describe(), "seed", seed)

	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	simulator.PrintSummary(os.Stdout, report, c.Players)
	fmt.Printf("\nSeed: %d, elapsed: %s\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}
