package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/lox/whist/internal/bot"
	"github.com/lox/whist/internal/config"
	"github.com/lox/whist/internal/engine"
	"github.com/lox/whist/internal/randutil"
	"github.com/lox/whist/internal/sched"
	"github.com/lox/whist/internal/tui"
	"github.com/lox/whist/internal/whist"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

// PlayCmd runs an interactive game
type PlayCmd struct {
	Config   string `short:"c" default:"whist.hcl" help:"Path to HCL configuration file"`
	Players  int    `short:"p" help:"Number of players (overrides config)"`
	Name     string `short:"n" help:"Your player name (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file (overrides config)"`
	NoColor  bool   `help:"Disable colours"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if c.Name != "" {
		cfg.Game.Human = c.Name
	}
	if c.Seed != nil {
		cfg.Game.Seed = *c.Seed
	}
	if c.LogLevel != "" {
		cfg.Game.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.Game.LogFile = c.LogFile
	}
	if cfg.Game.Human == "" {
		return errors.New("play needs a human player; use simulate for all-bot games")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logFile, err := os.OpenFile(cfg.Game.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger, err := setupLogger(logFile, cfg.Game.LogLevel)
	if err != nil {
		return err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting game", "players", cfg.Game.Players, "human", cfg.Game.Human, "seed", seed)

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	seats := cfg.Seats()
	players := make([]*whist.Player, len(seats))
	table := bot.NewTable(bot.NewGreedyBot(rules, logger.WithPrefix("bot").With("strategy", "timeout")))
	for i, s := range seats {
		players[i] = whist.NewPlayer(s.Name, s.Human)
		if s.Human {
			continue
		}
		strategy, err := bot.New(s.Strategy, rules, randutil.New(randutil.Derive(seed, i)), logger.With("player", s.Name))
		if err != nil {
			return err
		}
		table.Seat(players[i], strategy)
	}
	game, err := whist.NewGame(players, randutil.New(seed))
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	loop := sched.NewLoop(quartz.NewReal(), logger)
	e, err := engine.New(game, rules, table, loop.Scheduler(), logger, engine.WithConfig(engineCfg))
	if err != nil {
		return err
	}

	var program *tea.Program
	bridge := tui.NewBridge(e, loop, func(msg tea.Msg) { program.Send(msg) }, logger)
	model := tui.NewModel(bridge, logger)

	g, gctx := errgroup.WithContext(ctx)
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
	g.Go(func() error {
		err := loop.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		bridge.Refresh()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Game closed", "round", game.CurrentRound, "over", game.Over())
	return nil
}
