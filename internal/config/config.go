// Package config loads the HCL game configuration.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/whist/internal/bot"
	"github.com/lox/whist/internal/engine"
	"github.com/lox/whist/internal/whist"
)

const (
	defaultStrategy = "greedy"
	defaultLogFile  = "whist.log"
)

// Config represents the complete game configuration
type Config struct {
	Game GameSettings `hcl:"game,block"`
	Bots []BotConfig  `hcl:"bot,block"`
}

// GameSettings contains table and timing configuration
type GameSettings struct {
	Players        int    `hcl:"players,optional"`
	Human          string `hcl:"human,optional"`
	Seed           int64  `hcl:"seed,optional"`
	DecisionWindow string `hcl:"decision_window,optional"`
	DeadlineTicks  int    `hcl:"deadline_ticks,optional"`
	BotDelay       string `hcl:"bot_delay,optional"`
	BidRule        string `hcl:"bid_rule,optional"`
	RepeatRule     string `hcl:"repeat_rule,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	LogFile        string `hcl:"log_file,optional"`
}

// BotConfig names a bot seat and its strategy
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
}

// Seat is one player of the table in seating order
type Seat struct {
	Name     string
	Human    bool
	Strategy string
}

var bidRules = map[string]whist.BidRule{
	"standard": whist.StandardBid,
	"any":      whist.AnyBid,
}

var repeatRules = map[string]whist.RepeatRule{
	"never":      whist.NeverRepeat,
	"all_missed": whist.RepeatWhenAllMissed,
}

// DefaultConfig returns default game configuration
func DefaultConfig() *Config {
	return &Config{
		Game: GameSettings{
			Players:        4,
			Human:          "You",
			DecisionWindow: "10s",
			DeadlineTicks:  10,
			BotDelay:       "1s",
			BidRule:        "standard",
			RepeatRule:     "never",
			LogLevel:       "info",
			LogFile:        defaultLogFile,
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig().Game
	g := &c.Game
	if g.Players == 0 {
		g.Players = d.Players
	}
	if g.DecisionWindow == "" {
		g.DecisionWindow = d.DecisionWindow
	}
	if g.DeadlineTicks == 0 {
		g.DeadlineTicks = d.DeadlineTicks
	}
	if g.BotDelay == "" {
		g.BotDelay = d.BotDelay
	}
	if g.BidRule == "" {
		g.BidRule = d.BidRule
	}
	if g.RepeatRule == "" {
		g.RepeatRule = d.RepeatRule
	}
	if g.LogLevel == "" {
		g.LogLevel = d.LogLevel
	}
	if g.LogFile == "" {
		g.LogFile = d.LogFile
	}
	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = defaultStrategy
		}
	}
}

// Validate validates the game configuration
func (c *Config) Validate() error {
	g := c.Game
	if g.Players < whist.MinSeats || g.Players > whist.MaxSeats {
		return fmt.Errorf("players must be between %d and %d, got %d", whist.MinSeats, whist.MaxSeats, g.Players)
	}
	if _, err := c.EngineConfig(); err != nil {
		return err
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(g.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", g.LogLevel)
	}

	bots := g.Players
	if g.Human != "" {
		bots--
	}
	if len(c.Bots) > bots {
		return fmt.Errorf("%d bots configured for %d bot seats", len(c.Bots), bots)
	}

	names := map[string]bool{}
	if g.Human != "" {
		names[g.Human] = true
	}
	for _, b := range c.Bots {
		if names[b.Name] {
			return fmt.Errorf("duplicate player name %q", b.Name)
		}
		names[b.Name] = true
		if !slices.Contains(bot.Names(), b.Strategy) {
			return fmt.Errorf("bot %s: invalid strategy %s", b.Name, b.Strategy)
		}
	}
	return nil
}

// EngineConfig returns the engine timings
func (c *Config) EngineConfig() (engine.Config, error) {
	window, err := time.ParseDuration(c.Game.DecisionWindow)
	if err != nil || window <= 0 {
		return engine.Config{}, fmt.Errorf("invalid decision_window %q", c.Game.DecisionWindow)
	}
	delay, err := time.ParseDuration(c.Game.BotDelay)
	if err != nil || delay <= 0 {
		return engine.Config{}, fmt.Errorf("invalid bot_delay %q", c.Game.BotDelay)
	}
	if c.Game.DeadlineTicks < 1 {
		return engine.Config{}, fmt.Errorf("deadline_ticks must be positive, got %d", c.Game.DeadlineTicks)
	}
	return engine.Config{
		DecisionWindow: window,
		DeadlineTicks:  c.Game.DeadlineTicks,
		BotDelay:       delay,
	}, nil
}

// Rules returns the configured bid and repeat rules
func (c *Config) Rules() (whist.Rules, error) {
	bid, ok := bidRules[c.Game.BidRule]
	if !ok {
		return whist.Rules{}, fmt.Errorf("invalid bid_rule %q", c.Game.BidRule)
	}
	repeat, ok := repeatRules[c.Game.RepeatRule]
	if !ok {
		return whist.Rules{}, fmt.Errorf("invalid repeat_rule %q", c.Game.RepeatRule)
	}
	return whist.Rules{Bid: bid, Repeat: repeat}, nil
}

// Seats returns the table in seating order: the human first, then the
// configured bots, then generated bots until every seat is filled.
func (c *Config) Seats() []Seat {
	seats := make([]Seat, 0, c.Game.Players)
	if c.Game.Human != "" {
		seats = append(seats, Seat{Name: c.Game.Human, Human: true})
	}
	for _, b := range c.Bots {
		if len(seats) == c.Game.Players {
			break
		}
		seats = append(seats, Seat{Name: b.Name, Strategy: b.Strategy})
	}
	for n := 1; len(seats) < c.Game.Players; n++ {
		name := fmt.Sprintf("Bot %d", n)
		if slices.ContainsFunc(seats, func(s Seat) bool { return s.Name == name }) {
			continue
		}
		seats = append(seats, Seat{Name: name, Strategy: defaultStrategy})
	}
	return seats
}
