// Package tui renders a whist table in the terminal and turns key presses
// into the pointer events the engine understands.
package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/deck"
	"github.com/lox/whist/internal/engine"
	"github.com/lox/whist/internal/layout"
	"github.com/lox/whist/internal/whist"
)

// InputSink receives the engine inputs produced by key presses
type InputSink interface {
	Input(in engine.Input)
}

// EventMsg carries an engine notification and the table as it was when the
// notification was published.
type EventMsg struct {
	Event    engine.Event
	Snapshot engine.Snapshot
}

const sidebarWidth = 30

// Model is the Bubble Tea model for a whist table
type Model struct {
	sink   InputSink
	logger *log.Logger

	logViewport viewport.Model
	deadline    progress.Model
	help        help.Model
	keys        keyMap

	snap    engine.Snapshot
	gameLog []string
	cursor  int

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates a table model that sends inputs to sink
func NewModel(sink InputSink, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	return &Model{
		sink:        sink,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		deadline:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:        help.New(),
		keys:        keys,
		snap:        engine.Snapshot{Round: -1, Candidate: -1},
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.deadline.Width = max(sidebarWidth-4, 10)
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case EventMsg:
		m.apply(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Start):
			m.sink.Input(engine.Input{Kind: engine.InputStart})
		case key.Matches(msg, m.keys.Left):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Play):
			m.confirm()
		case key.Matches(msg, m.keys.Bid):
			m.clickBid(int(msg.Runes[0] - '0'))
		case key.Matches(msg, m.keys.Log):
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) apply(msg EventMsg) {
	m.snap = msg.Snapshot
	switch ev := msg.Event.(type) {
	case engine.SelectionChangedEvent:
		if ev.Visible {
			m.cursor = ev.Candidate
		}
	case engine.DeadlineArmedEvent:
		m.cursor = 0
		if ev.Kind == engine.AwaitBid && len(m.snap.Legal) > 0 {
			m.cursor = m.snap.Legal[0]
		}
	}
	if line := describe(msg.Event); line != "" {
		m.AddLogEntry(line)
	}
}

// moveCursor walks the selection through the hand or the legal bids and
// points at the new choice so the engine can highlight it.
func (m *Model) moveCursor(delta int) {
	switch m.snap.Awaiting {
	case engine.AwaitCard:
		n := len(m.snap.Hand)
		if n == 0 {
			return
		}
		m.cursor = (m.cursor + delta + n) % n
		p := layout.CardCenter(m.cursor)
		m.sink.Input(engine.Input{Kind: engine.InputMove, X: p.X, Y: p.Y})
	case engine.AwaitBid:
		legal := m.snap.Legal
		if len(legal) == 0 {
			return
		}
		i := slices.Index(legal, m.cursor)
		if i < 0 {
			i = 0
		} else {
			i = (i + delta + len(legal)) % len(legal)
		}
		m.cursor = legal[i]
		p := layout.BidCenter(m.cursor)
		m.sink.Input(engine.Input{Kind: engine.InputMove, X: p.X, Y: p.Y})
	}
}

func (m *Model) confirm() {
	switch m.snap.Awaiting {
	case engine.AwaitCard:
		p := layout.CardCenter(m.cursor)
		m.sink.Input(engine.Input{Kind: engine.InputClick, X: p.X, Y: p.Y})
	case engine.AwaitBid:
		m.clickBid(m.cursor)
	}
}

func (m *Model) clickBid(v int) {
	if m.snap.Awaiting != engine.AwaitBid {
		return
	}
	p := layout.BidCenter(v)
	m.sink.Input(engine.Input{Kind: engine.InputClick, X: p.X, Y: p.Y})
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	action := m.renderActionPane()
	actionHeight := lipgloss.Height(action)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Render(action)

	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebarPane())

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane lists the seats with their bids, tricks and points
func (m *Model) renderSidebarPane() string {
	var content strings.Builder
	s := m.snap

	switch {
	case s.Over:
		content.WriteString(HeaderStyle.Render("Game over"))
	case s.Round < 0:
		content.WriteString(HeaderStyle.Render("Press s to start"))
	default:
		content.WriteString(HeaderStyle.Render(fmt.Sprintf("Round %d/%d", s.Round+1, s.Rounds)))
		content.WriteString("\n")
		content.WriteString(WarningStyle.Render(fmt.Sprintf("%d cards", s.RoundType)))
		if !s.Trump.IsZero() {
			content.WriteString("  trump ")
			content.WriteString(formatCard(s.Trump))
		}
	}
	content.WriteString("\n\n")

	for _, seat := range s.Seats {
		prefix := "  "
		style := PlayerInfoStyle
		if seat.Active {
			prefix = "▶ "
			style = ActiveSeatStyle
		}
		bid := "-"
		if seat.HasBid {
			bid = fmt.Sprintf("%d", seat.Bid)
		}
		line := fmt.Sprintf("%s%-8s %s/%d %4d", prefix, truncate(seat.Name, 8), bid, seat.Tricks, seat.Points)
		content.WriteString(style.Render(line))
		switch seat.Reward {
		case whist.RewardPositive:
			content.WriteString(SuccessStyle.Render(" +"))
		case whist.RewardNegative:
			content.WriteString(ErrorStyle.Render(" -"))
		}
		if !seat.Played.IsZero() {
			content.WriteString(" ")
			content.WriteString(formatCard(seat.Played))
		}
		content.WriteString("\n")
	}

	if s.Awaiting != engine.AwaitNone && s.Ticks > 0 {
		content.WriteString("\n")
		content.WriteString(m.deadline.ViewAs(float64(s.Remaining) / float64(s.Ticks)))
		content.WriteString("\n")
	}
	return content.String()
}

// renderActionPane shows the hand, the bid selector and the key help
func (m *Model) renderActionPane() string {
	var content strings.Builder
	s := m.snap

	content.WriteString(HandInfoStyle.Render("Hand: "))
	for i, c := range s.Hand {
		card := formatCard(c)
		if s.Awaiting == engine.AwaitCard && i == m.cursor {
			card = SelectedStyle.Render(c.String())
		}
		content.WriteString(card)
		content.WriteString(" ")
	}
	content.WriteString("\n")

	switch s.Awaiting {
	case engine.AwaitBid:
		var bids []string
		for _, v := range s.Legal {
			b := fmt.Sprintf("[%d]", v)
			if v == m.cursor {
				b = SelectedStyle.Render(b)
			}
			bids = append(bids, b)
		}
		content.WriteString(ActionsStyle.Render("Bid: "))
		content.WriteString(strings.Join(bids, " "))
	case engine.AwaitCard:
		content.WriteString(ActionsStyle.Render("Your card"))
	default:
		content.WriteString(DimStyle.Render("Waiting..."))
	}
	content.WriteString("\n")
	content.WriteString(m.help.View(m.keys))
	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log lines
func (m *Model) Log() []string {
	return slices.Clone(m.gameLog)
}

// Snapshot returns the table state last received
func (m *Model) Snapshot() engine.Snapshot {
	return m.snap
}

// describe turns a notification into a game log line
func describe(ev engine.Event) string {
	switch e := ev.(type) {
	case engine.RoundStartedEvent:
		trump := "no trump"
		if !e.Trump.IsZero() {
			trump = "trump " + e.Trump.String()
		}
		return fmt.Sprintf("*** ROUND %d: %d cards, %s ***", e.Round+1, e.RoundType, trump)
	case engine.BidPlacedEvent:
		line := fmt.Sprintf("%s bids %d (total %d)", e.Player, e.Bid, e.Total)
		if e.Resolved == engine.ResolvedByTimeout {
			line += " [timeout]"
		}
		return line
	case engine.CardPlayedEvent:
		line := fmt.Sprintf("%s plays %s", e.Player, e.Card)
		if e.Resolved == engine.ResolvedByTimeout {
			line += " [timeout]"
		}
		return line
	case engine.HandEndedEvent:
		return fmt.Sprintf("%s takes the trick (%d)", e.Winner, e.Tricks)
	case engine.RoundScoredEvent:
		return fmt.Sprintf("Round %d scored: %v", e.Round+1, e.Points)
	case engine.RoundRepeatedEvent:
		return fmt.Sprintf("Round %d is dealt again", e.Round+1)
	case engine.GameOverEvent:
		parts := make([]string, len(e.Players))
		for i, name := range e.Players {
			parts[i] = fmt.Sprintf("%s %d", name, e.Standings[i])
		}
		return "*** GAME OVER: " + strings.Join(parts, ", ") + " ***"
	default:
		return ""
	}
}

// formatCard formats a card with its suit colour
func formatCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
