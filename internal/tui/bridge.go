package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/whist/internal/engine"
)

// Poster runs a function on the goroutine that owns the engine
type Poster interface {
	Post(fn func())
}

// Bridge connects an engine to a Bubble Tea program. Engine notifications
// are forwarded as EventMsg with a snapshot taken on the engine goroutine;
// inputs from the model are posted back to that goroutine.
type Bridge struct {
	engine *engine.Engine
	loop   Poster
	send   func(tea.Msg)
	logger *log.Logger
}

// NewBridge creates a bridge and subscribes it to the engine's notifications.
// send is usually (*tea.Program).Send.
func NewBridge(e *engine.Engine, loop Poster, send func(tea.Msg), logger *log.Logger) *Bridge {
	b := &Bridge{
		engine: e,
		loop:   loop,
		send:   send,
		logger: logger.WithPrefix("bridge"),
	}
	e.Bus().Subscribe(b)
	return b
}

// OnEvent forwards a notification. It runs on the engine goroutine.
func (b *Bridge) OnEvent(event engine.Event) {
	b.send(EventMsg{Event: event, Snapshot: b.engine.Snapshot()})
}

// Input hands a key-press input to the engine
func (b *Bridge) Input(in engine.Input) {
	b.loop.Post(func() {
		err := b.engine.Handle(in)
		switch {
		case err == nil:
			if in.Kind == engine.InputStart {
				b.send(EventMsg{Snapshot: b.engine.Snapshot()})
			}
		case engine.Ignorable(err):
			b.logger.Debug("Input ignored", "kind", in.Kind, "error", err)
		default:
			b.logger.Error("Input failed", "kind", in.Kind, "error", err)
		}
	})
}

// Refresh sends the current table without a notification
func (b *Bridge) Refresh() {
	b.loop.Post(func() {
		b.send(EventMsg{Snapshot: b.engine.Snapshot()})
	})
}
