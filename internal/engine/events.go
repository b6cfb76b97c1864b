package engine

import (
	"github.com/lox/whist/internal/deck"
	"github.com/lox/whist/internal/layout"
	"github.com/lox/whist/internal/whist"
)

// EventType represents an engine notification type
type EventType string

// Notifications for the presentation layer
const (
	EventTypeRoundStarted     EventType = "round_started"
	EventTypeBidSelector      EventType = "bid_selector"
	EventTypeTurnChanged      EventType = "turn_changed"
	EventTypeBidPlaced        EventType = "bid_placed"
	EventTypeHandStarted      EventType = "hand_started"
	EventTypeCardPlayed       EventType = "card_played"
	EventTypeHandEnded        EventType = "hand_ended"
	EventTypeRoundScored      EventType = "round_scored"
	EventTypeRoundRepeated    EventType = "round_repeated"
	EventTypeDeadlineArmed    EventType = "deadline_armed"
	EventTypeDeadlineTick     EventType = "deadline_tick"
	EventTypeSelectionChanged EventType = "selection_changed"
	EventTypeGameOver         EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Resolution says how a decision was made
type Resolution int

const (
	ResolvedByHuman Resolution = iota
	ResolvedByBot
	ResolvedByTimeout
)

func (r Resolution) String() string {
	switch r {
	case ResolvedByHuman:
		return "human"
	case ResolvedByBot:
		return "bot"
	case ResolvedByTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Event is any notification published by the engine
type Event interface {
	EventType() EventType
}

// RoundStartedEvent is published once a round has been dealt. Rewards holds
// the markers earned in the previous round, by table position.
type RoundStartedEvent struct {
	Round     int
	RoundType int
	Trump     deck.Card
	Rewards   []whist.Reward
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }

// BidSelectorEvent shows or hides the human's bid selector
type BidSelectorEvent struct {
	Visible bool
	Legal   []int
}

func (e BidSelectorEvent) EventType() EventType { return EventTypeBidSelector }

// TurnChangedEvent moves the active seat indicator. Hidden is set once every
// seat of the phase has acted.
type TurnChangedEvent struct {
	Phase    DecisionKind
	Seat     int
	Player   string
	Position int
	Marker   layout.Point
	Hidden   bool
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }

// BidPlacedEvent is published for every committed bid
type BidPlacedEvent struct {
	Player   string
	Seat     int
	Bid      int
	Total    int
	Resolved Resolution
}

func (e BidPlacedEvent) EventType() EventType { return EventTypeBidPlaced }

// HandStartedEvent is published when a new trick opens
type HandStartedEvent struct {
	Leader string
	Seat   int
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }

// CardPlayedEvent is published for every card placed on the table
type CardPlayedEvent struct {
	Player   string
	Card     deck.Card
	Resolved Resolution
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }

// HandEndedEvent is published when a trick is collected
type HandEndedEvent struct {
	Winner string
	Seat   int
	Tricks int
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }

// RoundScoredEvent carries the points of every seat after scoring, by table
// position.
type RoundScoredEvent struct {
	Round   int
	Points  []int
	Rewards []whist.Reward
}

func (e RoundScoredEvent) EventType() EventType { return EventTypeRoundScored }

// RoundRepeatedEvent is published when a round will be dealt again
type RoundRepeatedEvent struct {
	Round int
}

func (e RoundRepeatedEvent) EventType() EventType { return EventTypeRoundRepeated }

// DeadlineArmedEvent shows a full row of deadline indicators
type DeadlineArmedEvent struct {
	Kind  DecisionKind
	Ticks int
}

func (e DeadlineArmedEvent) EventType() EventType { return EventTypeDeadlineArmed }

// DeadlineTickEvent removes one deadline indicator
type DeadlineTickEvent struct {
	Remaining int
}

func (e DeadlineTickEvent) EventType() EventType { return EventTypeDeadlineTick }

// SelectionChangedEvent moves or hides the human's selection marker
type SelectionChangedEvent struct {
	Kind      DecisionKind
	Candidate int
	Marker    layout.Point
	Visible   bool
}

func (e SelectionChangedEvent) EventType() EventType { return EventTypeSelectionChanged }

// GameOverEvent is published when no round is left to play
type GameOverEvent struct {
	Standings []int
	Players   []string
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }

// EventSubscriber can subscribe to engine events
type EventSubscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus delivers events synchronously, in subscription order
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Subscribers must be comparable;
// a SubscriberFunc cannot be unsubscribed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
