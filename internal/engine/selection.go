package engine

import (
	"fmt"

	"github.com/lox/whist/internal/whist"
)

// DecisionKind names the decision a human seat is asked for
type DecisionKind int

const (
	AwaitNone DecisionKind = iota
	AwaitBid
	AwaitCard
)

func (k DecisionKind) String() string {
	switch k {
	case AwaitBid:
		return "bid"
	case AwaitCard:
		return "card"
	default:
		return "none"
	}
}

// SelectionState holds the human's pending decision. The awaited kind is
// the turn guard: it is the only thing that says a decision may still be
// resolved, and at most one kind is awaited at a time.
type SelectionState struct {
	awaiting  DecisionKind
	player    *whist.Player
	candidate int
}

// NewSelectionState returns a selection awaiting nothing
func NewSelectionState() *SelectionState {
	return &SelectionState{candidate: -1}
}

// Arm starts awaiting a decision of kind from p. Arming while another kind
// is awaited is rejected.
func (s *SelectionState) Arm(kind DecisionKind, p *whist.Player) error {
	if p == nil {
		return ErrNilArgument
	}
	if kind == AwaitNone {
		return fmt.Errorf("arm %s: %w", kind, ErrIllegalValue)
	}
	if s.awaiting != AwaitNone && s.awaiting != kind {
		return fmt.Errorf("arm %s while awaiting %s: %w", kind, s.awaiting, ErrIllegalValue)
	}
	s.awaiting = kind
	s.player = p
	s.candidate = -1
	return nil
}

// Awaiting reports whether a decision of kind may still be resolved
func (s *SelectionState) Awaiting(kind DecisionKind) bool {
	return kind != AwaitNone && s.awaiting == kind
}

// Kind returns the awaited decision kind
func (s *SelectionState) Kind() DecisionKind {
	return s.awaiting
}

// Player returns the player the decision is awaited from
func (s *SelectionState) Player() *whist.Player {
	if s.awaiting == AwaitNone {
		return nil
	}
	return s.player
}

// Take clears the guard for kind. Only the first caller gets true; every
// later resolution attempt for the same decision sees false.
func (s *SelectionState) Take(kind DecisionKind) bool {
	if !s.Awaiting(kind) {
		return false
	}
	s.awaiting = AwaitNone
	s.player = nil
	s.candidate = -1
	return true
}

// Hover records the candidate under the pointer; -1 clears it. It has no
// effect while nothing is awaited.
func (s *SelectionState) Hover(value int) bool {
	if s.awaiting == AwaitNone || s.candidate == value {
		return false
	}
	s.candidate = value
	return true
}

// Candidate returns the armed candidate, if any
func (s *SelectionState) Candidate() (int, bool) {
	return s.candidate, s.awaiting != AwaitNone && s.candidate >= 0
}
