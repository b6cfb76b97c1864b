package engine

import "errors"

// Every engine operation reports its outcome through one of these errors.
// Nil-argument and missing-object errors mean the event was ignored.
// ErrIllegalValue means the event was dropped and nothing changed. ErrGameOver
// and ErrRoundOver are control signals for the round lifecycle.
var (
	ErrNilArgument   = errors.New("nil argument")
	ErrMissingGame   = errors.New("game missing")
	ErrMissingRound  = errors.New("round missing")
	ErrMissingHand   = errors.New("hand missing")
	ErrMissingPlayer = errors.New("player missing")
	ErrIllegalValue  = errors.New("illegal value")
	ErrGameOver      = errors.New("game over")
	ErrRoundOver     = errors.New("round over")
)

// Ignorable reports whether err only means the triggering event had no
// effect.
func Ignorable(err error) bool {
	return errors.Is(err, ErrIllegalValue) ||
		errors.Is(err, ErrNilArgument) ||
		errors.Is(err, ErrMissingGame) ||
		errors.Is(err, ErrMissingRound) ||
		errors.Is(err, ErrMissingHand) ||
		errors.Is(err, ErrMissingPlayer)
}
