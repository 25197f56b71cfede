package blackjack

// InvalidEventError marks an event inconsistent with the current game state.
// Such events are rejected as no-ops and never fatal: the engine degrades to
// announcing its current best-known state.
type InvalidEventError string

func (e InvalidEventError) Error() string { return "invalid event: " + string(e) }

func ErrInvalidEvent(msg string) error { return InvalidEventError(msg) }
