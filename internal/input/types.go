// Package input contains pure button-handling logic for the three-button
// control cluster. This package has NO external dependencies (no GPIO,
// display, OS, or time.Sleep). Time is always injectable via time.Time
// parameters.
package input

import "time"

// Button identifies one of the three physical controls.
type Button int

const (
	// Select confirms; holding it aborts the running session.
	Select Button = iota
	// Next moves forward through menus and tires.
	Next
	// Prev moves backward; during sampling it cancels the current cell.
	Prev
)

// NumButtons is the size of the control cluster.
const NumButtons = 3

func (b Button) String() string {
	switch b {
	case Select:
		return "SELECT"
	case Next:
		return "NEXT"
	case Prev:
		return "PREV"
	}
	return "UNKNOWN"
}

// Action is the kind of debounced event emitted for a button.
type Action string

const (
	ActionPressed   Action = "PRESSED"
	ActionReleased  Action = "RELEASED"
	ActionLongPress Action = "LONG_PRESS"
)

// Event is a confirmed button transition.
type Event struct {
	Button    Button
	Action    Action
	Timestamp time.Time
	// HeldFor is how long the button had been held (RELEASED, LONG_PRESS)
	// or how long it had sat released before this press (PRESSED).
	HeldFor time.Duration
}

// Levels is one raw sample covering all buttons, true = contact closed.
// Indexed by Button.
type Levels [NumButtons]bool

// channelState tracks debounce state for a single button.
type channelState struct {
	// Last raw level seen and when it last changed.
	raw      bool
	rawSince time.Time
	// Debounced logical state, true = pressed, and when it last flipped.
	stable      bool
	stableSince time.Time
	// Long-press already emitted for the current hold.
	longFired bool
	// First sample recorded.
	seeded bool
}
