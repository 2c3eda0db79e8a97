package input

import "time"

// Defaults for the control cluster. The poll loop runs well below the
// debounce interval, so several raw samples back every confirmation.
const (
	DefaultDebounce  = 20 * time.Millisecond
	DefaultLongPress = time.Second
)

// Debouncer turns raw per-tick button levels into debounced events.
//
// A raw edge arms (or re-arms) a pending transition; the logical state flips
// only once the raw level has held steady for the debounce interval. Contact
// flicker shorter than the interval produces no events. A hold that lasts
// past the long-press threshold emits LONG_PRESS exactly once, and the
// eventual RELEASED is still reported.
type Debouncer struct {
	debounce  time.Duration
	longPress time.Duration
	buttons   [NumButtons]channelState
}

// NewDebouncer creates a Debouncer. Non-positive durations fall back to the
// defaults.
func NewDebouncer(debounce, longPress time.Duration) *Debouncer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if longPress <= 0 {
		longPress = DefaultLongPress
	}
	return &Debouncer{debounce: debounce, longPress: longPress}
}

// Advance consumes one raw sample covering every button and returns the
// events it confirms, ordered Select, Next, Prev. At most one event per
// button is emitted per call.
//
// The first call seeds the baseline silently, so a button held at power-on
// does not produce a phantom press.
func (d *Debouncer) Advance(levels Levels, now time.Time) []Event {
	var events []Event
	for b := Button(0); b < NumButtons; b++ {
		if ev, ok := d.advance(&d.buttons[b], levels[b], now); ok {
			ev.Button = b
			events = append(events, ev)
		}
	}
	return events
}

func (d *Debouncer) advance(ch *channelState, level bool, now time.Time) (Event, bool) {
	if !ch.seeded {
		ch.raw = level
		ch.rawSince = now
		ch.stable = level
		ch.stableSince = now
		ch.seeded = true
		return Event{}, false
	}

	if level != ch.raw {
		ch.raw = level
		ch.rawSince = now
	}

	if ch.raw != ch.stable && now.Sub(ch.rawSince) >= d.debounce {
		held := now.Sub(ch.stableSince)
		ch.stable = ch.raw
		ch.stableSince = now
		if ch.stable {
			ch.longFired = false
			return Event{Action: ActionPressed, Timestamp: now, HeldFor: held}, true
		}
		return Event{Action: ActionReleased, Timestamp: now, HeldFor: held}, true
	}

	if ch.stable && !ch.longFired && now.Sub(ch.stableSince) >= d.longPress {
		ch.longFired = true
		return Event{Action: ActionLongPress, Timestamp: now, HeldFor: now.Sub(ch.stableSince)}, true
	}

	return Event{}, false
}

// IsPressed reports the debounced state of one button.
func (d *Debouncer) IsPressed(b Button) bool {
	if b < 0 || b >= NumButtons {
		return false
	}
	return d.buttons[b].stable
}

// HeldFor reports how long a button has been held as of now, or zero when it
// is released.
func (d *Debouncer) HeldFor(b Button, now time.Time) time.Duration {
	if b < 0 || b >= NumButtons {
		return 0
	}
	ch := d.buttons[b]
	if !ch.stable {
		return 0
	}
	return now.Sub(ch.stableSince)
}
