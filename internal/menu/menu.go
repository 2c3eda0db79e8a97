// Package menu implements the list-selection state machine behind every
// on-device menu. Like the rest of the interaction core it is pure logic:
// events in, a confirmed code out.
package menu

import (
	"fmt"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
)

// MaxChoices bounds how many entries a single menu may hold.
const MaxChoices = 100

// Choice is one selectable entry. Code is what Step returns when the entry
// is confirmed; it carries no meaning to the menu itself.
type Choice struct {
	Label string
	Code  int
}

// Session is a single menu interaction. Next and Prev move the highlight,
// clamping at the ends rather than wrapping, and Select confirms. A Session
// is done after confirmation and ignores further events; callers discard it.
type Session struct {
	title   string
	choices []Choice
	index   int
	done    bool
}

// NewSession starts a menu over choices with the highlight at initial.
// An out-of-range initial is clamped.
func NewSession(title string, choices []Choice, initial int) (*Session, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("menu %q: no choices", title)
	}
	if len(choices) > MaxChoices {
		return nil, fmt.Errorf("menu %q: %d choices exceeds limit of %d", title, len(choices), MaxChoices)
	}
	if initial < 0 {
		initial = 0
	}
	if initial >= len(choices) {
		initial = len(choices) - 1
	}
	return &Session{title: title, choices: choices, index: initial}, nil
}

// Step feeds one debounced event to the menu. Once Select is released it
// returns the highlighted choice's code and true; until then the code is
// zero and done is false. Only releases drive the menu, so holds and
// long-press noise pass through harmlessly.
func (s *Session) Step(ev input.Event) (code int, done bool) {
	if s.done || ev.Action != input.ActionReleased {
		return 0, false
	}
	switch ev.Button {
	case input.Next:
		if s.index < len(s.choices)-1 {
			s.index++
		}
	case input.Prev:
		if s.index > 0 {
			s.index--
		}
	case input.Select:
		s.done = true
		return s.choices[s.index].Code, true
	}
	return 0, false
}

// Title returns the menu heading.
func (s *Session) Title() string { return s.title }

// Index returns the highlighted row.
func (s *Session) Index() int { return s.index }

// Done reports whether a choice has been confirmed.
func (s *Session) Done() bool { return s.done }

// Highlighted returns the choice under the cursor.
func (s *Session) Highlighted() Choice { return s.choices[s.index] }

// Labels returns the entry labels in display order.
func (s *Session) Labels() []string {
	labels := make([]string, len(s.choices))
	for i, c := range s.choices {
		labels[i] = c.Label
	}
	return labels
}
