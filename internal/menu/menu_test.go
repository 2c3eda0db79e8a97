package menu

import (
	"strings"
	"testing"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
)

func release(b input.Button) input.Event {
	return input.Event{Button: b, Action: input.ActionReleased}
}

func testChoices() []Choice {
	return []Choice{
		{Label: "Measure Tires", Code: 10},
		{Label: "Instant Temp", Code: 20},
		{Label: "Settings", Code: 30},
	}
}

func TestSessionNavigatesAndConfirms(t *testing.T) {
	s, err := NewSession("Main Menu", testChoices(), 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if _, done := s.Step(release(input.Next)); done {
		t.Fatal("Next confirmed the menu")
	}
	if s.Index() != 1 {
		t.Fatalf("index = %d after Next, want 1", s.Index())
	}

	code, done := s.Step(release(input.Select))
	if !done {
		t.Fatal("Select release did not confirm")
	}
	if code != 20 {
		t.Errorf("code = %d, want 20", code)
	}
	if !s.Done() {
		t.Error("Done() = false after confirmation")
	}
}

func TestSessionClampsAtEnds(t *testing.T) {
	s, err := NewSession("Main Menu", testChoices(), 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// Prev at the top stays at the top.
	s.Step(release(input.Prev))
	if s.Index() != 0 {
		t.Errorf("index = %d after Prev at top, want 0", s.Index())
	}

	// Run Next far past the end.
	for i := 0; i < 10; i++ {
		s.Step(release(input.Next))
	}
	if s.Index() != 2 {
		t.Errorf("index = %d after Next past the end, want 2", s.Index())
	}
	if s.Highlighted().Code != 30 {
		t.Errorf("highlighted code = %d, want 30", s.Highlighted().Code)
	}
}

func TestSessionIgnoresPressAndLongPress(t *testing.T) {
	s, err := NewSession("Main Menu", testChoices(), 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	s.Step(input.Event{Button: input.Next, Action: input.ActionPressed})
	if s.Index() != 0 {
		t.Errorf("index = %d after PRESSED, want 0 (only releases move)", s.Index())
	}

	if _, done := s.Step(input.Event{Button: input.Select, Action: input.ActionLongPress}); done {
		t.Error("LONG_PRESS confirmed the menu")
	}
}

func TestSessionInertAfterDone(t *testing.T) {
	s, err := NewSession("Main Menu", testChoices(), 2)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	code, done := s.Step(release(input.Select))
	if !done || code != 30 {
		t.Fatalf("confirm got (%d, %v), want (30, true)", code, done)
	}

	// Everything after confirmation is ignored.
	s.Step(release(input.Prev))
	if s.Index() != 2 {
		t.Errorf("index moved to %d after done", s.Index())
	}
	if code, done := s.Step(release(input.Select)); done || code != 0 {
		t.Errorf("second Select got (%d, %v), want (0, false)", code, done)
	}
}

func TestNewSessionClampsInitial(t *testing.T) {
	s, err := NewSession("Main Menu", testChoices(), 99)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Index() != 2 {
		t.Errorf("index = %d, want clamped to 2", s.Index())
	}

	s, err = NewSession("Main Menu", testChoices(), -4)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Index() != 0 {
		t.Errorf("index = %d, want clamped to 0", s.Index())
	}
}

func TestNewSessionRejectsBadChoiceLists(t *testing.T) {
	if _, err := NewSession("Empty", nil, 0); err == nil {
		t.Error("no error for empty choice list")
	}

	big := make([]Choice, MaxChoices+1)
	for i := range big {
		big[i] = Choice{Label: "entry", Code: i}
	}
	_, err := NewSession("Big", big, 0)
	if err == nil {
		t.Fatal("no error for oversized choice list")
	}
	if !strings.Contains(err.Error(), "exceeds limit") {
		t.Errorf("error = %q, want mention of the limit", err)
	}

	// Exactly at the limit is fine.
	if _, err := NewSession("Full", big[:MaxChoices], 0); err != nil {
		t.Errorf("NewSession at limit: %v", err)
	}
}

func TestSessionLabels(t *testing.T) {
	s, err := NewSession("Main Menu", testChoices(), 0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	labels := s.Labels()
	want := []string{"Measure Tires", "Instant Temp", "Settings"}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
	if s.Title() != "Main Menu" {
		t.Errorf("title = %q", s.Title())
	}
}
