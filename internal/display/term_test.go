package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTermMenu(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerm(&buf)

	err := term.Menu(MenuFrame{
		Title:  "Main Menu",
		Labels: []string{"Measure Tires", "Instant Temp", "Settings"},
		Index:  1,
		Footer: "Select to confirm",
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "== Main Menu ==") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "> Instant Temp") {
		t.Errorf("highlight not on row 1:\n%s", out)
	}
	if !strings.Contains(out, "  Measure Tires") {
		t.Errorf("unhighlighted row mangled:\n%s", out)
	}
	if !strings.Contains(out, "Select to confirm") {
		t.Errorf("missing footer:\n%s", out)
	}
}

func TestTermGrid(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerm(&buf)

	err := term.Grid(GridFrame{
		Title:          "Test Car",
		TireLabels:     []string{"LF", "RF"},
		PositionLabels: []string{"O", "M", "I"},
		Cells: [][]CellView{
			{{Text: "185.2", Set: true}, {Text: "--"}, {Text: "--"}},
			{{Text: "--"}, {Text: "--"}, {Text: "--"}},
		},
		Tire:     0,
		Position: 1,
		Sampling: true,
		Live:     "183.9°F",
		Notice:   "",
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, ">LF") {
		t.Errorf("tire highlight missing:\n%s", out)
	}
	if !strings.Contains(out, "185.2") {
		t.Errorf("set cell missing:\n%s", out)
	}
	if !strings.Contains(out, "[--]") {
		t.Errorf("sampling cell not bracketed:\n%s", out)
	}
	if !strings.Contains(out, "sampling 183.9°F") {
		t.Errorf("live value missing:\n%s", out)
	}
}

func TestTermReadingAndMessage(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerm(&buf)

	if err := term.Reading(ReadingFrame{Title: "Instant Temp", Value: "72.4°F"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "72.4°F") {
		t.Errorf("reading missing:\n%s", buf.String())
	}

	buf.Reset()
	if err := term.Message(MessageFrame{Title: "Save Failed", Lines: []string{"database locked", "Retry or Discard"}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Save Failed") || !strings.Contains(out, "database locked") {
		t.Errorf("message mangled:\n%s", out)
	}

	if err := term.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRecorderCapturesAndFails(t *testing.T) {
	r := NewRecorder()

	r.Menu(MenuFrame{Title: "A"})
	r.Menu(MenuFrame{Title: "B"})
	r.Grid(GridFrame{Title: "G"})
	r.Reading(ReadingFrame{Value: "70.0°F"})
	r.Message(MessageFrame{Title: "M"})

	if len(r.Menus) != 2 || r.LastMenu().Title != "B" {
		t.Errorf("menus = %+v", r.Menus)
	}
	if r.LastGrid().Title != "G" || r.LastReading().Value != "70.0°F" || r.LastMessage().Title != "M" {
		t.Error("last accessors broken")
	}

	r.RenderError = errors.New("panel gone")
	if err := r.Menu(MenuFrame{Title: "C"}); err == nil {
		t.Error("RenderError not returned")
	}
	if len(r.Menus) != 2 {
		t.Error("failed draw was recorded")
	}

	r.Close()
	if !r.Closed {
		t.Error("Closed not set")
	}
}
