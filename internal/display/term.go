package display

import (
	"fmt"
	"io"
)

// Term renders frames as ANSI text for development without the OLED.
type Term struct {
	w io.Writer
}

// NewTerm creates a terminal renderer writing to w, usually os.Stdout.
func NewTerm(w io.Writer) *Term {
	return &Term{w: w}
}

func (t *Term) clear() {
	fmt.Fprint(t.w, "\x1b[2J\x1b[H")
}

func (t *Term) Menu(f MenuFrame) error {
	t.clear()
	fmt.Fprintf(t.w, "== %s ==\n", f.Title)
	for i, label := range f.Labels {
		marker := "  "
		if i == f.Index {
			marker = "> "
		}
		fmt.Fprintf(t.w, "%s%s\n", marker, label)
	}
	if f.Footer != "" {
		fmt.Fprintf(t.w, "\n%s\n", f.Footer)
	}
	return nil
}

func (t *Term) Grid(f GridFrame) error {
	t.clear()
	fmt.Fprintf(t.w, "== %s ==\n", f.Title)

	fmt.Fprintf(t.w, "%-5s", "")
	for _, p := range f.PositionLabels {
		fmt.Fprintf(t.w, "%9s", p)
	}
	fmt.Fprintln(t.w)

	for ti, row := range f.Cells {
		name := ""
		if ti < len(f.TireLabels) {
			name = f.TireLabels[ti]
		}
		marker := " "
		if ti == f.Tire {
			marker = ">"
		}
		fmt.Fprintf(t.w, "%s%-4s", marker, name)
		for pi, cell := range row {
			text := cell.Text
			if f.Sampling && ti == f.Tire && pi == f.Position {
				text = "[" + text + "]"
			}
			fmt.Fprintf(t.w, "%9s", text)
		}
		fmt.Fprintln(t.w)
	}

	if f.Sampling && f.Live != "" {
		fmt.Fprintf(t.w, "\nsampling %s\n", f.Live)
	}
	if f.Notice != "" {
		fmt.Fprintf(t.w, "\n%s\n", f.Notice)
	}
	if f.Footer != "" {
		fmt.Fprintf(t.w, "%s\n", f.Footer)
	}
	return nil
}

func (t *Term) Reading(f ReadingFrame) error {
	t.clear()
	fmt.Fprintf(t.w, "== %s ==\n\n    %s\n", f.Title, f.Value)
	if f.Footer != "" {
		fmt.Fprintf(t.w, "\n%s\n", f.Footer)
	}
	return nil
}

func (t *Term) Message(f MessageFrame) error {
	t.clear()
	fmt.Fprintf(t.w, "== %s ==\n", f.Title)
	for _, line := range f.Lines {
		fmt.Fprintln(t.w, line)
	}
	return nil
}

func (t *Term) Close() error {
	return nil
}
