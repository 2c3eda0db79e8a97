// Package display turns device state into frames and draws them. Frames are
// declarative and fully pre-formatted; renderers lay out text and nothing
// else, so the same frame drives the OLED, the terminal, and the tests.
package display

// MenuFrame shows a list with one highlighted row.
type MenuFrame struct {
	Title  string
	Labels []string
	Index  int
	Footer string
}

// CellView is one grid slot, already formatted for the active unit.
type CellView struct {
	Text string // "--" when unset
	Set  bool
	Hot  bool // at or above the tire's warning ceiling
}

// GridFrame shows the measurement grid mid-session or in review.
type GridFrame struct {
	Title          string
	TireLabels     []string
	PositionLabels []string
	Cells          [][]CellView // [tire][position]
	Tire           int          // highlighted tire
	Position       int          // highlighted position while sampling
	Sampling       bool
	Live           string // live probe value while sampling
	Notice         string // transient message: faults, boundary bumps
	Footer         string
}

// ReadingFrame shows one big live value.
type ReadingFrame struct {
	Title  string
	Value  string
	Footer string
}

// MessageFrame shows a few lines of text.
type MessageFrame struct {
	Title string
	Lines []string
}

// Renderer draws frames. Draw errors are reported to the caller, which logs
// and keeps running; a dead display must not take the sampling loop with it.
type Renderer interface {
	Menu(MenuFrame) error
	Grid(GridFrame) error
	Reading(ReadingFrame) error
	Message(MessageFrame) error
	Close() error
}

// Nop discards every frame. Used when the daemon runs headless and the web
// server is the only view.
type Nop struct{}

func (Nop) Menu(MenuFrame) error       { return nil }
func (Nop) Grid(GridFrame) error       { return nil }
func (Nop) Reading(ReadingFrame) error { return nil }
func (Nop) Message(MessageFrame) error { return nil }
func (Nop) Close() error               { return nil }
