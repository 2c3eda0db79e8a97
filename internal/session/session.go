// Package session drives a tire measurement session: tire-by-tire traversal,
// per-cell stabilization, and the grid of accepted readings. Like the rest
// of the measurement core it performs no I/O; time and sensor readings come
// in as parameters each tick.
package session

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
)

// State identifies where the traversal is.
type State string

const (
	// StateSelectTire waits for the operator to pick a tire.
	StateSelectTire State = "SELECT_TIRE"
	// StateSampling polls the probe for the current cell.
	StateSampling State = "SAMPLING"
	// StateComplete means every cell holds an accepted reading.
	StateComplete State = "COMPLETE"
	// StateAborted means the operator abandoned the session.
	StateAborted State = "ABORTED"
)

// EventType classifies traversal transitions.
type EventType string

const (
	EventTireSelected    EventType = "TIRE_SELECTED"
	EventSamplingStarted EventType = "SAMPLING_STARTED"
	EventCellAccepted    EventType = "CELL_ACCEPTED"
	EventCellCanceled    EventType = "CELL_CANCELED"
	EventFault           EventType = "ACQUISITION_FAULT"
	EventComplete        EventType = "SESSION_COMPLETE"
	EventAborted         EventType = "SESSION_ABORTED"
)

// Event reports one traversal transition.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Tire      int
	Position  int
	// Temp is the accepted reading. CELL_ACCEPTED only.
	Temp physic.Temperature
	// AtBoundary marks a tire navigation pinned at a grid edge.
	// TIRE_SELECTED only.
	AtBoundary bool
	// Err is the probe error that exhausted the retries.
	// ACQUISITION_FAULT only.
	Err error
}

// Cell is one grid slot. The zero value means no accepted reading; cells
// only become set through Matrix.Set, so no temperature value doubles as
// the unset marker.
type Cell struct {
	Temp physic.Temperature
	At   time.Time

	filled bool
}

// Set reports whether the cell holds an accepted reading.
func (c Cell) Set() bool { return c.filled }

// Matrix is the fixed-capacity reading grid, dimensioned by the vehicle
// profile. Accepted readings overwrite; there is no append.
type Matrix struct {
	tires     int
	positions int
	cells     [profile.MaxTires][profile.MaxPositions]Cell
}

// NewMatrix creates an empty grid. Dimensions are clamped to capacity.
func NewMatrix(tires, positions int) Matrix {
	if tires < 1 {
		tires = 1
	}
	if tires > profile.MaxTires {
		tires = profile.MaxTires
	}
	if positions < 1 {
		positions = 1
	}
	if positions > profile.MaxPositions {
		positions = profile.MaxPositions
	}
	return Matrix{tires: tires, positions: positions}
}

// Tires reports the grid's tire dimension.
func (m Matrix) Tires() int { return m.tires }

// Positions reports the grid's per-tire probe points.
func (m Matrix) Positions() int { return m.positions }

// InBounds reports whether (tire, position) addresses a real cell.
func (m Matrix) InBounds(tire, position int) bool {
	return tire >= 0 && tire < m.tires && position >= 0 && position < m.positions
}

// At returns the cell at (tire, position), or the zero Cell out of bounds.
func (m Matrix) At(tire, position int) Cell {
	if !m.InBounds(tire, position) {
		return Cell{}
	}
	return m.cells[tire][position]
}

// Set records an accepted reading. Out-of-bounds writes are dropped.
func (m *Matrix) Set(tire, position int, temp physic.Temperature, at time.Time) {
	if !m.InBounds(tire, position) {
		return
	}
	m.cells[tire][position] = Cell{Temp: temp, At: at, filled: true}
}

// Clear empties one cell.
func (m *Matrix) Clear(tire, position int) {
	if !m.InBounds(tire, position) {
		return
	}
	m.cells[tire][position] = Cell{}
}

// SetCount reports how many cells hold accepted readings.
func (m Matrix) SetCount() int {
	n := 0
	for t := 0; t < m.tires; t++ {
		for p := 0; p < m.positions; p++ {
			if m.cells[t][p].Set() {
				n++
			}
		}
	}
	return n
}

// Full reports whether every cell holds an accepted reading.
func (m Matrix) Full() bool {
	return m.SetCount() == m.tires*m.positions
}

// Record is a finished session ready for persistence.
type Record struct {
	ID          string
	Vehicle     profile.Vehicle
	StartedAt   time.Time
	CompletedAt time.Time
	Matrix      Matrix
}
