package session

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/sample"
)

// DefaultRetryLimit is how many consecutive probe errors abandon a cell.
const DefaultRetryLimit = 5

// Reading carries the probe result for one tick. OK is false when no read
// was attempted this tick; the runner only consumes readings while sampling,
// so the host skips the probe otherwise.
type Reading struct {
	Temp physic.Temperature
	Err  error
	OK   bool
}

// Runner walks one measurement session across a vehicle's grid.
//
// The operator picks a tire (Next/Prev to move, Select to start), then the
// probe positions run in order, each cell waiting for the sampler to declare
// the reading stable. Prev (released or held) backs out of the current cell
// without recording it; holding Select abandons the whole session. A tire already
// measured can be selected again and its cells are overwritten.
type Runner struct {
	vehicle profile.Vehicle
	matrix  Matrix
	sampler *sample.Sampler

	state    State
	tire     int
	position int

	errStreak  int
	retryLimit int

	startedAt   time.Time
	completedAt time.Time
}

// New creates a runner positioned at the first tire, waiting for selection.
// A retryLimit below 1 falls back to DefaultRetryLimit.
func New(v profile.Vehicle, sampler *sample.Sampler, retryLimit int, startedAt time.Time) *Runner {
	if retryLimit < 1 {
		retryLimit = DefaultRetryLimit
	}
	return &Runner{
		vehicle:    v,
		matrix:     NewMatrix(v.TireCount, v.PositionCount),
		sampler:    sampler,
		state:      StateSelectTire,
		retryLimit: retryLimit,
		startedAt:  startedAt,
	}
}

// NextTire clamps tire navigation to the grid. direction is +1 or -1;
// atBoundary reports that the requested move ran past an edge and was
// pinned there instead of wrapping.
func NextTire(current, direction, tireCount int) (next int, atBoundary bool) {
	next = current + direction
	if next < 0 {
		return 0, true
	}
	if next >= tireCount {
		return tireCount - 1, true
	}
	return next, false
}

// Tick advances the session by one cooperative tick. Button events and the
// probe reading for this tick come in together; transitions triggered by
// them come back in the order they occurred. An abort is honored before any
// sampling work, so it lands within the tick that saw the hold.
func (r *Runner) Tick(now time.Time, events []input.Event, reading Reading) []Event {
	if r.state == StateComplete || r.state == StateAborted {
		return nil
	}

	// Holding Select abandons the session from any live state. Nothing is
	// recorded or persisted on this path.
	for _, ev := range events {
		if ev.Button == input.Select && ev.Action == input.ActionLongPress {
			r.state = StateAborted
			return []Event{{Timestamp: now, Type: EventAborted, Tire: r.tire, Position: r.position}}
		}
	}

	switch r.state {
	case StateSelectTire:
		return r.tickSelect(now, events)
	case StateSampling:
		return r.tickSampling(now, events, reading)
	}
	return nil
}

func (r *Runner) tickSelect(now time.Time, events []input.Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Action != input.ActionReleased {
			continue
		}
		switch ev.Button {
		case input.Next:
			next, edge := NextTire(r.tire, +1, r.vehicle.TireCount)
			r.tire = next
			out = append(out, Event{Timestamp: now, Type: EventTireSelected, Tire: r.tire, AtBoundary: edge})
		case input.Prev:
			next, edge := NextTire(r.tire, -1, r.vehicle.TireCount)
			r.tire = next
			out = append(out, Event{Timestamp: now, Type: EventTireSelected, Tire: r.tire, AtBoundary: edge})
		case input.Select:
			r.startSampling(0)
			out = append(out, Event{Timestamp: now, Type: EventSamplingStarted, Tire: r.tire, Position: r.position})
			return out
		}
	}
	return out
}

func (r *Runner) tickSampling(now time.Time, events []input.Event, reading Reading) []Event {
	// Prev backs out of the current cell, on release or on a hold (the
	// hold's trailing release never reaches any mode): nothing recorded,
	// the cell stays (or becomes) unset, back to tire selection.
	for _, ev := range events {
		if ev.Button == input.Prev && (ev.Action == input.ActionReleased || ev.Action == input.ActionLongPress) {
			r.matrix.Clear(r.tire, r.position)
			r.state = StateSelectTire
			r.sampler.Reset()
			r.errStreak = 0
			return []Event{{Timestamp: now, Type: EventCellCanceled, Tire: r.tire, Position: r.position}}
		}
	}

	if !reading.OK {
		return nil
	}

	if reading.Err != nil {
		r.errStreak++
		if r.errStreak >= r.retryLimit {
			ev := Event{Timestamp: now, Type: EventFault, Tire: r.tire, Position: r.position, Err: reading.Err}
			r.matrix.Clear(r.tire, r.position)
			r.state = StateSelectTire
			r.sampler.Reset()
			r.errStreak = 0
			return []Event{ev}
		}
		// Skip the tick; the next read may recover.
		return nil
	}
	r.errStreak = 0

	res := r.sampler.Offer(reading.Temp, now)
	if !res.Stable {
		return nil
	}

	r.matrix.Set(r.tire, r.position, res.Value, res.At)
	out := []Event{{Timestamp: now, Type: EventCellAccepted, Tire: r.tire, Position: r.position, Temp: res.Value}}

	if r.position+1 < r.vehicle.PositionCount {
		r.startSampling(r.position + 1)
		out = append(out, Event{Timestamp: now, Type: EventSamplingStarted, Tire: r.tire, Position: r.position})
		return out
	}

	// Tire finished.
	if r.matrix.Full() {
		r.state = StateComplete
		r.completedAt = now
		return append(out, Event{Timestamp: now, Type: EventComplete, Tire: r.tire, Position: r.position})
	}
	nextTire, _ := NextTire(r.tire, +1, r.vehicle.TireCount)
	r.tire = nextTire
	r.position = 0
	r.state = StateSelectTire
	r.sampler.Reset()
	r.errStreak = 0
	return append(out, Event{Timestamp: now, Type: EventTireSelected, Tire: r.tire})
}

func (r *Runner) startSampling(position int) {
	r.position = position
	r.state = StateSampling
	r.sampler.Reset()
	r.errStreak = 0
}

// State reports the traversal state.
func (r *Runner) State() State { return r.state }

// Tire reports the selected (or sampling) tire index.
func (r *Runner) Tire() int { return r.tire }

// Position reports the probe point being sampled.
func (r *Runner) Position() int { return r.position }

// Vehicle returns the profile this session runs over.
func (r *Runner) Vehicle() profile.Vehicle { return r.vehicle }

// Grid returns a copy of the reading grid.
func (r *Runner) Grid() Matrix { return r.matrix }

// SampleCount reports how many raw samples the current cell has absorbed.
func (r *Runner) SampleCount() int { return r.sampler.Len() }

// StartedAt reports when the session began.
func (r *Runner) StartedAt() time.Time { return r.startedAt }

// Record captures the finished grid for persistence. Meaningful once the
// session is Complete; the id is assigned by the store when left empty.
func (r *Runner) Record(id string) Record {
	return Record{
		ID:          id,
		Vehicle:     r.vehicle,
		StartedAt:   r.startedAt,
		CompletedAt: r.completedAt,
		Matrix:      r.matrix,
	}
}
