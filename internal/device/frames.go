package device

import (
	"fmt"

	"github.com/bbsmith24/yamura-pyrometer/internal/clock"
	"github.com/bbsmith24/yamura-pyrometer/internal/display"
	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

func (d *Device) runnerFrame() display.GridFrame {
	v := d.runner.Vehicle()
	f := d.gridFrame(v, d.runner.Grid())
	f.Tire = d.runner.Tire()
	f.Position = d.runner.Position()
	f.Sampling = d.runner.State() == session.StateSampling
	f.Notice = d.notice
	if f.Sampling {
		if !d.lastReadingAt.IsZero() {
			f.Live = units.Format(d.lastReading, d.unit)
		}
		f.Footer = "PREV cancel  HOLD SELECT abort"
	} else {
		f.Footer = "NEXT/PREV tire  SELECT probe"
	}
	return f
}

func (d *Device) reviewFrame() display.GridFrame {
	f := d.gridFrame(d.review.Vehicle, d.review.Matrix)
	f.Title = d.review.Vehicle.Name + "  " + clock.Stamp(d.review.CompletedAt, d.twelveHour)
	f.Tire = -1
	f.Position = -1
	f.Footer = "any button returns"
	return f
}

// gridFrame formats a reading grid for display. Cells at or above the
// tire's ceiling are flagged hot; a zero ceiling disables the check.
// Labels go through the Vehicle fallbacks: stored rows are not revalidated
// on load, so a short label list must not take the frame down.
func (d *Device) gridFrame(v profile.Vehicle, m session.Matrix) display.GridFrame {
	tireLabels := make([]string, v.TireCount)
	for t := range tireLabels {
		tireLabels[t] = v.TireLabel(t)
	}
	positionLabels := make([]string, v.PositionCount)
	for p := range positionLabels {
		positionLabels[p] = v.PositionLabel(p)
	}

	cells := make([][]display.CellView, v.TireCount)
	for t := 0; t < v.TireCount; t++ {
		row := make([]display.CellView, v.PositionCount)
		ceiling := v.MaxTemp(t)
		for p := 0; p < v.PositionCount; p++ {
			c := m.At(t, p)
			if !c.Set() {
				row[p] = display.CellView{Text: "--"}
				continue
			}
			row[p] = display.CellView{
				Text: fmt.Sprintf("%.1f", units.Value(c.Temp, d.unit)),
				Set:  true,
				Hot:  ceiling != 0 && c.Temp >= ceiling,
			}
		}
		cells[t] = row
	}
	return display.GridFrame{
		Title:          v.Name,
		TireLabels:     tireLabels,
		PositionLabels: positionLabels,
		Cells:          cells,
	}
}

func (d *Device) instantFrame() display.ReadingFrame {
	value := "--"
	if !d.lastReadingAt.IsZero() {
		value = units.Format(d.lastReading, d.unit)
	}
	return display.ReadingFrame{
		Title:  "Instant Temp",
		Value:  value,
		Footer: "SELECT exit",
	}
}
