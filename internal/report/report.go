// Package report turns a finished session into operator-facing summaries:
// per-tire statistics, the web review page, and the temperature chart.
package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// TireStats summarizes one tire's accepted readings in the display unit.
type TireStats struct {
	Tire   int
	Label  string
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	Spread float64
	StdDev float64
	// Hot is set when any reading met the profile's warning ceiling.
	Hot bool
}

// Summary aggregates one session for the review page and the chart.
type Summary struct {
	VehicleName string
	Unit        units.Unit
	Cells       int
	Total       int
	Tires       []TireStats
}

// Summarize computes per-tire statistics over the accepted readings.
// Tires with no readings report Count 0 and zero statistics.
func Summarize(rec session.Record, unit units.Unit) Summary {
	sum := Summary{
		VehicleName: rec.Vehicle.Name,
		Unit:        unit,
		Total:       rec.Matrix.Tires() * rec.Matrix.Positions(),
	}
	for t := 0; t < rec.Matrix.Tires(); t++ {
		ts := TireStats{Tire: t, Label: rec.Vehicle.TireLabel(t)}
		ceiling := rec.Vehicle.MaxTemp(t)

		var vals []float64
		for p := 0; p < rec.Matrix.Positions(); p++ {
			cell := rec.Matrix.At(t, p)
			if !cell.Set() {
				continue
			}
			vals = append(vals, units.Value(cell.Temp, unit))
			if ceiling != 0 && cell.Temp >= ceiling {
				ts.Hot = true
			}
		}

		ts.Count = len(vals)
		sum.Cells += len(vals)
		if len(vals) > 0 {
			ts.Mean = stat.Mean(vals, nil)
			ts.Min = floats.Min(vals)
			ts.Max = floats.Max(vals)
			ts.Spread = ts.Max - ts.Min
		}
		// Sample deviation needs two points; leave it zero below that.
		if len(vals) > 1 {
			ts.StdDev = stat.StdDev(vals, nil)
		}
		sum.Tires = append(sum.Tires, ts)
	}
	return sum
}
