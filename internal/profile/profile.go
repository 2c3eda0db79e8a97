// Package profile defines the vehicle descriptions that shape a measurement
// session: how many tires, how many probe points per tire, and the labels
// and warning ceilings for each.
package profile

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Grid capacity. Six tires covers anything from a kart to a six-wheeler;
// three positions is the conventional outer/middle/inner sweep.
const (
	MaxTires     = 6
	MaxPositions = 3
)

// Vehicle describes one car's tire layout. The measurement core treats a
// Vehicle as read-only; edits go through the store.
type Vehicle struct {
	ID            int64
	Name          string
	TireCount     int
	PositionCount int
	// TireLabels and PositionLabels are display-order names, at least
	// TireCount and PositionCount long.
	TireLabels     []string
	PositionLabels []string
	// MaxTemps holds per-tire warning ceilings. A zero entry (or a short
	// slice) disables the warning for that tire.
	MaxTemps []physic.Temperature
}

// Validate checks the profile is usable for a session.
func (v Vehicle) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("vehicle: empty name")
	}
	if v.TireCount < 1 || v.TireCount > MaxTires {
		return fmt.Errorf("vehicle %q: tire count %d out of range 1..%d", v.Name, v.TireCount, MaxTires)
	}
	if v.PositionCount < 1 || v.PositionCount > MaxPositions {
		return fmt.Errorf("vehicle %q: position count %d out of range 1..%d", v.Name, v.PositionCount, MaxPositions)
	}
	if len(v.TireLabels) < v.TireCount {
		return fmt.Errorf("vehicle %q: %d tire labels for %d tires", v.Name, len(v.TireLabels), v.TireCount)
	}
	if len(v.PositionLabels) < v.PositionCount {
		return fmt.Errorf("vehicle %q: %d position labels for %d positions", v.Name, len(v.PositionLabels), v.PositionCount)
	}
	return nil
}

// TireLabel returns the label for tire t, falling back to its number.
func (v Vehicle) TireLabel(t int) string {
	if t >= 0 && t < len(v.TireLabels) {
		return v.TireLabels[t]
	}
	return fmt.Sprintf("T%d", t+1)
}

// PositionLabel returns the label for position p, falling back to its number.
func (v Vehicle) PositionLabel(p int) string {
	if p >= 0 && p < len(v.PositionLabels) {
		return v.PositionLabels[p]
	}
	return fmt.Sprintf("P%d", p+1)
}

// MaxTemp returns the warning ceiling for tire t, zero when disabled.
func (v Vehicle) MaxTemp(t int) physic.Temperature {
	if t >= 0 && t < len(v.MaxTemps) {
		return v.MaxTemps[t]
	}
	return 0
}

// Default is the profile seeded into an empty store: a four-wheel car probed
// outer, middle, inner with a 230F ceiling all around.
func Default() Vehicle {
	ceiling := physic.ZeroCelsius + physic.Temperature(110)*physic.Celsius
	return Vehicle{
		Name:           "Test Car",
		TireCount:      4,
		PositionCount:  3,
		TireLabels:     []string{"LF", "RF", "LR", "RR"},
		PositionLabels: []string{"O", "M", "I"},
		MaxTemps:       []physic.Temperature{ceiling, ceiling, ceiling, ceiling},
	}
}
