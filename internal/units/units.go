// Package units converts between canonical physic.Temperature readings and
// the operator-facing display scale. Everything inside the device works in
// physic.Temperature; conversion happens only at presentation edges.
package units

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/physic"
)

// Unit is the operator-facing temperature scale.
type Unit string

const (
	Fahrenheit Unit = "F"
	Celsius    Unit = "C"
)

// Parse reads a unit from config or API input.
func Parse(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FAHRENHEIT":
		return Fahrenheit, nil
	case "C", "CELSIUS":
		return Celsius, nil
	}
	return "", fmt.Errorf("unknown temperature unit %q", s)
}

// Value returns the absolute temperature in the display unit.
func Value(t physic.Temperature, u Unit) float64 {
	if u == Celsius {
		return t.Celsius()
	}
	return t.Fahrenheit()
}

// Absolute converts a display-unit temperature to canonical form.
func Absolute(v float64, u Unit) physic.Temperature {
	if u == Celsius {
		return physic.ZeroCelsius + physic.Temperature(v*float64(physic.Celsius))
	}
	return physic.ZeroFahrenheit + physic.Temperature(v*float64(physic.Fahrenheit))
}

// Delta converts a temperature span (a difference, not an absolute) from the
// display unit. Spans carry no zero offset: one Fahrenheit degree is 5/9 K.
func Delta(v float64, u Unit) physic.Temperature {
	if u == Celsius {
		return physic.Temperature(v * float64(physic.Celsius))
	}
	return physic.Temperature(v * float64(physic.Fahrenheit))
}

// DeltaValue converts a temperature span to the display unit.
func DeltaValue(t physic.Temperature, u Unit) float64 {
	if u == Celsius {
		return float64(t) / float64(physic.Celsius)
	}
	return float64(t) / float64(physic.Fahrenheit)
}

// Format renders an absolute temperature for display, like "184.3°F".
func Format(t physic.Temperature, u Unit) string {
	return fmt.Sprintf("%.1f°%s", Value(t, u), u)
}
