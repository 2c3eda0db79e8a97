package units

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Unit
		ok   bool
	}{
		{"F", Fahrenheit, true},
		{"f", Fahrenheit, true},
		{" fahrenheit ", Fahrenheit, true},
		{"C", Celsius, true},
		{"celsius", Celsius, true},
		{"K", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("Parse(%q) = (%q, %v), want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("Parse(%q) = %q, want error", tc.in, got)
		}
	}
}

func TestValue(t *testing.T) {
	boiling := physic.ZeroCelsius + 100*physic.Celsius
	if got := Value(boiling, Celsius); math.Abs(got-100) > 0.001 {
		t.Errorf("Value(boiling, C) = %v, want 100", got)
	}
	if got := Value(boiling, Fahrenheit); math.Abs(got-212) > 0.001 {
		t.Errorf("Value(boiling, F) = %v, want 212", got)
	}
}

func TestAbsoluteRoundTrips(t *testing.T) {
	for _, u := range []Unit{Fahrenheit, Celsius} {
		for _, v := range []float64{-40, 0, 70, 185.5, 212} {
			got := Value(Absolute(v, u), u)
			if math.Abs(got-v) > 0.001 {
				t.Errorf("Value(Absolute(%v, %s)) = %v", v, u, got)
			}
		}
	}

	// The two scales meet at -40.
	diff := Absolute(-40, Fahrenheit) - Absolute(-40, Celsius)
	if diff < 0 {
		diff = -diff
	}
	if diff > physic.MilliKelvin {
		t.Errorf("scales disagree at -40 by %v", diff)
	}
}

func TestDeltaCarriesNoOffset(t *testing.T) {
	// A 9F span is a 5K span.
	nineF := Delta(9, Fahrenheit)
	fiveC := Delta(5, Celsius)
	diff := nineF - fiveC
	if diff < 0 {
		diff = -diff
	}
	if diff > physic.MilliKelvin {
		t.Errorf("9F span = %v, 5C span = %v", nineF, fiveC)
	}

	if got := DeltaValue(5*physic.Kelvin, Fahrenheit); math.Abs(got-9) > 0.001 {
		t.Errorf("DeltaValue(5K, F) = %v, want 9", got)
	}
	if got := DeltaValue(5*physic.Kelvin, Celsius); math.Abs(got-5) > 0.001 {
		t.Errorf("DeltaValue(5K, C) = %v, want 5", got)
	}
}

func TestFormat(t *testing.T) {
	boiling := physic.ZeroCelsius + 100*physic.Celsius
	if got := Format(boiling, Fahrenheit); got != "212.0°F" {
		t.Errorf("Format F = %q", got)
	}
	if got := Format(boiling, Celsius); got != "100.0°C" {
		t.Errorf("Format C = %q", got)
	}
}
