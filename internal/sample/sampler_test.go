package sample

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"
)

var sampleBase = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func celsius(v float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(v*float64(physic.Celsius))
}

// halfKelvin is a typical probe tolerance, roughly one Fahrenheit degree.
const halfKelvin = 500 * physic.MilliKelvin

func TestSamplerStabilizesOnConstantStream(t *testing.T) {
	s := New(8, halfKelvin)

	v := celsius(90)
	for i := 0; i < 7; i++ {
		res := s.Offer(v, sampleBase.Add(time.Duration(i)*5*time.Millisecond))
		if res.Stable {
			t.Fatalf("stable after %d samples, want pending until 8", i+1)
		}
	}

	at := sampleBase.Add(35 * time.Millisecond)
	res := s.Offer(v, at)
	if !res.Stable {
		t.Fatal("not stable after 8 identical samples")
	}
	if res.Value != v {
		t.Errorf("value = %v, want %v", res.Value, v)
	}
	if !res.At.Equal(at) {
		t.Errorf("at = %v, want %v", res.At, at)
	}
}

func TestSamplerPendingWhileNoisy(t *testing.T) {
	s := New(8, halfKelvin)

	// Alternate 85C and 95C: spread is 10K, far past tolerance.
	for i := 0; i < 50; i++ {
		v := celsius(85)
		if i%2 == 1 {
			v = celsius(95)
		}
		if res := s.Offer(v, sampleBase); res.Stable {
			t.Fatalf("stable at sample %d with 10K spread", i+1)
		}
	}
	if s.Len() != 50 {
		t.Errorf("Len = %d, want 50", s.Len())
	}
}

func TestSamplerStabilizesOnceTailAgrees(t *testing.T) {
	s := New(8, halfKelvin)

	// A probe being pushed into the tread: wild, then settling.
	ramp := []float64{30, 45, 60, 72, 80, 85, 88, 89.5, 89.9}
	for _, v := range ramp {
		if res := s.Offer(celsius(v), sampleBase); res.Stable {
			t.Fatalf("stable during ramp at %.1fC", v)
		}
	}

	// Seven more near 90C join the two tail ramp values within tolerance.
	settled := []float64{90, 90.1, 89.8, 90, 90.2, 89.9, 90}
	var res Result
	for _, v := range settled {
		res = s.Offer(celsius(v), sampleBase)
	}
	if !res.Stable {
		t.Fatal("not stable after the tail settled")
	}

	// Mean of the last 8: 89.9 and the seven settled values.
	want := celsius(90.0)
	diff := res.Value - want
	if diff < 0 {
		diff = -diff
	}
	if diff > 100*physic.MilliKelvin {
		t.Errorf("value = %v, want within 0.1K of %v", res.Value, want)
	}
}

func TestSamplerSpreadEqualToToleranceIsStable(t *testing.T) {
	s := New(2, halfKelvin)

	s.Offer(celsius(90), sampleBase)
	res := s.Offer(celsius(90)+halfKelvin, sampleBase)
	if !res.Stable {
		t.Error("spread exactly at tolerance should stabilize")
	}

	s.Reset()
	s.Offer(celsius(90), sampleBase)
	res = s.Offer(celsius(90)+halfKelvin+physic.NanoKelvin, sampleBase)
	if res.Stable {
		t.Error("spread past tolerance should stay pending")
	}
}

func TestSamplerNeverStableBelowMinSamples(t *testing.T) {
	s := New(8, halfKelvin)
	// Identical samples still should not stabilize early.
	for i := 0; i < 7; i++ {
		if res := s.Offer(celsius(88), sampleBase); res.Stable {
			t.Fatalf("stable at sample %d, want 8 minimum", i+1)
		}
	}
}

func TestSamplerResetDiscardsWindow(t *testing.T) {
	s := New(8, halfKelvin)

	for i := 0; i < 8; i++ {
		s.Offer(celsius(90), sampleBase)
	}
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len = %d after Reset, want 0", s.Len())
	}

	// The next cell needs a full fresh window; old samples must not count.
	for i := 0; i < 7; i++ {
		if res := s.Offer(celsius(90), sampleBase); res.Stable {
			t.Fatalf("stable at sample %d after Reset", i+1)
		}
	}
	if res := s.Offer(celsius(90), sampleBase); !res.Stable {
		t.Error("not stable after 8 fresh samples")
	}
}

func TestSamplerWindowWraps(t *testing.T) {
	s := New(8, halfKelvin)

	// Fill past capacity with noise, then settle.
	for i := 0; i < WindowCap+20; i++ {
		v := celsius(50)
		if i%2 == 1 {
			v = celsius(70)
		}
		s.Offer(v, sampleBase)
	}
	if s.Len() != WindowCap {
		t.Fatalf("Len = %d, want capped at %d", s.Len(), WindowCap)
	}

	var res Result
	for i := 0; i < 8; i++ {
		res = s.Offer(celsius(91), sampleBase)
	}
	if !res.Stable {
		t.Fatal("not stable after 8 agreeing samples post-wrap")
	}
	if res.Value != celsius(91) {
		t.Errorf("value = %v, want %v", res.Value, celsius(91))
	}
}

func TestNewClampsMinSamples(t *testing.T) {
	if s := New(0, halfKelvin); s.MinSamples() != 1 {
		t.Errorf("MinSamples = %d, want 1", s.MinSamples())
	}
	if s := New(WindowCap+5, halfKelvin); s.MinSamples() != WindowCap {
		t.Errorf("MinSamples = %d, want %d", s.MinSamples(), WindowCap)
	}
}
