package sensor

import (
	"errors"

	"periph.io/x/conn/v3/physic"
)

// FakeSource is a test double that returns scripted probe readings.
type FakeSource struct {
	// Samples are consumed one per call; once exhausted the last sample
	// repeats forever, so a script can settle on a final value.
	Samples []FakeSample

	// index tracks current position in Samples
	index int

	// Halted tracks if Halt was called
	Halted bool
}

// FakeSample is one scripted probe result.
type FakeSample struct {
	Temp physic.Temperature
	Err  error
}

// NewFakeSource creates a FakeSource with the given samples.
func NewFakeSource(samples []FakeSample) *FakeSource {
	return &FakeSource{Samples: samples}
}

// Constant returns a fake that always reads t.
func Constant(t physic.Temperature) *FakeSource {
	return NewFakeSource([]FakeSample{{Temp: t}})
}

// Temperature returns the next scripted sample.
func (f *FakeSource) Temperature() (physic.Temperature, error) {
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Temp, s.Err
}

// Halt marks the source as halted.
func (f *FakeSource) Halt() error {
	f.Halted = true
	return nil
}

// Reset rewinds the source to the first sample.
func (f *FakeSource) Reset() {
	f.index = 0
	f.Halted = false
}
