package buttons

import (
	"errors"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
)

// FakeReader is a test double that returns scripted button levels.
type FakeReader struct {
	// Samples contains scripted levels to return. Each call to Read()
	// consumes the next sample; once exhausted the last one repeats, so a
	// script can end with "everything released" and idle forever.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single cluster reading (already in logical form,
// true = pressed).
type Sample struct {
	Select bool
	Next   bool
	Prev   bool
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (input.Levels, error) {
	if f.ReadError != nil {
		return input.Levels{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return input.Levels{}, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	var levels input.Levels
	levels[input.Select] = s.Select
	levels[input.Next] = s.Next
	levels[input.Prev] = s.Prev
	return levels, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the reader to the first sample.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}
