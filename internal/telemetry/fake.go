package telemetry

import (
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Readings contains all reading events that were published.
	Readings []ReadingEvent

	// ReadingPayloads contains the JSON payloads for readings.
	ReadingPayloads [][]byte

	// Sessions contains all session records that were published.
	Sessions []session.Record

	// SessionPayloads contains the JSON payloads for sessions.
	SessionPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, is returned by every publish call.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishReading records the reading event.
func (f *FakePublisher) PublishReading(ev ReadingEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Readings = append(f.Readings, ev)

	payload, err := FormatReading(ev)
	if err != nil {
		return err
	}
	f.ReadingPayloads = append(f.ReadingPayloads, payload)
	return nil
}

// PublishSession records the session.
func (f *FakePublisher) PublishSession(rec session.Record, unit units.Unit) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Sessions = append(f.Sessions, rec)

	payload, err := FormatSession(rec, unit)
	if err != nil {
		return err
	}
	f.SessionPayloads = append(f.SessionPayloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(ev SystemEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.SystemEvents = append(f.SystemEvents, ev)

	payload, err := FormatSystem(ev)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Readings = nil
	f.ReadingPayloads = nil
	f.Sessions = nil
	f.SessionPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.PublishError = nil
	f.Closed = false
	f.Connected = false
}
