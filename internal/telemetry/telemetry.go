// Package telemetry publishes pyrometer events over MQTT with abstraction
// for testing. Readings stream as they are accepted; completed sessions and
// lifecycle events get delivery guarantees.
package telemetry

import (
	"encoding/json"
	"math"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// TopicReadings carries accepted cell readings.
const TopicReadings = "yamura/pyrometer/readings"

// TopicSessions carries completed session grids.
const TopicSessions = "yamura/pyrometer/sessions"

// TopicSystem carries system lifecycle events.
const TopicSystem = "yamura/pyrometer/system"

// Publisher publishes pyrometer events to the broker.
type Publisher interface {
	// PublishReading sends one accepted cell reading.
	// Returns error if publishing fails (should not crash the process).
	PublishReading(ev ReadingEvent) error

	// PublishSession sends a completed session grid.
	PublishSession(rec session.Record, unit units.Unit) error

	// PublishSystem sends a system lifecycle event.
	PublishSystem(ev SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ReadingEvent is one accepted cell reading ready to publish.
type ReadingEvent struct {
	Timestamp time.Time
	Vehicle   string
	Tire      string
	Position  string
	Temp      physic.Temperature
	Unit      units.Unit
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystem returns it directly
	Retained   bool   // Whether the broker should retain the message
}

// ReadingPayload is the wire structure on TopicReadings.
type ReadingPayload struct {
	Reading ReadingInner `json:"reading"`
}

// ReadingInner carries the reading details. Tire and Position are empty for
// instant-mode spot readings taken outside a session.
type ReadingInner struct {
	Timestamp string  `json:"timestamp"`
	Vehicle   string  `json:"vehicle"`
	Tire      string  `json:"tire,omitempty"`
	Position  string  `json:"position,omitempty"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// FormatReading creates the JSON payload for a reading event.
func FormatReading(ev ReadingEvent) ([]byte, error) {
	payload := ReadingPayload{
		Reading: ReadingInner{
			Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
			Vehicle:   ev.Vehicle,
			Tire:      ev.Tire,
			Position:  ev.Position,
			Value:     round1(units.Value(ev.Temp, ev.Unit)),
			Unit:      string(ev.Unit),
		},
	}
	return json.Marshal(payload)
}

// SessionPayload is the wire structure on TopicSessions.
type SessionPayload struct {
	Session SessionInner `json:"session"`
}

// SessionInner carries the completed grid.
type SessionInner struct {
	ID          string        `json:"id"`
	Vehicle     string        `json:"vehicle"`
	StartedAt   string        `json:"started_at"`
	CompletedAt string        `json:"completed_at"`
	Unit        string        `json:"unit"`
	Tires       []SessionTire `json:"tires"`
}

// SessionTire is one tire's readings in display order.
type SessionTire struct {
	Tire     string           `json:"tire"`
	Readings []SessionReading `json:"readings"`
}

// SessionReading is one cell. Value is null when the cell was never filled.
type SessionReading struct {
	Position string   `json:"position"`
	Value    *float64 `json:"value"`
}

// FormatSession creates the JSON payload for a completed session.
func FormatSession(rec session.Record, unit units.Unit) ([]byte, error) {
	inner := SessionInner{
		ID:          rec.ID,
		Vehicle:     rec.Vehicle.Name,
		StartedAt:   rec.StartedAt.UTC().Format(time.RFC3339),
		CompletedAt: rec.CompletedAt.UTC().Format(time.RFC3339),
		Unit:        string(unit),
	}
	for t := 0; t < rec.Matrix.Tires(); t++ {
		tire := SessionTire{Tire: rec.Vehicle.TireLabel(t)}
		for p := 0; p < rec.Matrix.Positions(); p++ {
			r := SessionReading{Position: rec.Vehicle.PositionLabel(p)}
			if cell := rec.Matrix.At(t, p); cell.Set() {
				v := round1(units.Value(cell.Temp, unit))
				r.Value = &v
			}
			tire.Readings = append(tire.Readings, r)
		}
		inner.Tires = append(inner.Tires, tire)
	}
	return json.Marshal(SessionPayload{Session: inner})
}

// SystemPayload is the wire structure on TopicSystem.
type SystemPayload struct {
	System SystemInner `json:"system"`
}

// SystemInner carries the system event details.
type SystemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystem creates the JSON payload for a system event.
// If ev.RawPayload is set, it is returned directly (used for status snapshots).
func FormatSystem(ev SystemEvent) ([]byte, error) {
	if ev.RawPayload != nil {
		return ev.RawPayload, nil
	}
	payload := SystemPayload{
		System: SystemInner{
			Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
			Event:     ev.Event,
			Reason:    ev.Reason,
		},
	}
	return json.Marshal(payload)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
