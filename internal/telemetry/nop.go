package telemetry

import (
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// NopPublisher discards everything. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishReading(ReadingEvent) error               { return nil }
func (NopPublisher) PublishSession(session.Record, units.Unit) error { return nil }
func (NopPublisher) PublishSystem(SystemEvent) error                 { return nil }
func (NopPublisher) Close() error                                    { return nil }
func (NopPublisher) IsConnected() bool                               { return false }
