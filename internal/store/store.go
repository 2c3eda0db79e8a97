// Package store persists vehicle profiles and finished measurement
// sessions. The device writes sessions as they complete and reads them
// back for on-screen review and the web report.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// SessionInfo is one row in the saved-session list.
type SessionInfo struct {
	ID          string
	VehicleName string
	StartedAt   time.Time
	CompletedAt time.Time
	// Cells is the number of accepted readings in the session.
	Cells int
}

// Store is the persistence boundary. Implementations must be safe for use
// from the device loop and the web server at the same time.
type Store interface {
	// Profiles returns every vehicle profile, seeded default included.
	Profiles(ctx context.Context) ([]profile.Vehicle, error)
	// AddProfile validates and inserts a profile, returning its row id.
	AddProfile(ctx context.Context, v profile.Vehicle) (int64, error)

	// SaveSession writes a completed session and its readings. An empty
	// record ID is assigned; saving an existing ID replaces the session.
	SaveSession(ctx context.Context, rec session.Record) (string, error)
	// Sessions lists saved sessions newest first. limit <= 0 means all.
	Sessions(ctx context.Context, limit int) ([]SessionInfo, error)
	// Session loads one session by ID.
	Session(ctx context.Context, id string) (session.Record, error)
	// LastSession loads the most recently completed session.
	LastSession(ctx context.Context) (session.Record, error)
	// DeleteSessions removes every saved session and its readings.
	DeleteSessions(ctx context.Context) error

	Close() error
}
