package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
)

// Fake is an in-memory Store for tests. Error fields, when set, are
// returned by the matching call so failure paths can be exercised.
type Fake struct {
	mu       sync.Mutex
	profiles []profile.Vehicle
	sessions []session.Record
	nextID   int64

	ProfilesError error
	SaveError     error
	LoadError     error
	DeleteError   error

	Closed bool
}

var _ Store = (*Fake)(nil)

// NewFake creates a Fake seeded with the default profile.
func NewFake() *Fake {
	f := &Fake{nextID: 1}
	def := profile.Default()
	def.ID = f.nextID
	f.nextID++
	f.profiles = []profile.Vehicle{def}
	return f
}

func (f *Fake) Profiles(ctx context.Context) ([]profile.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProfilesError != nil {
		return nil, f.ProfilesError
	}
	out := make([]profile.Vehicle, len(f.profiles))
	copy(out, f.profiles)
	return out, nil
}

func (f *Fake) AddProfile(ctx context.Context, v profile.Vehicle) (int64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ProfilesError != nil {
		return 0, f.ProfilesError
	}
	v.ID = f.nextID
	f.nextID++
	f.profiles = append(f.profiles, v)
	return v.ID, nil
}

func (f *Fake) SaveSession(ctx context.Context, rec session.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveError != nil {
		return "", f.SaveError
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	for i := range f.sessions {
		if f.sessions[i].ID == rec.ID {
			f.sessions[i] = rec
			return rec.ID, nil
		}
	}
	f.sessions = append(f.sessions, rec)
	return rec.ID, nil
}

func (f *Fake) Sessions(ctx context.Context, limit int) ([]SessionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadError != nil {
		return nil, f.LoadError
	}
	var out []SessionInfo
	// Newest first, matching the database ordering.
	for i := len(f.sessions) - 1; i >= 0; i-- {
		rec := f.sessions[i]
		out = append(out, SessionInfo{
			ID:          rec.ID,
			VehicleName: rec.Vehicle.Name,
			StartedAt:   rec.StartedAt,
			CompletedAt: rec.CompletedAt,
			Cells:       rec.Matrix.SetCount(),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *Fake) Session(ctx context.Context, id string) (session.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadError != nil {
		return session.Record{}, f.LoadError
	}
	for _, rec := range f.sessions {
		if rec.ID == id {
			return rec, nil
		}
	}
	return session.Record{}, ErrNotFound
}

func (f *Fake) LastSession(ctx context.Context) (session.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadError != nil {
		return session.Record{}, f.LoadError
	}
	if len(f.sessions) == 0 {
		return session.Record{}, ErrNotFound
	}
	return f.sessions[len(f.sessions)-1], nil
}

func (f *Fake) DeleteSessions(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteError != nil {
		return f.DeleteError
	}
	f.sessions = nil
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// SessionCount reports how many sessions are held, for test assertions.
func (f *Fake) SessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
