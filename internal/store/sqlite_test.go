package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pyrometer.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func degC(v float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(v*float64(physic.Celsius))
}

// testRecord builds a completed 2x2 kart session with all four cells set.
func testRecord(id string, completedAt time.Time) session.Record {
	v := profile.Vehicle{
		Name:           "Test Kart",
		TireCount:      2,
		PositionCount:  2,
		TireLabels:     []string{"L", "R"},
		PositionLabels: []string{"O", "I"},
		MaxTemps:       []physic.Temperature{degC(90), degC(90)},
	}
	m := session.NewMatrix(2, 2)
	at := completedAt.Add(-time.Minute)
	m.Set(0, 0, degC(61.5), at)
	m.Set(0, 1, degC(58.25), at.Add(10*time.Second))
	m.Set(1, 0, degC(63), at.Add(20*time.Second))
	m.Set(1, 1, degC(60), at.Add(30*time.Second))
	return session.Record{
		ID:          id,
		Vehicle:     v,
		StartedAt:   completedAt.Add(-2 * time.Minute),
		CompletedAt: completedAt,
		Matrix:      m,
	}
}

func TestOpenSeedsDefaultProfile(t *testing.T) {
	s := openTestStore(t)

	profiles, err := s.Profiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	def := profiles[0]
	assert.Equal(t, "Test Car", def.Name)
	assert.Equal(t, 4, def.TireCount)
	assert.Equal(t, []string{"LF", "RF", "LR", "RR"}, def.TireLabels)
	assert.NoError(t, def.Validate())
	assert.NotZero(t, def.ID)
}

func TestAddProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	kart := profile.Vehicle{
		Name:           "Club Kart",
		TireCount:      4,
		PositionCount:  2,
		TireLabels:     []string{"LF", "RF", "LR", "RR"},
		PositionLabels: []string{"O", "I"},
		MaxTemps:       []physic.Temperature{degC(85), degC(85), degC(80), degC(80)},
	}
	id, err := s.AddProfile(ctx, kart)
	require.NoError(t, err)
	require.NotZero(t, id)

	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	got := profiles[1]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, kart.Name, got.Name)
	assert.Equal(t, kart.PositionCount, got.PositionCount)
	assert.Equal(t, kart.PositionLabels, got.PositionLabels)
	assert.Equal(t, kart.MaxTemps, got.MaxTemps)
}

func TestAddProfileRejectsInvalid(t *testing.T) {
	s := openTestStore(t)

	_, err := s.AddProfile(context.Background(), profile.Vehicle{
		Name:      "Truck",
		TireCount: 18,
	})
	require.Error(t, err)

	profiles, err := s.Profiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, 1, "invalid profile must not be stored")
}

func TestSaveSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	completed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord("", completed)

	id, err := s.SaveSession(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id, "empty record ID must be assigned")

	got, err := s.Session(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.Vehicle.Name, got.Vehicle.Name)
	assert.Equal(t, rec.Vehicle.TireLabels, got.Vehicle.TireLabels)
	assert.Equal(t, rec.Vehicle.MaxTemps, got.Vehicle.MaxTemps)
	assert.True(t, got.StartedAt.Equal(rec.StartedAt), "started %v != %v", got.StartedAt, rec.StartedAt)
	assert.True(t, got.CompletedAt.Equal(rec.CompletedAt), "completed %v != %v", got.CompletedAt, rec.CompletedAt)

	require.Equal(t, 2, got.Matrix.Tires())
	require.Equal(t, 2, got.Matrix.Positions())
	for tire := 0; tire < 2; tire++ {
		for pos := 0; pos < 2; pos++ {
			want := rec.Matrix.At(tire, pos)
			cell := got.Matrix.At(tire, pos)
			assert.Equal(t, want.Temp, cell.Temp, "cell (%d,%d)", tire, pos)
			assert.True(t, cell.At.Equal(want.At), "cell (%d,%d) at %v != %v", tire, pos, cell.At, want.At)
		}
	}
}

func TestSaveSessionKeepsUnsetCells(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	completed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord("partial", completed)
	rec.Matrix.Clear(1, 1)

	id, err := s.SaveSession(ctx, rec)
	require.NoError(t, err)

	got, err := s.Session(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Matrix.At(0, 0).Set())
	assert.False(t, got.Matrix.At(1, 1).Set(), "cleared cell came back set")
	assert.Equal(t, 3, got.Matrix.SetCount())
}

func TestSaveSessionReplacesExistingID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	completed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	first := testRecord("repeat", completed)
	_, err := s.SaveSession(ctx, first)
	require.NoError(t, err)

	second := testRecord("repeat", completed.Add(time.Hour))
	second.Matrix.Clear(0, 1)
	_, err = s.SaveSession(ctx, second)
	require.NoError(t, err)

	infos, err := s.Sessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, infos, 1, "replacing must not add a row")
	assert.Equal(t, 3, infos[0].Cells, "old readings must be replaced")
	assert.True(t, infos[0].CompletedAt.Equal(completed.Add(time.Hour)))
}

func TestSessionsOrderAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		_, err := s.SaveSession(ctx, testRecord(id, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	infos, err := s.Sessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "newest", infos[0].ID)
	assert.Equal(t, "oldest", infos[2].ID)
	assert.Equal(t, 4, infos[0].Cells)

	limited, err := s.Sessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "newest", limited[0].ID)
	assert.Equal(t, "middle", limited[1].ID)
}

func TestLastSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.LastSession(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err = s.SaveSession(ctx, testRecord("early", base))
	require.NoError(t, err)
	_, err = s.SaveSession(ctx, testRecord("late", base.Add(time.Hour)))
	require.NoError(t, err)

	rec, err := s.LastSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", rec.ID)
}

func TestSessionNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Session(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	completed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	id, err := s.SaveSession(ctx, testRecord("", completed))
	require.NoError(t, err)

	require.NoError(t, s.DeleteSessions(ctx))

	infos, err := s.Sessions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, infos)

	_, err = s.Session(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	// Profiles survive a session wipe.
	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, profiles)
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyrometer.db")

	s1, err := Open(path)
	require.NoError(t, err)
	completed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	id, err := s1.SaveSession(context.Background(), testRecord("", completed))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening must keep data and not reseed a second default profile.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	profiles, err := s2.Profiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, 1)

	rec, err := s2.Session(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Matrix.SetCount())
}
