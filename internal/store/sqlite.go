package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
)

// timeFormat is the SQLite TIMESTAMP layout. Stored times are UTC, so
// lexicographic order on the column matches chronological order.
const timeFormat = "2006-01-02 15:04:05"

// SQLite is the Store backed by a single database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serializes writers; WAL keeps readers off their back.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite wraps an already-open database. The caller owns the schema and
// the connection settings; Open is the normal entry point.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			tire_count INTEGER NOT NULL,
			position_count INTEGER NOT NULL,
			tire_labels TEXT NOT NULL,
			position_labels TEXT NOT NULL,
			max_temps_nk TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			vehicle_name TEXT NOT NULL,
			tire_count INTEGER NOT NULL,
			position_count INTEGER NOT NULL,
			tire_labels TEXT NOT NULL,
			position_labels TEXT NOT NULL,
			max_temps_nk TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS readings (
			session_id TEXT NOT NULL,
			tire INTEGER NOT NULL,
			position INTEGER NOT NULL,
			temp_nk INTEGER NOT NULL,
			measured_at TEXT NOT NULL,
			PRIMARY KEY (session_id, tire, position),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return s.seedDefaultProfile()
}

// seedDefaultProfile inserts the built-in profile into an empty table so the
// device always has something to measure with.
func (s *SQLite) seedDefaultProfile() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := s.AddProfile(context.Background(), profile.Default())
	return err
}

// Profiles returns every vehicle profile, seeded default included.
func (s *SQLite) Profiles(ctx context.Context) ([]profile.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, tire_count, position_count, tire_labels, position_labels, max_temps_nk
		FROM profiles ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []profile.Vehicle
	for rows.Next() {
		var (
			v                      profile.Vehicle
			tires, positions, maxs string
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.TireCount, &v.PositionCount, &tires, &positions, &maxs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tires), &v.TireLabels); err != nil {
			return nil, fmt.Errorf("profile %q tire labels: %w", v.Name, err)
		}
		if err := json.Unmarshal([]byte(positions), &v.PositionLabels); err != nil {
			return nil, fmt.Errorf("profile %q position labels: %w", v.Name, err)
		}
		if err := json.Unmarshal([]byte(maxs), &v.MaxTemps); err != nil {
			return nil, fmt.Errorf("profile %q max temps: %w", v.Name, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AddProfile validates and inserts a profile, returning its row id.
func (s *SQLite) AddProfile(ctx context.Context, v profile.Vehicle) (int64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	tires, positions, maxs, err := marshalProfileLists(v)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (name, tire_count, position_count, tire_labels, position_labels, max_temps_nk)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.Name, v.TireCount, v.PositionCount, tires, positions, maxs)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveSession writes a completed session and its readings in one
// transaction. An empty record ID is assigned; an existing ID is replaced.
func (s *SQLite) SaveSession(ctx context.Context, rec session.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	tires, positions, maxs, err := marshalProfileLists(rec.Vehicle)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions
			(id, vehicle_name, tire_count, position_count, tire_labels, position_labels, max_temps_nk, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Vehicle.Name,
		rec.Matrix.Tires(),
		rec.Matrix.Positions(),
		tires,
		positions,
		maxs,
		rec.StartedAt.UTC().Format(timeFormat),
		rec.CompletedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return "", err
	}
	// INSERT OR REPLACE does not cascade; clear readings explicitly.
	if _, err := tx.ExecContext(ctx, `DELETE FROM readings WHERE session_id = ?`, rec.ID); err != nil {
		return "", err
	}

	for t := 0; t < rec.Matrix.Tires(); t++ {
		for p := 0; p < rec.Matrix.Positions(); p++ {
			cell := rec.Matrix.At(t, p)
			if !cell.Set() {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO readings (session_id, tire, position, temp_nk, measured_at)
				VALUES (?, ?, ?, ?, ?)
			`, rec.ID, t, p, int64(cell.Temp), cell.At.UTC().Format(timeFormat))
			if err != nil {
				return "", err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Sessions lists saved sessions newest first. limit <= 0 means all.
func (s *SQLite) Sessions(ctx context.Context, limit int) ([]SessionInfo, error) {
	q := `
		SELECT s.id, s.vehicle_name, s.started_at, s.completed_at, COUNT(r.session_id)
		FROM sessions s
		LEFT JOIN readings r ON r.session_id = s.id
		GROUP BY s.id
		ORDER BY s.completed_at DESC, s.id
	`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			info               SessionInfo
			started, completed string
		)
		if err := rows.Scan(&info.ID, &info.VehicleName, &started, &completed, &info.Cells); err != nil {
			return nil, err
		}
		if info.StartedAt, err = time.Parse(timeFormat, started); err != nil {
			return nil, fmt.Errorf("session %s started_at: %w", info.ID, err)
		}
		if info.CompletedAt, err = time.Parse(timeFormat, completed); err != nil {
			return nil, fmt.Errorf("session %s completed_at: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Session loads one session by ID, ErrNotFound when absent.
func (s *SQLite) Session(ctx context.Context, id string) (session.Record, error) {
	var (
		rec                    session.Record
		tireCount, posCount    int
		tires, positions, maxs string
		started, completed     string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, vehicle_name, tire_count, position_count, tire_labels, position_labels, max_temps_nk, started_at, completed_at
		FROM sessions WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Vehicle.Name, &tireCount, &posCount, &tires, &positions, &maxs, &started, &completed)
	if err == sql.ErrNoRows {
		return session.Record{}, ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}

	rec.Vehicle.TireCount = tireCount
	rec.Vehicle.PositionCount = posCount
	if err := json.Unmarshal([]byte(tires), &rec.Vehicle.TireLabels); err != nil {
		return session.Record{}, fmt.Errorf("session %s tire labels: %w", id, err)
	}
	if err := json.Unmarshal([]byte(positions), &rec.Vehicle.PositionLabels); err != nil {
		return session.Record{}, fmt.Errorf("session %s position labels: %w", id, err)
	}
	if err := json.Unmarshal([]byte(maxs), &rec.Vehicle.MaxTemps); err != nil {
		return session.Record{}, fmt.Errorf("session %s max temps: %w", id, err)
	}
	if rec.StartedAt, err = time.Parse(timeFormat, started); err != nil {
		return session.Record{}, fmt.Errorf("session %s started_at: %w", id, err)
	}
	if rec.CompletedAt, err = time.Parse(timeFormat, completed); err != nil {
		return session.Record{}, fmt.Errorf("session %s completed_at: %w", id, err)
	}

	rec.Matrix = session.NewMatrix(tireCount, posCount)
	rows, err := s.db.QueryContext(ctx, `
		SELECT tire, position, temp_nk, measured_at FROM readings WHERE session_id = ?
	`, id)
	if err != nil {
		return session.Record{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tire, position int
			nk             int64
			measured       string
		)
		if err := rows.Scan(&tire, &position, &nk, &measured); err != nil {
			return session.Record{}, err
		}
		at, err := time.Parse(timeFormat, measured)
		if err != nil {
			return session.Record{}, fmt.Errorf("session %s reading (%d,%d): %w", id, tire, position, err)
		}
		rec.Matrix.Set(tire, position, physic.Temperature(nk), at)
	}
	return rec, rows.Err()
}

// LastSession loads the most recently completed session.
func (s *SQLite) LastSession(ctx context.Context) (session.Record, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM sessions ORDER BY completed_at DESC, id LIMIT 1
	`).Scan(&id)
	if err == sql.ErrNoRows {
		return session.Record{}, ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}
	return s.Session(ctx, id)
}

// DeleteSessions removes every saved session; readings cascade.
func (s *SQLite) DeleteSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func marshalProfileLists(v profile.Vehicle) (tires, positions, maxs string, err error) {
	tb, err := json.Marshal(v.TireLabels)
	if err != nil {
		return "", "", "", err
	}
	pb, err := json.Marshal(v.PositionLabels)
	if err != nil {
		return "", "", "", err
	}
	mb, err := json.Marshal(v.MaxTemps)
	if err != nil {
		return "", "", "", err
	}
	return string(tb), string(pb), string(mb), nil
}
