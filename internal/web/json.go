package web

import (
	"encoding/json"
	"math"
	"time"

	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/report"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/store"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// SessionsJSON is the JSON representation of the saved-session list.
type SessionsJSON struct {
	Sessions []SessionInfoJSON `json:"sessions"`
}

// SessionInfoJSON is one row in the session list.
type SessionInfoJSON struct {
	ID          string `json:"id"`
	Vehicle     string `json:"vehicle"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	Cells       int    `json:"cells"`
}

func formatSessionsJSON(infos []store.SessionInfo) []byte {
	out := SessionsJSON{Sessions: make([]SessionInfoJSON, 0, len(infos))}
	for _, info := range infos {
		out.Sessions = append(out.Sessions, SessionInfoJSON{
			ID:          info.ID,
			Vehicle:     info.VehicleName,
			StartedAt:   info.StartedAt.UTC().Format(time.RFC3339),
			CompletedAt: info.CompletedAt.UTC().Format(time.RFC3339),
			Cells:       info.Cells,
		})
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return data
}

// SessionJSON is the JSON representation of one saved session.
type SessionJSON struct {
	Session SessionDetailJSON `json:"session"`
}

// SessionDetailJSON carries the grid and per-tire statistics.
type SessionDetailJSON struct {
	ID          string         `json:"id"`
	Vehicle     string         `json:"vehicle"`
	StartedAt   string         `json:"started_at"`
	CompletedAt string         `json:"completed_at"`
	Unit        string         `json:"unit"`
	Tires       []TireJSON     `json:"tires"`
	Stats       []TireStatJSON `json:"stats"`
}

// TireJSON is one tire's cells in probe order.
type TireJSON struct {
	Tire     string     `json:"tire"`
	Readings []CellJSON `json:"readings"`
}

// CellJSON is one grid cell. Value and At are null/absent when unset.
type CellJSON struct {
	Position string   `json:"position"`
	Value    *float64 `json:"value"`
	At       string   `json:"at,omitempty"`
}

// TireStatJSON is the per-tire summary.
type TireStatJSON struct {
	Tire   string  `json:"tire"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Spread float64 `json:"spread"`
	StdDev float64 `json:"stdev"`
	Hot    bool    `json:"hot"`
}

func formatSessionJSON(rec session.Record, unit units.Unit) []byte {
	detail := SessionDetailJSON{
		ID:          rec.ID,
		Vehicle:     rec.Vehicle.Name,
		StartedAt:   rec.StartedAt.UTC().Format(time.RFC3339),
		CompletedAt: rec.CompletedAt.UTC().Format(time.RFC3339),
		Unit:        string(unit),
	}

	for t := 0; t < rec.Matrix.Tires(); t++ {
		tire := TireJSON{Tire: rec.Vehicle.TireLabel(t)}
		for p := 0; p < rec.Matrix.Positions(); p++ {
			cj := CellJSON{Position: rec.Vehicle.PositionLabel(p)}
			if cell := rec.Matrix.At(t, p); cell.Set() {
				v := round1(units.Value(cell.Temp, unit))
				cj.Value = &v
				cj.At = cell.At.UTC().Format(time.RFC3339)
			}
			tire.Readings = append(tire.Readings, cj)
		}
		detail.Tires = append(detail.Tires, tire)
	}

	for _, ts := range report.Summarize(rec, unit).Tires {
		detail.Stats = append(detail.Stats, TireStatJSON{
			Tire:   ts.Label,
			Count:  ts.Count,
			Mean:   round1(ts.Mean),
			Min:    round1(ts.Min),
			Max:    round1(ts.Max),
			Spread: round1(ts.Spread),
			StdDev: round1(ts.StdDev),
			Hot:    ts.Hot,
		})
	}

	data, _ := json.MarshalIndent(SessionJSON{Session: detail}, "", "  ")
	return data
}

// ProfilesJSON is the JSON representation of the profile list.
type ProfilesJSON struct {
	Profiles []profileJSON `json:"profiles"`
}

// profileJSON is the wire form of a vehicle profile. Warning ceilings ride
// as Celsius regardless of the display unit so the API is stable.
type profileJSON struct {
	ID             int64     `json:"id,omitempty"`
	Name           string    `json:"name"`
	TireCount      int       `json:"tire_count"`
	PositionCount  int       `json:"position_count"`
	TireLabels     []string  `json:"tire_labels"`
	PositionLabels []string  `json:"position_labels"`
	MaxTempsC      []float64 `json:"max_temps_c,omitempty"`
}

func (pj profileJSON) toVehicle() profile.Vehicle {
	v := profile.Vehicle{
		Name:           pj.Name,
		TireCount:      pj.TireCount,
		PositionCount:  pj.PositionCount,
		TireLabels:     pj.TireLabels,
		PositionLabels: pj.PositionLabels,
	}
	for _, c := range pj.MaxTempsC {
		if c == 0 {
			v.MaxTemps = append(v.MaxTemps, 0)
			continue
		}
		v.MaxTemps = append(v.MaxTemps, units.Absolute(c, units.Celsius))
	}
	return v
}

func formatProfilesJSON(profiles []profile.Vehicle) []byte {
	out := ProfilesJSON{Profiles: make([]profileJSON, 0, len(profiles))}
	for _, v := range profiles {
		pj := profileJSON{
			ID:             v.ID,
			Name:           v.Name,
			TireCount:      v.TireCount,
			PositionCount:  v.PositionCount,
			TireLabels:     v.TireLabels,
			PositionLabels: v.PositionLabels,
		}
		for _, m := range v.MaxTemps {
			if m == 0 {
				pj.MaxTempsC = append(pj.MaxTempsC, 0)
				continue
			}
			pj.MaxTempsC = append(pj.MaxTempsC, round1(units.Value(m, units.Celsius)))
		}
		out.Profiles = append(out.Profiles, pj)
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return data
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
