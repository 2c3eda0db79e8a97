// Package status provides a thread-safe status tracker for the pyrometer
// daemon. It is read by the HTTP handlers and the websocket pusher.
package status

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing the telemetry package from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	DebounceMs int64
	Broker     string
	HTTPPort   string
	Sensor     string
	Database   string
}

// Progress describes where the operator is in the measurement flow.
type Progress struct {
	// Mode is the device UI mode, e.g. "MENU", "MEASURE", "INSTANT".
	Mode    string
	Vehicle string
	// State is the traversal state; empty when no session is running.
	State      session.State
	Tire       int
	Position   int
	CellsSet   int
	CellsTotal int
}

// Snapshot is a point-in-time view of daemon state. It is a value type,
// safe to use after the lock is released.
type Snapshot struct {
	Progress
	LastReading   physic.Temperature
	LastReadingAt time.Time
	Unit          units.Unit
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time, unit, and config.
func NewTracker(startTime time.Time, unit units.Unit, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Unit:      unit,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the measurement progress. Called from the device loop on
// every tick.
func (t *Tracker) Update(p Progress) {
	t.mu.Lock()
	t.snap.Progress = p
	t.mu.Unlock()
}

// SetReading records the latest probe value.
func (t *Tracker) SetReading(temp physic.Temperature, at time.Time) {
	t.mu.Lock()
	t.snap.LastReading = temp
	t.snap.LastReadingAt = at
	t.mu.Unlock()
}

// SetUnit records the display unit after a settings change.
func (t *Tracker) SetUnit(unit units.Unit) {
	t.mu.Lock()
	t.snap.Unit = unit
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
