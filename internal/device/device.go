// Package device owns the cooperative tick loop. Each tick it reads the
// button cluster, debounces, polls the probe when the active mode needs it,
// dispatches to that mode, and keeps the display, status tracker, and
// telemetry in sync. Nothing in here is fatal: a dead display, a flaky
// probe, or a failed save all degrade and log rather than stopping the loop.
package device

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/buttons"
	"github.com/bbsmith24/yamura-pyrometer/internal/config"
	"github.com/bbsmith24/yamura-pyrometer/internal/display"
	"github.com/bbsmith24/yamura-pyrometer/internal/input"
	"github.com/bbsmith24/yamura-pyrometer/internal/logger"
	"github.com/bbsmith24/yamura-pyrometer/internal/menu"
	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/sensor"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/status"
	"github.com/bbsmith24/yamura-pyrometer/internal/store"
	"github.com/bbsmith24/yamura-pyrometer/internal/telemetry"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// Mode is the top-level UI surface, reported through the status tracker.
type Mode string

const (
	ModeMenu     Mode = "MENU"
	ModeVehicle  Mode = "VEHICLE_SELECT"
	ModeMeasure  Mode = "MEASURE"
	ModeInstant  Mode = "INSTANT"
	ModeReview   Mode = "REVIEW"
	ModeBrowser  Mode = "SESSIONS"
	ModeSettings Mode = "SETTINGS"
	ModeMessage  Mode = "MESSAGE"
)

const (
	// liveRefresh paces display redraws while a live value is on screen.
	// Event-driven frames draw immediately.
	liveRefresh = 250 * time.Millisecond

	// noticeFor is how long a transient grid notice stays up.
	noticeFor = 3 * time.Second

	// instantPublishEvery throttles instant-mode telemetry; the display
	// still refreshes at liveRefresh.
	instantPublishEvery = time.Second

	// browserLimit caps the stored-session menu.
	browserLimit = 20
)

// Deps are the collaborators the device drives. Tracker is required;
// ConnStatus may be nil when telemetry is disabled.
type Deps struct {
	Buttons    buttons.Reader
	Sensor     sensor.Source
	Display    display.Renderer
	Store      store.Store
	Publisher  telemetry.Publisher
	ConnStatus telemetry.ConnectionStatus
	Tracker    *status.Tracker
	Log        *logger.Logger
	// Vehicle is the active profile resolved at startup.
	Vehicle profile.Vehicle
}

// Device is the interaction state machine. Not safe for concurrent use;
// Tick is called from a single loop.
type Device struct {
	cfg *config.Settings
	d   Deps
	log *logger.Logger

	deb *input.Debouncer
	// swallow marks channels whose next Released follows a LongPress and
	// must not be delivered as a short press.
	swallow [input.NumButtons]bool

	mode Mode
	// menu, when non-nil, captures all input regardless of mode.
	menu     *menu.Session
	menuKind menuKind
	// mainIndex remembers the main-menu highlight across excursions.
	mainIndex int

	vehicle  profile.Vehicle
	profiles []profile.Vehicle
	// browserIDs maps browser menu codes back to session ids.
	browserIDs []string

	runner *session.Runner
	// pending holds a completed record whose save failed, for retry.
	pending *session.Record

	review     session.Record
	reviewBack func()

	message display.MessageFrame
	msgNext func()

	unit       units.Unit
	twelveHour bool
	// tolerance is the stabilization spread in display units.
	tolerance float64

	lastReading   physic.Temperature
	lastReadingAt time.Time
	notice        string
	noticeAt      time.Time

	lastRender         time.Time
	lastInstantPublish time.Time
	dirty              bool
}

// New wires a Device and lands it on the main menu.
func New(cfg *config.Settings, deps Deps) *Device {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	d := &Device{
		cfg:        cfg,
		d:          deps,
		log:        log,
		deb:        input.NewDebouncer(cfg.Debounce(), cfg.LongPress()),
		vehicle:    deps.Vehicle,
		unit:       cfg.Unit(),
		twelveHour: cfg.TwelveHour,
		tolerance:  cfg.Tolerance,
	}
	d.enterMainMenu()
	return d
}

// Tick advances the device by one poll interval.
func (d *Device) Tick(now time.Time) {
	levels, err := d.d.Buttons.Read()
	if err != nil {
		d.log.Warnw("button read failed", "err", err)
		return
	}

	events := d.filterSwallowed(d.deb.Advance(levels, now))
	if len(events) > 0 {
		d.dirty = true
	}

	if d.notice != "" && now.Sub(d.noticeAt) > noticeFor {
		d.notice = ""
		d.dirty = true
	}

	if d.menu != nil {
		d.tickMenu(now, events)
	} else {
		switch d.mode {
		case ModeMeasure:
			d.tickMeasure(now, events)
		case ModeInstant:
			d.tickInstant(now, events)
		case ModeReview:
			d.tickReview(events)
		case ModeMessage:
			d.tickMessage(events)
		}
	}

	d.updateTracker()
	d.render(now)
}

// filterSwallowed drops the trailing Released that follows a LongPress so
// no mode mistakes the release of a hold for a short press.
func (d *Device) filterSwallowed(events []input.Event) []input.Event {
	out := events[:0]
	for _, ev := range events {
		switch ev.Action {
		case input.ActionLongPress:
			d.swallow[ev.Button] = true
		case input.ActionReleased:
			if d.swallow[ev.Button] {
				d.swallow[ev.Button] = false
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// readProbe polls the sensor and records a good value for the display,
// tracker, and telemetry layers.
func (d *Device) readProbe(now time.Time) (physic.Temperature, error) {
	t, err := d.d.Sensor.Temperature()
	if err != nil {
		return 0, err
	}
	d.lastReading = t
	d.lastReadingAt = now
	d.d.Tracker.SetReading(t, now)
	return t, nil
}

func (d *Device) updateTracker() {
	p := status.Progress{Mode: string(d.mode), Vehicle: d.vehicle.Name}
	if d.runner != nil && d.mode == ModeMeasure {
		v := d.runner.Vehicle()
		p.State = d.runner.State()
		p.Tire = d.runner.Tire()
		p.Position = d.runner.Position()
		p.CellsSet = d.runner.Grid().SetCount()
		p.CellsTotal = v.TireCount * v.PositionCount
	}
	d.d.Tracker.Update(p)
	if d.d.ConnStatus != nil {
		d.d.Tracker.SetMQTTConnected(d.d.ConnStatus.IsConnected())
	}
}

// Unit reports the active display unit. Read by the web layer per request.
func (d *Device) Unit() units.Unit { return d.unit }

// TwelveHour reports the active clock style.
func (d *Device) TwelveHour() bool { return d.twelveHour }

// Mode reports the active UI surface.
func (d *Device) Mode() Mode { return d.mode }

// Close halts the probe and clears the display.
func (d *Device) Close() error {
	if err := d.d.Sensor.Halt(); err != nil {
		d.log.Warnw("sensor halt failed", "err", err)
	}
	return d.d.Display.Close()
}

func (d *Device) render(now time.Time) {
	live := d.menu == nil &&
		(d.mode == ModeInstant ||
			(d.mode == ModeMeasure && d.runner != nil && d.runner.State() == session.StateSampling))
	if !d.dirty && !(live && now.Sub(d.lastRender) >= liveRefresh) {
		return
	}

	var err error
	switch {
	case d.menu != nil:
		err = d.d.Display.Menu(d.menuFrame())
	case d.mode == ModeMeasure:
		err = d.d.Display.Grid(d.runnerFrame())
	case d.mode == ModeInstant:
		err = d.d.Display.Reading(d.instantFrame())
	case d.mode == ModeReview:
		err = d.d.Display.Grid(d.reviewFrame())
	case d.mode == ModeMessage:
		err = d.d.Display.Message(d.message)
	}
	if err != nil {
		d.log.Warnw("display draw failed", "err", err)
	}
	d.lastRender = now
	d.dirty = false
}

// showMessage puts a few lines on screen until any button release, then
// hands control to next.
func (d *Device) showMessage(title string, lines []string, next func()) {
	d.mode = ModeMessage
	d.menu = nil
	d.message = display.MessageFrame{Title: title, Lines: lines}
	d.msgNext = next
	d.dirty = true
}

func (d *Device) tickMessage(events []input.Event) {
	for _, ev := range events {
		if ev.Action == input.ActionReleased {
			d.msgNext()
			return
		}
	}
}

func (d *Device) tickReview(events []input.Event) {
	for _, ev := range events {
		if ev.Action == input.ActionReleased {
			d.reviewBack()
			return
		}
	}
}
