package device

import (
	"context"
	"fmt"
	"time"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
	"github.com/bbsmith24/yamura-pyrometer/internal/menu"
	"github.com/bbsmith24/yamura-pyrometer/internal/sample"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/telemetry"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// Save-failed menu codes.
const (
	saveRetry = iota
	saveDiscard
)

func (d *Device) enterMeasure(now time.Time) {
	sampler := sample.New(d.cfg.MinSamples, units.Delta(d.tolerance, d.unit))
	d.runner = session.New(d.vehicle, sampler, d.cfg.RetryLimit, now)
	d.mode = ModeMeasure
	d.menu = nil
	d.notice = ""
	d.dirty = true
	d.log.Infow("measurement session started",
		"vehicle", d.vehicle.Name,
		"tires", d.vehicle.TireCount,
		"positions", d.vehicle.PositionCount)
}

func (d *Device) tickMeasure(now time.Time, events []input.Event) {
	// The probe is polled only while a cell is stabilizing. Reading errors
	// go to the runner, which tolerates a few before declaring a fault.
	reading := session.Reading{}
	if d.runner.State() == session.StateSampling {
		t, err := d.readProbe(now)
		reading = session.Reading{Temp: t, Err: err, OK: true}
	}

	for _, ev := range d.runner.Tick(now, events, reading) {
		d.handleRunnerEvent(now, ev)
	}
}

func (d *Device) handleRunnerEvent(now time.Time, ev session.Event) {
	d.dirty = true
	v := d.runner.Vehicle()

	switch ev.Type {
	case session.EventTireSelected:
		if ev.AtBoundary {
			if ev.Tire == 0 {
				d.notice = "at first tire"
			} else {
				d.notice = "at last tire"
			}
			d.noticeAt = now
		} else {
			d.notice = ""
		}

	case session.EventSamplingStarted:
		d.notice = ""

	case session.EventCellAccepted:
		d.log.Infow("reading accepted",
			"tire", v.TireLabel(ev.Tire),
			"position", v.PositionLabel(ev.Position),
			"temp", units.Format(ev.Temp, d.unit))
		err := d.d.Publisher.PublishReading(telemetry.ReadingEvent{
			Timestamp: ev.Timestamp,
			Vehicle:   v.Name,
			Tire:      v.TireLabel(ev.Tire),
			Position:  v.PositionLabel(ev.Position),
			Temp:      ev.Temp,
			Unit:      d.unit,
		})
		if err != nil {
			d.log.Warnw("reading publish failed", "err", err)
		}

	case session.EventCellCanceled:
		d.notice = "cell canceled"
		d.noticeAt = now

	case session.EventFault:
		d.log.Warnw("acquisition fault",
			"tire", v.TireLabel(ev.Tire),
			"position", v.PositionLabel(ev.Position),
			"err", ev.Err)
		d.notice = fmt.Sprintf("probe fault on %s %s", v.TireLabel(ev.Tire), v.PositionLabel(ev.Position))
		d.noticeAt = now

	case session.EventComplete:
		d.finishSession()

	case session.EventAborted:
		d.log.Infow("session aborted", "vehicle", v.Name)
		d.enterMainMenu()
	}
}

func (d *Device) finishSession() {
	rec := d.runner.Record("")
	d.runner = nil
	d.trySave(rec)
}

// trySave persists a finished session. On failure the record is parked and
// the operator chooses between another attempt and dropping it.
func (d *Device) trySave(rec session.Record) {
	id, err := d.d.Store.SaveSession(context.Background(), rec)
	if err != nil {
		d.log.Errorw("session save failed", "vehicle", rec.Vehicle.Name, "err", err)
		d.pending = &rec
		d.setMenu(menuSaveFailed, ModeMeasure, "Save Failed", []menu.Choice{
			{Label: "Retry", Code: saveRetry},
			{Label: "Discard", Code: saveDiscard},
		}, 0)
		return
	}
	rec.ID = id
	d.pending = nil
	d.log.Infow("session saved", "id", id, "vehicle", rec.Vehicle.Name, "readings", rec.Matrix.SetCount())

	if err := d.d.Publisher.PublishSession(rec, d.unit); err != nil {
		d.log.Warnw("session publish failed", "id", id, "err", err)
	}

	d.showMessage("Session Saved", []string{
		rec.Vehicle.Name,
		fmt.Sprintf("%d readings", rec.Matrix.SetCount()),
		"id " + shortID(id),
	}, d.enterMainMenu)
}

func (d *Device) saveFailedDone(code int) {
	if code == saveRetry && d.pending != nil {
		d.trySave(*d.pending)
		return
	}
	d.log.Infow("session discarded after save failure")
	d.pending = nil
	d.enterMainMenu()
}

func (d *Device) enterInstant() {
	d.mode = ModeInstant
	d.menu = nil
	d.dirty = true
}

func (d *Device) tickInstant(now time.Time, events []input.Event) {
	for _, ev := range events {
		if ev.Button == input.Select && ev.Action == input.ActionReleased {
			d.enterMainMenu()
			return
		}
	}

	t, err := d.readProbe(now)
	if err != nil {
		d.log.Debugw("probe read failed", "err", err)
		return
	}

	if now.Sub(d.lastInstantPublish) < instantPublishEvery {
		return
	}
	d.lastInstantPublish = now
	err = d.d.Publisher.PublishReading(telemetry.ReadingEvent{
		Timestamp: now,
		Vehicle:   d.vehicle.Name,
		Temp:      t,
		Unit:      d.unit,
	})
	if err != nil {
		d.log.Warnw("reading publish failed", "err", err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
