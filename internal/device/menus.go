package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bbsmith24/yamura-pyrometer/internal/clock"
	"github.com/bbsmith24/yamura-pyrometer/internal/display"
	"github.com/bbsmith24/yamura-pyrometer/internal/input"
	"github.com/bbsmith24/yamura-pyrometer/internal/menu"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/store"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// menuKind tells menuDone which flow the finished menu belongs to.
type menuKind int

const (
	menuMain menuKind = iota
	menuVehicle
	menuSettings
	menuConfirmDelete
	menuSaveFailed
	menuBrowser
)

// Main menu codes.
const (
	mainMeasure = iota
	mainVehicle
	mainInstant
	mainReviewLast
	mainBrowser
	mainSettings
)

// Settings menu codes.
const (
	setUnits = iota
	setClock
	setResolution
	setDelete
	setSave
	setBack
)

// codeBack is the shared "return without choosing" entry.
const codeBack = -1

func (d *Device) setMenu(kind menuKind, mode Mode, title string, choices []menu.Choice, initial int) {
	m, err := menu.NewSession(title, choices, initial)
	if err != nil {
		// Only reachable with an empty choice list; callers never build one.
		d.log.Errorw("menu build failed", "title", title, "err", err)
		return
	}
	d.mode = mode
	d.menu = m
	d.menuKind = kind
	d.dirty = true
}

func (d *Device) tickMenu(now time.Time, events []input.Event) {
	for _, ev := range events {
		code, done := d.menu.Step(ev)
		if !done {
			continue
		}
		d.menuDone(now, code)
		return
	}
}

func (d *Device) menuDone(now time.Time, code int) {
	switch d.menuKind {
	case menuMain:
		d.mainIndex = d.menu.Index()
		d.mainDone(now, code)
	case menuVehicle:
		d.vehicleDone(code)
	case menuSettings:
		d.settingsDone(code)
	case menuConfirmDelete:
		d.confirmDeleteDone(code)
	case menuSaveFailed:
		d.saveFailedDone(code)
	case menuBrowser:
		d.browserDone(code)
	}
}

func (d *Device) menuFrame() display.MenuFrame {
	return display.MenuFrame{
		Title:  d.menu.Title(),
		Labels: d.menu.Labels(),
		Index:  d.menu.Index(),
		Footer: "NEXT/PREV move  SELECT pick",
	}
}

func (d *Device) enterMainMenu() {
	d.runner = nil
	d.setMenu(menuMain, ModeMenu, "Main Menu", []menu.Choice{
		{Label: "Measure Tires", Code: mainMeasure},
		{Label: "Select Vehicle", Code: mainVehicle},
		{Label: "Instant Temp", Code: mainInstant},
		{Label: "Review Last", Code: mainReviewLast},
		{Label: "Saved Sessions", Code: mainBrowser},
		{Label: "Settings", Code: mainSettings},
	}, d.mainIndex)
}

func (d *Device) mainDone(now time.Time, code int) {
	switch code {
	case mainMeasure:
		d.enterMeasure(now)
	case mainVehicle:
		d.enterVehicleSelect()
	case mainInstant:
		d.enterInstant()
	case mainReviewLast:
		d.enterReviewLast()
	case mainBrowser:
		d.enterBrowser()
	case mainSettings:
		d.enterSettings(0)
	}
}

func (d *Device) enterVehicleSelect() {
	profiles, err := d.d.Store.Profiles(context.Background())
	if err != nil {
		d.log.Errorw("profile load failed", "err", err)
		d.showMessage("Profiles", []string{"load failed", err.Error()}, d.enterMainMenu)
		return
	}
	d.profiles = profiles

	choices := make([]menu.Choice, 0, len(profiles)+1)
	initial := 0
	for i, v := range profiles {
		if v.ID == d.vehicle.ID {
			initial = i
		}
		choices = append(choices, menu.Choice{Label: v.Name, Code: i})
	}
	choices = append(choices, menu.Choice{Label: "Back", Code: codeBack})
	d.setMenu(menuVehicle, ModeVehicle, "Select Vehicle", choices, initial)
}

func (d *Device) vehicleDone(code int) {
	if code != codeBack && code < len(d.profiles) {
		d.vehicle = d.profiles[code]
		d.cfg.ActiveProfile = d.vehicle.ID
		d.log.Infow("vehicle selected", "name", d.vehicle.Name, "id", d.vehicle.ID)
	}
	d.enterMainMenu()
}

func (d *Device) settingsChoices() []menu.Choice {
	clockLabel := "24h"
	if d.twelveHour {
		clockLabel = "12h"
	}
	return []menu.Choice{
		{Label: "Units: °" + string(d.unit), Code: setUnits},
		{Label: "Clock: " + clockLabel, Code: setClock},
		{Label: fmt.Sprintf("Resolution: %.1f°", d.tolerance), Code: setResolution},
		{Label: "Delete All Sessions", Code: setDelete},
		{Label: "Save Settings", Code: setSave},
		{Label: "Back", Code: setBack},
	}
}

func (d *Device) enterSettings(initial int) {
	d.setMenu(menuSettings, ModeSettings, "Settings", d.settingsChoices(), initial)
}

func (d *Device) settingsDone(code int) {
	index := d.menu.Index()
	switch code {
	case setUnits:
		if d.unit == units.Fahrenheit {
			d.unit = units.Celsius
		} else {
			d.unit = units.Fahrenheit
		}
		d.d.Tracker.SetUnit(d.unit)
		d.enterSettings(index)
	case setClock:
		d.twelveHour = !d.twelveHour
		d.enterSettings(index)
	case setResolution:
		d.tolerance = nextResolution(d.tolerance)
		d.enterSettings(index)
	case setDelete:
		d.setMenu(menuConfirmDelete, ModeSettings, "Delete all sessions?", []menu.Choice{
			{Label: "No", Code: 0},
			{Label: "Yes", Code: 1},
		}, 0)
	case setSave:
		d.saveSettings()
	case setBack:
		d.enterMainMenu()
	}
}

// nextResolution cycles the stabilization spread through the offered steps.
func nextResolution(cur float64) float64 {
	switch cur {
	case 0.5:
		return 1.0
	case 1.0:
		return 2.0
	case 2.0:
		return 0.5
	default:
		return 1.0
	}
}

func (d *Device) saveSettings() {
	d.cfg.Units = string(d.unit)
	d.cfg.TwelveHour = d.twelveHour
	d.cfg.Tolerance = d.tolerance
	if err := d.cfg.Save(); err != nil {
		d.log.Errorw("settings save failed", "err", err)
		d.showMessage("Settings", []string{"save failed", err.Error()}, func() { d.enterSettings(setSave) })
		return
	}
	d.log.Infow("settings saved", "units", d.cfg.Units, "twelve_hour", d.cfg.TwelveHour,
		"tolerance", d.cfg.Tolerance, "active_profile", d.cfg.ActiveProfile)
	d.showMessage("Settings", []string{"saved"}, func() { d.enterSettings(setSave) })
}

func (d *Device) confirmDeleteDone(code int) {
	if code != 1 {
		d.enterSettings(setDelete)
		return
	}
	if err := d.d.Store.DeleteSessions(context.Background()); err != nil {
		d.log.Errorw("delete sessions failed", "err", err)
		d.showMessage("Delete", []string{"failed", err.Error()}, func() { d.enterSettings(setDelete) })
		return
	}
	d.log.Infow("all sessions deleted")
	d.showMessage("Delete", []string{"all sessions deleted"}, func() { d.enterSettings(setDelete) })
}

func (d *Device) enterBrowser() {
	infos, err := d.d.Store.Sessions(context.Background(), browserLimit)
	if err != nil {
		d.log.Errorw("session list failed", "err", err)
		d.showMessage("Sessions", []string{"load failed", err.Error()}, d.enterMainMenu)
		return
	}
	if len(infos) == 0 {
		d.showMessage("Sessions", []string{"nothing saved yet"}, d.enterMainMenu)
		return
	}

	choices := make([]menu.Choice, 0, len(infos)+1)
	d.browserIDs = d.browserIDs[:0]
	for i, info := range infos {
		label := clock.Stamp(info.CompletedAt, d.twelveHour) + " " + info.VehicleName
		choices = append(choices, menu.Choice{Label: label, Code: i})
		d.browserIDs = append(d.browserIDs, info.ID)
	}
	choices = append(choices, menu.Choice{Label: "Back", Code: codeBack})
	d.setMenu(menuBrowser, ModeBrowser, "Saved Sessions", choices, 0)
}

func (d *Device) browserDone(code int) {
	if code == codeBack || code >= len(d.browserIDs) {
		d.enterMainMenu()
		return
	}
	rec, err := d.d.Store.Session(context.Background(), d.browserIDs[code])
	if err != nil {
		d.log.Errorw("session load failed", "id", d.browserIDs[code], "err", err)
		d.showMessage("Sessions", []string{"load failed", err.Error()}, d.enterBrowser)
		return
	}
	d.enterReview(rec, d.enterBrowser)
}

func (d *Device) enterReviewLast() {
	rec, err := d.d.Store.LastSession(context.Background())
	if errors.Is(err, store.ErrNotFound) {
		d.showMessage("Review", []string{"nothing saved yet"}, d.enterMainMenu)
		return
	}
	if err != nil {
		d.log.Errorw("last session load failed", "err", err)
		d.showMessage("Review", []string{"load failed", err.Error()}, d.enterMainMenu)
		return
	}
	d.enterReview(rec, d.enterMainMenu)
}

func (d *Device) enterReview(rec session.Record, back func()) {
	d.review = rec
	d.reviewBack = back
	d.mode = ModeReview
	d.menu = nil
	d.dirty = true
}
