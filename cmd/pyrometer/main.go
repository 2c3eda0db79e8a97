// Command pyrometer runs the handheld tire pyrometer: the button-driven
// measurement loop on the device, session persistence, telemetry, and the
// HTTP review server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/bbsmith24/yamura-pyrometer/internal/buttons"
	"github.com/bbsmith24/yamura-pyrometer/internal/config"
	"github.com/bbsmith24/yamura-pyrometer/internal/device"
	"github.com/bbsmith24/yamura-pyrometer/internal/display"
	"github.com/bbsmith24/yamura-pyrometer/internal/logger"
	"github.com/bbsmith24/yamura-pyrometer/internal/profile"
	"github.com/bbsmith24/yamura-pyrometer/internal/sensor"
	"github.com/bbsmith24/yamura-pyrometer/internal/sensor/mcp9600"
	"github.com/bbsmith24/yamura-pyrometer/internal/sensor/serialprobe"
	"github.com/bbsmith24/yamura-pyrometer/internal/status"
	"github.com/bbsmith24/yamura-pyrometer/internal/store"
	"github.com/bbsmith24/yamura-pyrometer/internal/telemetry"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
	"github.com/bbsmith24/yamura-pyrometer/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the config file")
	sim := flag.Bool("sim", false, "Force the simulated probe and ignore button hardware")
	printTemp := flag.Bool("print-temp", false, "Read one temperature and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get(cfg.LogLevel)

	if err := run(cfg, log, *sim, *printTemp); err != nil {
		log.Errorw("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Settings, log *logger.Logger, sim, printTemp bool) error {
	src, sensorName, err := openSensor(cfg, sim)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}

	// Print-temp mode: one reading, no loop.
	if printTemp {
		t, err := src.Temperature()
		if err != nil {
			src.Halt()
			return fmt.Errorf("read temperature: %w", err)
		}
		src.Halt()
		fmt.Println(units.Format(t, cfg.Unit()))
		return nil
	}

	btn, err := openButtons(cfg, sim)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer btn.Close()

	rend, err := openDisplay(cfg)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.DBPath, err)
	}
	defer st.Close()

	// Empty broker disables telemetry entirely.
	var publisher telemetry.Publisher = telemetry.NopPublisher{}
	var connStatus telemetry.ConnectionStatus
	if cfg.Broker != "" {
		real, err := telemetry.NewRealPublisher(cfg.Broker, cfg.ClientID, log)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		publisher = real
		connStatus = real
	}
	defer publisher.Close()

	// Tracker before STARTUP so the snapshot is available for the payload.
	tracker := status.NewTracker(time.Now(), cfg.Unit(), status.Config{
		PollMs:     cfg.Poll().Milliseconds(),
		DebounceMs: cfg.Debounce().Milliseconds(),
		Broker:     cfg.Broker,
		HTTPPort:   cfg.HTTPAddr,
		Sensor:     sensorName,
		Database:   cfg.DBPath,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startup := telemetry.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warnw("startup publish failed", "err", err)
	}

	vehicle, err := activeVehicle(cfg, st)
	if err != nil {
		return err
	}

	dev := device.New(cfg, device.Deps{
		Buttons:    btn,
		Sensor:     src,
		Display:    rend,
		Store:      st,
		Publisher:  publisher,
		ConnStatus: connStatus,
		Tracker:    tracker,
		Log:        log,
		Vehicle:    vehicle,
	})
	defer dev.Close()

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, st, dev.Unit, dev.TwelveHour, log)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("http server", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infow("review server listening", "addr", cfg.HTTPAddr)
	}

	log.Infow("started",
		"poll", cfg.Poll(),
		"sensor", sensorName,
		"display", cfg.Display,
		"broker", cfg.Broker,
		"vehicle", vehicle.Name)

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(dev, publisher, connStatus, tracker, log, time.Now, ticker.C, sigCh)
}

// runLoop owns the cooperative tick loop. The device gets one Tick per
// ticker fire; a signal publishes the SHUTDOWN event and returns.
func runLoop(dev *device.Device, publisher telemetry.Publisher, connStatus telemetry.ConnectionStatus, tracker *status.Tracker, log *logger.Logger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			log.Infow("shutting down", "signal", signalName)

			if connStatus != nil {
				tracker.SetMQTTConnected(connStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event := telemetry.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Warnw("shutdown publish failed", "err", err)
			}
			return nil

		case <-tick:
			dev.Tick(now())
		}
	}
}

// openSensor builds the probe backend named by the config, or the simulator
// when -sim forces it. The returned name feeds the status page.
func openSensor(cfg *config.Settings, sim bool) (sensor.Source, string, error) {
	kind := cfg.Sensor
	if sim {
		kind = "sim"
	}
	switch kind {
	case "sim":
		return sensor.NewSim(time.Now().UnixNano()), "sim", nil

	case "mcp9600":
		if _, err := host.Init(); err != nil {
			return nil, "", fmt.Errorf("init periph host: %w", err)
		}
		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			return nil, "", fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
		}
		tc, err := mcp9600.ParseType(cfg.Thermocouple)
		if err != nil {
			return nil, "", err
		}
		opts := mcp9600.DefaultOpts
		opts.Addr = uint16(cfg.SensorAddr)
		opts.Type = tc
		dev, err := mcp9600.NewI2C(bus, &opts)
		if err != nil {
			return nil, "", err
		}
		return dev, "mcp9600", nil

	case "serial":
		p, err := serialprobe.Open(cfg.SerialPort, cfg.SerialBaud)
		if err != nil {
			return nil, "", err
		}
		return p, "serial", nil
	}
	return nil, "", fmt.Errorf("unknown sensor backend %q", kind)
}

// openButtons requests the GPIO lines, or an idle cluster in -sim mode so
// the demo loop runs with no hardware at all.
func openButtons(cfg *config.Settings, sim bool) (buttons.Reader, error) {
	if sim {
		return buttons.NewFakeReader([]buttons.Sample{{}}), nil
	}
	return buttons.NewRealReader(cfg.ButtonChip, cfg.PinSelect, cfg.PinNext, cfg.PinPrev)
}

func openDisplay(cfg *config.Settings) (display.Renderer, error) {
	switch cfg.Display {
	case "term":
		return display.NewTerm(os.Stdout), nil
	case "oled":
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("init periph host: %w", err)
		}
		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			return nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
		}
		return display.NewOLED(bus, cfg.FontPoints)
	case "none":
		return display.Nop{}, nil
	}
	return nil, fmt.Errorf("unknown display backend %q", cfg.Display)
}

// activeVehicle resolves the configured profile against the store, falling
// back to the first profile when the saved id is gone.
func activeVehicle(cfg *config.Settings, st store.Store) (profile.Vehicle, error) {
	profiles, err := st.Profiles(context.Background())
	if err != nil {
		return profile.Vehicle{}, fmt.Errorf("load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return profile.Vehicle{}, errors.New("no vehicle profiles in store")
	}
	for _, v := range profiles {
		if v.ID == cfg.ActiveProfile {
			return v, nil
		}
	}
	return profiles[0], nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
