// Package config loads and persists daemon settings. The config file is
// YAML; anything absent falls back to defaults that run the simulator with a
// terminal display, so a bare checkout works without hardware.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"periph.io/x/conn/v3/physic"

	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// Settings is the daemon configuration.
type Settings struct {
	LogLevel string `mapstructure:"log_level"`

	HTTPAddr string `mapstructure:"http_addr"`
	// Broker is the MQTT broker URL; empty disables telemetry.
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	DBPath   string `mapstructure:"db_path"`

	PollMs      int `mapstructure:"poll_ms"`
	DebounceMs  int `mapstructure:"debounce_ms"`
	LongPressMs int `mapstructure:"long_press_ms"`

	MinSamples int `mapstructure:"min_samples"`
	// Tolerance is the stabilization spread, expressed in display units.
	Tolerance  float64 `mapstructure:"tolerance"`
	RetryLimit int     `mapstructure:"retry_limit"`

	Units      string `mapstructure:"units"`
	TwelveHour bool   `mapstructure:"twelve_hour"`

	ButtonChip string `mapstructure:"button_chip"`
	PinSelect  int    `mapstructure:"pin_select"`
	PinNext    int    `mapstructure:"pin_next"`
	PinPrev    int    `mapstructure:"pin_prev"`

	// Sensor picks the probe backend: "sim", "mcp9600", or "serial".
	Sensor       string `mapstructure:"sensor"`
	I2CBus       string `mapstructure:"i2c_bus"`
	SensorAddr   int    `mapstructure:"sensor_addr"`
	Thermocouple string `mapstructure:"thermocouple"`
	SerialPort   string `mapstructure:"serial_port"`
	SerialBaud   int    `mapstructure:"serial_baud"`

	// Display picks the renderer: "term", "oled", or "none".
	Display    string  `mapstructure:"display"`
	FontPoints float64 `mapstructure:"font_points"`

	ActiveProfile int64 `mapstructure:"active_profile"`

	path string
	v    *viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("broker", "")
	v.SetDefault("client_id", "yamura-pyrometer")
	v.SetDefault("db_path", "pyrometer.db")
	v.SetDefault("poll_ms", 5)
	v.SetDefault("debounce_ms", 20)
	v.SetDefault("long_press_ms", 1000)
	v.SetDefault("min_samples", 8)
	v.SetDefault("tolerance", 1.0)
	v.SetDefault("retry_limit", 5)
	v.SetDefault("units", "F")
	v.SetDefault("twelve_hour", true)
	v.SetDefault("button_chip", "gpiochip0")
	v.SetDefault("pin_select", 16)
	v.SetDefault("pin_next", 20)
	v.SetDefault("pin_prev", 21)
	v.SetDefault("sensor", "sim")
	v.SetDefault("i2c_bus", "")
	v.SetDefault("sensor_addr", 0x60)
	v.SetDefault("thermocouple", "K")
	v.SetDefault("serial_port", "/dev/ttyUSB0")
	v.SetDefault("serial_baud", 115200)
	v.SetDefault("display", "term")
	v.SetDefault("font_points", 12)
	v.SetDefault("active_profile", 0)
}

// Load reads the config file at path. A missing file is not an error; the
// defaults stand and a later Save creates it.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s := &Settings{path: path, v: v}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := units.Parse(s.Units); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if s.PollMs < 1 {
		return nil, fmt.Errorf("config %s: poll_ms %d must be at least 1", path, s.PollMs)
	}
	return s, nil
}

// Save writes the operator-adjustable settings back to the config file, so
// choices made in the settings menu survive a power cycle.
func (s *Settings) Save() error {
	if s.v == nil || s.path == "" {
		return errors.New("config: not loaded from a file")
	}
	s.v.Set("units", s.Units)
	s.v.Set("twelve_hour", s.TwelveHour)
	s.v.Set("tolerance", s.Tolerance)
	s.v.Set("active_profile", s.ActiveProfile)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

// Poll returns the tick interval.
func (s *Settings) Poll() time.Duration { return time.Duration(s.PollMs) * time.Millisecond }

// Debounce returns the button debounce interval.
func (s *Settings) Debounce() time.Duration { return time.Duration(s.DebounceMs) * time.Millisecond }

// LongPress returns the hold duration that counts as a long press.
func (s *Settings) LongPress() time.Duration {
	return time.Duration(s.LongPressMs) * time.Millisecond
}

// Unit returns the parsed display unit. Load validated it.
func (s *Settings) Unit() units.Unit {
	u, err := units.Parse(s.Units)
	if err != nil {
		return units.Fahrenheit
	}
	return u
}

// ToleranceSpan returns the stabilization spread as a temperature span.
func (s *Settings) ToleranceSpan() physic.Temperature {
	return units.Delta(s.Tolerance, s.Unit())
}
