// Package mcp9600 controls a Microchip MCP9600 thermocouple EMF to
// temperature converter over I²C. The handheld's probe is a type K bead
// wired to this chip.
//
// Datasheet:
// https://ww1.microchip.com/downloads/en/DeviceDoc/MCP960X-Data-Sheet-20005426E.pdf
package mcp9600

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// I2CAddr is the factory default address (ADDR pin floating).
const I2CAddr uint16 = 0x60

const (
	// Register addresses.
	_REGISTER_HOT_JUNCTION  byte = 0x00
	_REGISTER_STATUS        byte = 0x04
	_REGISTER_SENSOR_CONFIG byte = 0x05
	_REGISTER_DEVICE_CONFIG byte = 0x06
	_REGISTER_DEVICE_ID     byte = 0x20

	// The id byte every MCP9600 reports.
	_DEVICE_ID_MCP9600 byte = 0x40

	// Sensor config layout: thermocouple type in bits 6:4, filter
	// coefficient in bits 2:0.
	_TYPE_SHIFT  = 4
	_FILTER_MASK = 0x07

	// Device config bits 1:0 = 01 puts the converter in shutdown.
	_MODE_SHUTDOWN byte = 0x01

	// Hot-junction register scale, 0.0625 degrees C per LSB.
	_DEGREES_RESOLUTION physic.Temperature = 62_500 * physic.MicroKelvin
)

// ThermocoupleType selects the probe chemistry programmed into the
// converter's linearization.
type ThermocoupleType byte

const (
	TypeK ThermocoupleType = iota
	TypeJ
	TypeT
	TypeN
	TypeS
	TypeE
	TypeB
	TypeR
)

func (t ThermocoupleType) String() string {
	names := [...]string{"K", "J", "T", "N", "S", "E", "B", "R"}
	if int(t) < len(names) {
		return names[t]
	}
	return "?"
}

// ParseType reads a thermocouple type letter from configuration.
func ParseType(s string) (ThermocoupleType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "K":
		return TypeK, nil
	case "J":
		return TypeJ, nil
	case "T":
		return TypeT, nil
	case "N":
		return TypeN, nil
	case "S":
		return TypeS, nil
	case "E":
		return TypeE, nil
	case "B":
		return TypeB, nil
	case "R":
		return TypeR, nil
	}
	return 0, fmt.Errorf("mcp9600: unknown thermocouple type %q", s)
}

// Opts holds the configuration for the converter.
type Opts struct {
	// Addr is the I²C address; zero means I2CAddr.
	Addr uint16
	// Type is the attached thermocouple chemistry.
	Type ThermocoupleType
	// Filter is the on-chip digital filter coefficient, 0 (off) to 7
	// (maximum smoothing). The stabilization window does its own
	// filtering, so a middle setting just knocks down EMF spikes.
	Filter uint8
}

// DefaultOpts is the recommended configuration: type K, mid filter.
var DefaultOpts = Opts{Addr: I2CAddr, Type: TypeK, Filter: 4}

// Dev is a handle to one MCP9600.
type Dev struct {
	d    *i2c.Dev
	mu   sync.Mutex
	opts Opts
}

// NewI2C opens the converter on b, verifies its identity, and programs the
// thermocouple type and filter.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	addr := opts.Addr
	if addr == 0 {
		addr = I2CAddr
	}
	if opts.Filter > _FILTER_MASK {
		return nil, fmt.Errorf("mcp9600: filter %d out of range 0..7", opts.Filter)
	}

	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: *opts}

	id := make([]byte, 2)
	if err := d.d.Tx([]byte{_REGISTER_DEVICE_ID}, id); err != nil {
		return nil, fmt.Errorf("mcp9600: read device id: %w", err)
	}
	if id[0] != _DEVICE_ID_MCP9600 {
		return nil, fmt.Errorf("mcp9600: unexpected device id %#02x", id[0])
	}

	cfg := byte(opts.Type)<<_TYPE_SHIFT | opts.Filter&_FILTER_MASK
	if err := d.d.Tx([]byte{_REGISTER_SENSOR_CONFIG, cfg}, nil); err != nil {
		return nil, fmt.Errorf("mcp9600: write sensor config: %w", err)
	}

	return d, nil
}

// Temperature reads the hot junction. The register is a signed 16-bit count
// at 0.0625 degrees C per bit.
func (d *Dev) Temperature() (physic.Temperature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := make([]byte, 2)
	if err := d.d.Tx([]byte{_REGISTER_HOT_JUNCTION}, r); err != nil {
		return 0, fmt.Errorf("mcp9600: read hot junction: %w", err)
	}
	counts := int16(binary.BigEndian.Uint16(r))
	return physic.ZeroCelsius + physic.Temperature(counts)*_DEGREES_RESOLUTION, nil
}

// Status returns the raw status register, mostly for debugging burst and
// alert states from the shell.
func (d *Dev) Status() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := make([]byte, 1)
	if err := d.d.Tx([]byte{_REGISTER_STATUS}, r); err != nil {
		return 0, fmt.Errorf("mcp9600: read status: %w", err)
	}
	return r[0], nil
}

// Halt puts the converter into shutdown mode. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.d.Tx([]byte{_REGISTER_DEVICE_CONFIG, _MODE_SHUTDOWN}, nil); err != nil {
		return fmt.Errorf("mcp9600: shutdown: %w", err)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("mcp9600{type %s}: %s", d.opts.Type, d.d.String())
}

var _ conn.Resource = &Dev{}
