package mcp9600

import (
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

const addr uint16 = 0x60

// initOps is the identity probe and configuration handshake for a type K
// probe with filter 4 (config byte 0x04).
func initOps() []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: addr, W: []byte{_REGISTER_DEVICE_ID}, R: []byte{0x40, 0x12}},
		{Addr: addr, W: []byte{_REGISTER_SENSOR_CONFIG, 0x04}},
	}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		bits     []byte
		expected physic.Temperature
	}{
		{[]byte{0x06, 0x40}, physic.ZeroCelsius + 100*physic.Kelvin},
		{[]byte{0x01, 0x90}, physic.ZeroCelsius + 25*physic.Kelvin},
		{[]byte{0x00, 0x01}, physic.ZeroCelsius + 62_500*physic.MicroKelvin},
		{[]byte{0x00, 0x00}, physic.ZeroCelsius},
		{[]byte{0xff, 0x38}, physic.ZeroCelsius - 12_500*physic.MilliKelvin},
		{[]byte{0xfe, 0x70}, physic.ZeroCelsius - 25*physic.Kelvin},
	}

	ops := initOps()
	for _, tc := range tests {
		ops = append(ops, i2ctest.IO{Addr: addr, W: []byte{_REGISTER_HOT_JUNCTION}, R: tc.bits})
	}
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	defer pb.Close()
	record := &i2ctest.Record{Bus: pb}

	dev, err := NewI2C(record, &Opts{Addr: addr, Type: TypeK, Filter: 4})
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range tests {
		got, err := dev.Temperature()
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.expected {
			t.Errorf("counts % x: got %.4fC, want %.4fC", tc.bits, got.Celsius(), tc.expected.Celsius())
		}
	}
}

func TestNewI2CRejectsWrongDevice(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{_REGISTER_DEVICE_ID}, R: []byte{0x54, 0x00}},
		},
		DontPanic: true,
	}
	defer pb.Close()

	if _, err := NewI2C(pb, &Opts{Addr: addr}); err == nil {
		t.Fatal("expected identity check to fail for a foreign id byte")
	}
}

func TestNewI2CRejectsBadFilter(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	if _, err := NewI2C(pb, &Opts{Addr: addr, Filter: 9}); err == nil {
		t.Fatal("expected filter range error")
	}
}

func TestSensorConfigEncoding(t *testing.T) {
	// Type T (code 2) with filter 7 encodes as 0x27.
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{_REGISTER_DEVICE_ID}, R: []byte{0x40, 0x10}},
			{Addr: addr, W: []byte{_REGISTER_SENSOR_CONFIG, 0x27}},
		},
		DontPanic: true,
	}
	defer pb.Close()

	if _, err := NewI2C(pb, &Opts{Addr: addr, Type: TypeT, Filter: 7}); err != nil {
		t.Fatal(err)
	}
}

func TestHalt(t *testing.T) {
	ops := append(initOps(), i2ctest.IO{Addr: addr, W: []byte{_REGISTER_DEVICE_CONFIG, 0x01}})
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	defer pb.Close()

	dev, err := NewI2C(pb, &Opts{Addr: addr, Type: TypeK, Filter: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want ThermocoupleType
		ok   bool
	}{
		{"K", TypeK, true},
		{"k", TypeK, true},
		{" j ", TypeJ, true},
		{"R", TypeR, true},
		{"X", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseType(%q) = (%v, %v), want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseType(%q) succeeded, want error", tc.in)
		}
	}
	if TypeK.String() != "K" || TypeB.String() != "B" {
		t.Error("String round trip broken")
	}
}
