//go:build !linux

package buttons

import (
	"errors"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
)

// RealReader is a stub for non-Linux platforms, where the GPIO character
// device does not exist. Development happens against the fake instead.
type RealReader struct{}

// NewRealReader always fails off-device.
func NewRealReader(chipName string, pinSelect, pinNext, pinPrev int) (*RealReader, error) {
	return nil, errors.New("buttons: gpio requires linux; use the simulator")
}

func (r *RealReader) Read() (input.Levels, error) {
	return input.Levels{}, errors.New("buttons: gpio not available on this platform")
}

func (r *RealReader) Close() error {
	return nil
}
