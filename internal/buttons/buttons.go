// Package buttons reads the three-button control cluster with hardware
// abstraction. The real implementation uses the Linux GPIO character device;
// the fake allows testing without hardware.
package buttons

import "github.com/bbsmith24/yamura-pyrometer/internal/input"

// Default BCM pin assignments on the Pi header.
const (
	DefaultPinSelect = 16
	DefaultPinNext   = 20
	DefaultPinPrev   = 21
)

// Reader samples the raw button levels once per tick.
type Reader interface {
	// Read returns the logical levels indexed by input.Button, true =
	// pressed. The lines are wired active-low (pressing shorts to
	// ground); implementations hide the inversion.
	Read() (input.Levels, error)

	// Close releases the underlying resources.
	Close() error
}
