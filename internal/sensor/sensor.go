// Package sensor abstracts the temperature probe behind a per-tick polling
// surface. Real backends live in the subpackages; this package carries the
// interface, a simulator, and a scripted fake for tests.
package sensor

import "periph.io/x/conn/v3/physic"

// Source produces one probe reading per call. Implementations must be cheap
// enough to poll every tick while sampling; anything slow buffers internally
// and hands out the latest value.
type Source interface {
	// Temperature returns the current probe temperature.
	Temperature() (physic.Temperature, error)

	// Halt powers the probe down.
	Halt() error
}
