// Package serialprobe reads a line-oriented UART temperature probe, the
// external amplifier boards that stream one reading per line.
//
// The wire format is a decimal Celsius value per line, optionally dressed as
// "T=87.3" or "87.3 C". A background scanner keeps the most recent value so
// the tick loop polls without ever blocking on the port.
package serialprobe

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"periph.io/x/conn/v3/physic"
)

// DefaultMaxAge is how stale the latest reading may grow before Temperature
// reports an error. A healthy probe streams several lines per second.
const DefaultMaxAge = 2 * time.Second

// Probe adapts the streaming port to per-tick polling.
type Probe struct {
	rc     io.ReadCloser
	maxAge time.Duration
	now    func() time.Time

	mu   sync.RWMutex
	last physic.Temperature
	at   time.Time
}

// Open connects to the probe and starts the background reader.
func Open(portName string, baud int) (*Probe, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return newProbe(port, DefaultMaxAge, time.Now), nil
}

// newProbe wires a probe over any stream; tests feed it a pipe.
func newProbe(rc io.ReadCloser, maxAge time.Duration, now func() time.Time) *Probe {
	p := &Probe{rc: rc, maxAge: maxAge, now: now}
	go p.scan()
	return p
}

// scan consumes lines until the port closes. Unparseable lines are dropped;
// the probe firmware occasionally emits banners and partial lines at boot.
func (p *Probe) scan() {
	scanner := bufio.NewScanner(p.rc)
	for scanner.Scan() {
		t, err := parseLine(scanner.Text())
		if err != nil {
			continue
		}
		p.mu.Lock()
		p.last = t
		p.at = p.now()
		p.mu.Unlock()
	}
}

// parseLine accepts "87.3", "87.3 C", and "T=87.3".
func parseLine(line string) (physic.Temperature, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "T=")
	s = strings.TrimSuffix(s, "C")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse probe line %q: %w", line, err)
	}
	return physic.ZeroCelsius + physic.Temperature(v*float64(physic.Celsius)), nil
}

// Temperature returns the latest reading while it is fresh.
func (p *Probe) Temperature() (physic.Temperature, error) {
	p.mu.RLock()
	last, at := p.last, p.at
	p.mu.RUnlock()

	if at.IsZero() {
		return 0, fmt.Errorf("serialprobe: no reading yet")
	}
	if age := p.now().Sub(at); age > p.maxAge {
		return 0, fmt.Errorf("serialprobe: reading is %v old", age)
	}
	return last, nil
}

// Halt closes the port, which also stops the background reader.
func (p *Probe) Halt() error {
	return p.rc.Close()
}
