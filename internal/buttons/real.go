//go:build linux

package buttons

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/bbsmith24/yamura-pyrometer/internal/input"
)

// RealReader reads the buttons through the Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [input.NumButtons]*gpiocdev.Line
}

// NewRealReader requests the three button lines on chipName as pulled-up
// inputs. The buttons short the line to ground, so the internal pull-up
// keeps released buttons reading high.
func NewRealReader(chipName string, pinSelect, pinNext, pinPrev int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	r := &RealReader{chip: chip}
	for i, pin := range [input.NumButtons]int{pinSelect, pinNext, pinPrev} {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", input.Button(i), pin, err)
		}
		r.lines[i] = line
	}
	return r, nil
}

// Read samples all three lines. Raw low means pressed.
func (r *RealReader) Read() (input.Levels, error) {
	var levels input.Levels
	for i, line := range r.lines {
		raw, err := line.Value()
		if err != nil {
			return input.Levels{}, fmt.Errorf("read %s pin: %w", input.Button(i), err)
		}
		levels[i] = raw == 0
	}
	return levels, nil
}

// Close releases the lines and the chip. Lines are left as pulled-up inputs,
// which is how the wiring expects them between runs.
func (r *RealReader) Close() error {
	var errs []error
	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", input.Button(i), err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
