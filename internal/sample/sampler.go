// Package sample implements the stabilization window that decides when a
// wandering probe reading has settled enough to record.
package sample

import (
	"time"

	"periph.io/x/conn/v3/physic"
)

const (
	// WindowCap is the most raw samples retained for one cell. Older
	// samples fall off the back; a probe that never settles just keeps
	// cycling the window.
	WindowCap = 100

	// DefaultMinSamples is how many recent samples must agree before a
	// reading can stabilize.
	DefaultMinSamples = 8
)

// Result reports the outcome of offering one raw sample.
type Result struct {
	Stable bool
	// Value is the mean of the agreeing window. Set only when Stable.
	Value physic.Temperature
	// At is when the reading stabilized. Set only when Stable.
	At time.Time
}

// Sampler accumulates raw readings for a single cell until the most recent
// minSamples agree within the tolerance. Reset re-arms it for the next cell
// so no sample ever leaks across cells.
type Sampler struct {
	window     [WindowCap]physic.Temperature
	head       int // next write position
	count      int
	minSamples int
	tolerance  physic.Temperature
}

// New creates a Sampler. minSamples is clamped to 1..WindowCap; tolerance is
// the largest spread (max minus min) the agreeing window may show.
func New(minSamples int, tolerance physic.Temperature) *Sampler {
	if minSamples < 1 {
		minSamples = 1
	}
	if minSamples > WindowCap {
		minSamples = WindowCap
	}
	return &Sampler{minSamples: minSamples, tolerance: tolerance}
}

// Reset discards all accumulated samples.
func (s *Sampler) Reset() {
	s.head = 0
	s.count = 0
}

// Len reports how many samples the window currently holds.
func (s *Sampler) Len() int { return s.count }

// MinSamples reports how many agreeing samples stabilize a reading.
func (s *Sampler) MinSamples() int { return s.minSamples }

// Offer appends one raw sample and decides whether the reading stabilized.
// The decision looks only at the newest minSamples entries: once their
// spread is within tolerance the reading is stable and Value is their mean.
// Until then the result is pending and the caller simply offers the next
// sample.
func (s *Sampler) Offer(t physic.Temperature, now time.Time) Result {
	s.window[s.head] = t
	s.head = (s.head + 1) % WindowCap
	if s.count < WindowCap {
		s.count++
	}

	if s.count < s.minSamples {
		return Result{}
	}

	min, max, sum := s.recent()
	if max-min > s.tolerance {
		return Result{}
	}
	return Result{
		Stable: true,
		Value:  physic.Temperature(sum / int64(s.minSamples)),
		At:     now,
	}
}

// recent scans the newest minSamples entries.
func (s *Sampler) recent() (min, max physic.Temperature, sum int64) {
	start := (s.head - s.minSamples + WindowCap) % WindowCap
	for i := 0; i < s.minSamples; i++ {
		v := s.window[(start+i)%WindowCap]
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
		sum += int64(v)
	}
	return min, max, sum
}
