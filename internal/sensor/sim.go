package sensor

import (
	"math/rand"
	"sync"

	"periph.io/x/conn/v3/physic"
)

// Sim is a probe stand-in that wanders toward a target the way a
// thermocouple pressed into warm rubber does: a fast approach, then small
// noise around the settled value. It lets the whole device run with no
// hardware attached.
type Sim struct {
	mu     sync.Mutex
	rng    *rand.Rand
	cur    float64 // degrees C
	target float64
}

// NewSim creates a simulated probe starting at pit-lane ambient. The seed
// fixes the walk so tests are repeatable.
func NewSim(seed int64) *Sim {
	rng := rand.New(rand.NewSource(seed))
	return &Sim{
		rng:    rng,
		cur:    21,
		target: 60 + rng.Float64()*40,
	}
}

// Temperature steps the walk and returns the new reading.
func (s *Sim) Temperature() (physic.Temperature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Close a twentieth of the gap per read, plus probe noise.
	s.cur += (s.target - s.cur) * 0.05
	s.cur += (s.rng.Float64() - 0.5) * 0.2

	// Occasionally the "probe" moves to a different spot on the tire.
	if s.rng.Float64() < 0.002 {
		s.target = 60 + s.rng.Float64()*40
	}

	return physic.ZeroCelsius + physic.Temperature(s.cur*float64(physic.Celsius)), nil
}

// Halt stops the simulation. It never fails.
func (s *Sim) Halt() error { return nil }
