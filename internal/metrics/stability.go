package metrics

import (
	"math"

	"github.com/san-kum/novacore/internal/loop"
)

// Stability is the fraction of samples whose temperature stays within
// ±band of the setpoint.
type Stability struct {
	setpoint   float64
	band       float64
	violations int
	samples    int
}

func NewStability(setpoint, band float64) *Stability {
	return &Stability{
		setpoint: setpoint,
		band:     band,
	}
}

func (s *Stability) Name() string {
	return "stability"
}

func (s *Stability) Observe(x loop.Sample) {
	s.samples++
	if math.Abs(x.Temp-s.setpoint) > s.band {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// SetpointRMS is the root-mean-square temperature deviation from the setpoint.
type SetpointRMS struct {
	setpoint float64
	sumSq    float64
	samples  int
}

func NewSetpointRMS(setpoint float64) *SetpointRMS {
	return &SetpointRMS{setpoint: setpoint}
}

func (r *SetpointRMS) Name() string { return "setpoint_rms" }

func (r *SetpointRMS) Observe(x loop.Sample) {
	d := x.Temp - r.setpoint
	r.sumSq += d * d
	r.samples++
}

func (r *SetpointRMS) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *SetpointRMS) Reset() {
	r.sumSq = 0
	r.samples = 0
}
