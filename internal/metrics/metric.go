package metrics

import "github.com/san-kum/novacore/internal/loop"

// Metric reduces a trajectory to one number, one sample at a time.
type Metric interface {
	Name() string
	Observe(s loop.Sample)
	Value() float64
	Reset()
}

// DefaultStabilityBand is the ±°C window used by Default.
const DefaultStabilityBand = 0.5

// Default returns a fresh set of the standard run metrics.
func Default(setpoint float64) []Metric {
	return []Metric{
		NewPeakCO2(),
		NewMeanCO2(),
		NewO2Regenerated(),
		NewSetpointRMS(setpoint),
		NewStability(setpoint, DefaultStabilityBand),
	}
}
