package loop

import "math"

const (
	DefaultDuration            = 3600.0
	DefaultDt                  = 1.0
	DefaultMetabolicRate       = 0.0005
	DefaultScrubEfficiency     = 0.3
	DefaultPhotosynthesisYield = 1.0
	DefaultHeatCoeff           = 0.5
	DefaultRadCoeff            = 0.01
	DefaultHumCoeff            = 0.5
	DefaultCondCoeff           = 0.001
	DefaultTempSetpoint        = 22.0

	// MaxSteps bounds the five series to a few gigabytes.
	MaxSteps = 50_000_000
)

// Params is the full input of one run. Duration and Dt are in seconds.
type Params struct {
	Duration            float64 `json:"duration"`
	Dt                  float64 `json:"dt"`
	MetabolicRate       float64 `json:"metabolic_rate"`       // mol CO2/s
	ScrubEfficiency     float64 `json:"scrub_efficiency"`     // fraction/s
	PhotosynthesisYield float64 `json:"photosynthesis_yield"` // mol O2 per mol CO2 scrubbed
	HeatCoeff           float64 `json:"heat_coeff"`           // °C per mol CO2 delta
	RadCoeff            float64 `json:"rad_coeff"`            // per step
	HumCoeff            float64 `json:"hum_coeff"`            // a.u. per mol CO2 delta
	CondCoeff           float64 `json:"cond_coeff"`           // per step
	TempSetpoint        float64 `json:"temp_setpoint"`        // °C
}

func DefaultParams() Params {
	return Params{
		Duration:            DefaultDuration,
		Dt:                  DefaultDt,
		MetabolicRate:       DefaultMetabolicRate,
		ScrubEfficiency:     DefaultScrubEfficiency,
		PhotosynthesisYield: DefaultPhotosynthesisYield,
		HeatCoeff:           DefaultHeatCoeff,
		RadCoeff:            DefaultRadCoeff,
		HumCoeff:            DefaultHumCoeff,
		CondCoeff:           DefaultCondCoeff,
		TempSetpoint:        DefaultTempSetpoint,
	}
}

type field struct {
	name  string
	value float64
}

func (p Params) fields() []field {
	return []field{
		{"duration", p.Duration},
		{"dt", p.Dt},
		{"metabolic_rate", p.MetabolicRate},
		{"scrub_efficiency", p.ScrubEfficiency},
		{"photosynthesis_yield", p.PhotosynthesisYield},
		{"heat_coeff", p.HeatCoeff},
		{"rad_coeff", p.RadCoeff},
		{"hum_coeff", p.HumCoeff},
		{"cond_coeff", p.CondCoeff},
		{"temp_setpoint", p.TempSetpoint},
	}
}

// Validate rejects non-finite values, a non-positive step or duration, and a
// duration shorter than one step or longer than MaxSteps steps.
// Coefficients of any sign are accepted.
func (p Params) Validate() error {
	for _, f := range p.fields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ParamError{Field: f.name, Value: f.value, Reason: "must be finite"}
		}
	}
	if p.Dt <= 0 {
		return &ParamError{Field: "dt", Value: p.Dt, Reason: "must be positive"}
	}
	if p.Duration <= 0 {
		return &ParamError{Field: "duration", Value: p.Duration, Reason: "must be positive"}
	}
	if n := p.Duration / p.Dt; n > MaxSteps {
		return &ParamError{Field: "duration", Value: p.Duration, Reason: "too many steps for dt"}
	}
	if p.Steps() < 1 {
		return &ParamError{Field: "duration", Value: p.Duration, Reason: "shorter than one step"}
	}
	return nil
}

// Steps is floor(Duration/Dt), the length of every trajectory series.
func (p Params) Steps() int {
	return int(math.Floor(p.Duration / p.Dt))
}

// Initial is the index-0 row: empty gas loop at the temperature setpoint.
func (p Params) Initial() Sample {
	return Sample{Temp: p.TempSetpoint}
}
