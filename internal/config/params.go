package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamNames lists the tunable parameters in panel order.
var ParamNames = []string{
	"duration_min",
	"metabolic_rate",
	"scrub_efficiency",
	"photosynthesis_yield",
	"temp_setpoint",
	"heat_coeff",
	"rad_coeff",
	"hum_coeff",
	"cond_coeff",
}

// Range is the slider span of one parameter.
type Range struct {
	Min, Max, Step float64
}

var Ranges = map[string]Range{
	"duration_min":         {10, 240, 5},
	"metabolic_rate":       {0, 0.002, 0.0001},
	"scrub_efficiency":     {0.05, 0.90, 0.05},
	"photosynthesis_yield": {0.5, 1.5, 0.1},
	"temp_setpoint":        {18, 26, 0.5},
	"heat_coeff":           {0, 1, 0.05},
	"rad_coeff":            {0, 0.2, 0.01},
	"hum_coeff":            {0, 1, 0.05},
	"cond_coeff":           {0, 0.05, 0.001},
}

// Clamp limits v to the range; names without a range pass through.
func Clamp(name string, v float64) float64 {
	r, ok := Ranges[name]
	if !ok {
		return v
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Snap moves v to the nearest slider stop, written with no more decimals
// than the step, so repeated nudges do not accumulate rounding error.
func Snap(name string, v float64) float64 {
	r, ok := Ranges[name]
	if !ok || r.Step <= 0 {
		return v
	}
	x := r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	step := strconv.FormatFloat(r.Step, 'f', -1, 64)
	prec := 0
	if i := strings.IndexByte(step, '.'); i >= 0 {
		prec = len(step) - i - 1
	}
	out, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', prec, 64), 64)
	if err != nil {
		return x
	}
	return out
}

func (c *Config) field(name string) (*float64, error) {
	switch name {
	case "duration_min":
		return &c.DurationMin, nil
	case "duration":
		return &c.Duration, nil
	case "dt":
		return &c.Dt, nil
	case "metabolic_rate":
		return &c.Gas.MetabolicRate, nil
	case "scrub_efficiency":
		return &c.Gas.ScrubEfficiency, nil
	case "photosynthesis_yield":
		return &c.Gas.PhotosynthesisYield, nil
	case "temp_setpoint":
		return &c.Environment.TempSetpoint, nil
	case "heat_coeff":
		return &c.Environment.HeatCoeff, nil
	case "rad_coeff":
		return &c.Environment.RadCoeff, nil
	case "hum_coeff":
		return &c.Environment.HumCoeff, nil
	case "cond_coeff":
		return &c.Environment.CondCoeff, nil
	}
	return nil, fmt.Errorf("unknown parameter: %s", name)
}

func (c *Config) Get(name string) (float64, error) {
	f, err := c.field(name)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// Set assigns a parameter by its YAML name. Setting duration clears
// duration_min so the seconds value takes effect.
func (c *Config) Set(name string, v float64) error {
	f, err := c.field(name)
	if err != nil {
		return err
	}
	*f = v
	if name == "duration" {
		c.DurationMin = 0
	}
	return nil
}
