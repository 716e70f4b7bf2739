package loop

// Sample is one row of a trajectory and the state carried between steps.
type Sample struct {
	Time     float64 `json:"time_s"`
	CO2      float64 `json:"co2_mol"`
	O2       float64 `json:"o2_mol"`
	Temp     float64 `json:"temp_c"`
	Humidity float64 `json:"humidity_au"`
}

// Advance computes the next row from prev. Temperature and humidity react to
// the net CO₂ change of the step, i.e. after scrubbing, not to the raw
// production term. Time is carried over unchanged; Simulate stamps it.
//
// Every product is wrapped in an explicit float64 conversion so the compiler
// cannot fuse it into a multiply-add; rounding is identical on every GOARCH.
func (p Params) Advance(prev Sample) Sample {
	co2 := prev.CO2 + float64(p.MetabolicRate*p.Dt)
	scrubbed := float64(p.ScrubEfficiency * co2 * p.Dt)
	co2 -= scrubbed

	o2 := prev.O2 + float64(scrubbed*p.PhotosynthesisYield)

	dCO2 := co2 - prev.CO2

	temp := prev.Temp + float64(p.HeatCoeff*dCO2)
	temp -= float64(p.RadCoeff * (prev.Temp - p.TempSetpoint))

	hum := prev.Humidity + float64(p.HumCoeff*dCO2)
	hum -= float64(p.CondCoeff * prev.Humidity)

	return Sample{
		Time:     prev.Time,
		CO2:      co2,
		O2:       o2,
		Temp:     temp,
		Humidity: hum,
	}
}

// Simulate integrates p.Steps() rows starting from p.Initial().
func Simulate(p Params) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Steps()
	tr := newTrajectory(n)

	x := p.Initial()
	tr.set(0, x)
	for i := 1; i < n; i++ {
		x = p.Advance(x)
		x.Time = float64(i) * p.Dt
		tr.set(i, x)
	}

	return tr, nil
}
