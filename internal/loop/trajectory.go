package loop

import "slices"

// Trajectory holds the five equal-length series of one run. It is filled once
// by Simulate; accessors hand out copies.
type Trajectory struct {
	time []float64
	co2  []float64
	o2   []float64
	temp []float64
	hum  []float64
}

func newTrajectory(n int) *Trajectory {
	return &Trajectory{
		time: make([]float64, n),
		co2:  make([]float64, n),
		o2:   make([]float64, n),
		temp: make([]float64, n),
		hum:  make([]float64, n),
	}
}

func (tr *Trajectory) set(i int, s Sample) {
	tr.time[i] = s.Time
	tr.co2[i] = s.CO2
	tr.o2[i] = s.O2
	tr.temp[i] = s.Temp
	tr.hum[i] = s.Humidity
}

func (tr *Trajectory) Len() int { return len(tr.time) }

func (tr *Trajectory) Times() []float64    { return slices.Clone(tr.time) }
func (tr *Trajectory) CO2() []float64      { return slices.Clone(tr.co2) }
func (tr *Trajectory) O2() []float64       { return slices.Clone(tr.o2) }
func (tr *Trajectory) Temp() []float64     { return slices.Clone(tr.temp) }
func (tr *Trajectory) Humidity() []float64 { return slices.Clone(tr.hum) }

// TimeMinutes returns the time axis in minutes.
func (tr *Trajectory) TimeMinutes() []float64 {
	out := make([]float64, len(tr.time))
	for i, t := range tr.time {
		out[i] = t / 60
	}
	return out
}

// Sample returns row i. It panics if i is out of range.
func (tr *Trajectory) Sample(i int) Sample {
	return Sample{
		Time:     tr.time[i],
		CO2:      tr.co2[i],
		O2:       tr.o2[i],
		Temp:     tr.temp[i],
		Humidity: tr.hum[i],
	}
}

// Final returns the last row, or the zero Sample for an empty trajectory.
func (tr *Trajectory) Final() Sample {
	if tr.Len() == 0 {
		return Sample{}
	}
	return tr.Sample(tr.Len() - 1)
}

// Each calls fn for every row in order.
func (tr *Trajectory) Each(fn func(i int, s Sample)) {
	for i := range tr.time {
		fn(i, tr.Sample(i))
	}
}

// Summary holds the end-of-run values shown next to the charts.
type Summary struct {
	Steps         int     `json:"steps"`
	FinalCO2      float64 `json:"final_co2_mol"`
	FinalO2       float64 `json:"final_o2_mol"`
	FinalTemp     float64 `json:"final_temp_c"`
	FinalHumidity float64 `json:"final_humidity_au"`
}

func (tr *Trajectory) Summary() Summary {
	f := tr.Final()
	return Summary{
		Steps:         tr.Len(),
		FinalCO2:      f.CO2,
		FinalO2:       f.O2,
		FinalTemp:     f.Temp,
		FinalHumidity: f.Humidity,
	}
}
