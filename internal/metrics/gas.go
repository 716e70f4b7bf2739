package metrics

import (
	"math"

	"github.com/san-kum/novacore/internal/loop"
)

type PeakCO2 struct {
	peak    float64
	samples int
}

func NewPeakCO2() *PeakCO2 {
	return &PeakCO2{peak: math.Inf(-1)}
}

func (p *PeakCO2) Name() string { return "peak_co2" }

func (p *PeakCO2) Observe(s loop.Sample) {
	p.peak = math.Max(p.peak, s.CO2)
	p.samples++
}

func (p *PeakCO2) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.peak
}

func (p *PeakCO2) Reset() {
	p.peak = math.Inf(-1)
	p.samples = 0
}

type MeanCO2 struct {
	sum     float64
	samples int
}

func NewMeanCO2() *MeanCO2 {
	return &MeanCO2{}
}

func (m *MeanCO2) Name() string { return "mean_co2" }

func (m *MeanCO2) Observe(s loop.Sample) {
	m.sum += s.CO2
	m.samples++
}

func (m *MeanCO2) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanCO2) Reset() {
	m.sum = 0
	m.samples = 0
}

// O2Regenerated is the O₂ gained between the first and last observed sample.
type O2Regenerated struct {
	first, last float64
	samples     int
}

func NewO2Regenerated() *O2Regenerated {
	return &O2Regenerated{}
}

func (o *O2Regenerated) Name() string { return "o2_regenerated" }

func (o *O2Regenerated) Observe(s loop.Sample) {
	if o.samples == 0 {
		o.first = s.O2
	}
	o.last = s.O2
	o.samples++
}

func (o *O2Regenerated) Value() float64 {
	return o.last - o.first
}

func (o *O2Regenerated) Reset() {
	o.first, o.last = 0, 0
	o.samples = 0
}
