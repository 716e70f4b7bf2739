// Package plot renders trajectories as terminal charts.
package plot

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/novacore/internal/loop"
)

// LinThresh is the linear region of the symmetric-log gas axis.
const LinThresh = 1e-4

type Options struct {
	Height   int
	Width    int
	LogScale bool
}

func DefaultOptions() Options {
	return Options{Height: 12, Width: 80, LogScale: true}
}

// Symlog maps v onto a symmetric log axis: linear inside ±linthresh, one
// decade per unit outside it.
func Symlog(v, linthresh float64) float64 {
	a := math.Abs(v)
	if a <= linthresh {
		return v / linthresh
	}
	return math.Copysign(1+math.Log10(a/linthresh), v)
}

// Downsample averages series into at most width buckets.
func Downsample(series []float64, width int) []float64 {
	if width <= 0 || len(series) <= width {
		return append([]float64(nil), series...)
	}
	out := make([]float64, width)
	for b := 0; b < width; b++ {
		lo := b * len(series) / width
		hi := (b + 1) * len(series) / width
		sum := 0.0
		for _, v := range series[lo:hi] {
			sum += v
		}
		out[b] = sum / float64(hi-lo)
	}
	return out
}

func (o Options) chart(series [][]float64, caption string, colors []asciigraph.AnsiColor, legends []string) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	data := make([][]float64, len(series))
	for i, s := range series {
		data[i] = Downsample(s, o.Width)
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(o.Height),
		asciigraph.Width(o.Width),
		asciigraph.Precision(4),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

// GasChart plots CO₂ and O₂, through Symlog when o.LogScale is set.
func GasChart(co2, o2 []float64, o Options) string {
	caption := "gas (mol) vs time"
	if o.LogScale {
		caption = "gas (symlog mol) vs time"
		co2 = symlogSeries(co2)
		o2 = symlogSeries(o2)
	}
	return o.chart([][]float64{co2, o2}, caption,
		[]asciigraph.AnsiColor{asciigraph.Red, asciigraph.Cyan},
		[]string{"CO₂ (mol)", "O₂ (mol)"})
}

// EnvironmentChart plots temperature and humidity.
func EnvironmentChart(temp, hum []float64, o Options) string {
	return o.chart([][]float64{temp, hum}, "temp / humidity vs time",
		[]asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.Green},
		[]string{"Temp (°C)", "Humidity (a.u.)"})
}

func Gas(tr *loop.Trajectory, o Options) string {
	return GasChart(tr.CO2(), tr.O2(), o)
}

func Environment(tr *loop.Trajectory, o Options) string {
	return EnvironmentChart(tr.Temp(), tr.Humidity(), o)
}

func symlogSeries(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = Symlog(v, LinThresh)
	}
	return out
}

// Summary formats the final values the way the metric tiles show them.
func Summary(s loop.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "final CO₂ (mol):  %.6f\n", s.FinalCO2)
	fmt.Fprintf(&b, "final O₂ (mol):   %.3f\n", s.FinalO2)
	fmt.Fprintf(&b, "final temp (°C):  %.2f\n", s.FinalTemp)
	fmt.Fprintf(&b, "final humidity:   %.3f\n", s.FinalHumidity)
	return b.String()
}

// Metrics formats metric values sorted by name.
func Metrics(m map[string]float64) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %.6f\n", name, m[name])
	}
	return b.String()
}
