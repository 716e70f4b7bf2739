package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/novacore/internal/metrics"
)

// Registry maps metric names to constructors taking the temperature setpoint.
type Registry struct {
	metrics map[string]func(setpoint float64) metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(float64) metrics.Metric),
	}

	r.metrics["peak_co2"] = func(float64) metrics.Metric { return metrics.NewPeakCO2() }
	r.metrics["mean_co2"] = func(float64) metrics.Metric { return metrics.NewMeanCO2() }
	r.metrics["o2_regenerated"] = func(float64) metrics.Metric { return metrics.NewO2Regenerated() }
	r.metrics["setpoint_rms"] = func(sp float64) metrics.Metric { return metrics.NewSetpointRMS(sp) }
	r.metrics["stability"] = func(sp float64) metrics.Metric {
		return metrics.NewStability(sp, metrics.DefaultStabilityBand)
	}

	return r
}

func (r *Registry) GetMetric(name string, setpoint float64) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(setpoint), nil
}

// Metrics builds the named metrics; an empty list yields every registered one.
func (r *Registry) Metrics(names []string, setpoint float64) ([]metrics.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]metrics.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, setpoint)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
