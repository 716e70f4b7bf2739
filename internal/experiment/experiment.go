package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/novacore/internal/loop"
	"github.com/san-kum/novacore/internal/metrics"
)

// Result is everything one run produces.
type Result struct {
	ID         string             `json:"id"`
	Params     loop.Params        `json:"params"`
	Trajectory *loop.Trajectory   `json:"-"`
	Summary    loop.Summary       `json:"summary"`
	Metrics    map[string]float64 `json:"metrics"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
}

// Experiment runs one parameter set and reduces it with its metrics.
type Experiment struct {
	params  loop.Params
	metrics []metrics.Metric
	log     *slog.Logger
}

func New(params loop.Params, log *slog.Logger) *Experiment {
	if log == nil {
		log = slog.Default()
	}
	return &Experiment{
		params:  params,
		metrics: make([]metrics.Metric, 0),
		log:     log,
	}
}

func (e *Experiment) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := e.log.With("run", id)
	log.Debug("run starting", "steps", e.params.Steps(), "dt", e.params.Dt)

	start := time.Now()
	tr, err := loop.Simulate(e.params)
	if err != nil {
		log.Warn("run rejected", "err", err)
		return nil, fmt.Errorf("simulate: %w", err)
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	tr.Each(func(_ int, s loop.Sample) {
		for _, m := range e.metrics {
			m.Observe(s)
		}
	})

	result := &Result{
		ID:         id,
		Params:     e.params,
		Trajectory: tr,
		Summary:    tr.Summary(),
		Metrics:    make(map[string]float64, len(e.metrics)),
		Elapsed:    time.Since(start),
	}
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Info("run complete", "steps", result.Summary.Steps, "elapsed", result.Elapsed)
	return result, nil
}

// Run is a shorthand for a single run with the default metric set.
func Run(ctx context.Context, params loop.Params, log *slog.Logger) (*Result, error) {
	exp := New(params, log)
	for _, m := range metrics.Default(params.TempSetpoint) {
		exp.AddMetric(m)
	}
	return exp.Run(ctx)
}
