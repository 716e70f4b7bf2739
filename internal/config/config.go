package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/novacore/internal/loop"
)

const DefaultDurationMin = 60.0

type Config struct {
	// DurationMin takes precedence over Duration when positive.
	DurationMin float64           `yaml:"duration_min,omitempty"`
	Duration    float64           `yaml:"duration,omitempty"`
	Dt          float64           `yaml:"dt"`
	Gas         GasConfig         `yaml:"gas"`
	Environment EnvironmentConfig `yaml:"environment"`
	Display     DisplayConfig     `yaml:"display"`
}

type GasConfig struct {
	MetabolicRate       float64 `yaml:"metabolic_rate"`
	ScrubEfficiency     float64 `yaml:"scrub_efficiency"`
	PhotosynthesisYield float64 `yaml:"photosynthesis_yield"`
}

type EnvironmentConfig struct {
	TempSetpoint float64 `yaml:"temp_setpoint"`
	HeatCoeff    float64 `yaml:"heat_coeff"`
	RadCoeff     float64 `yaml:"rad_coeff"`
	HumCoeff     float64 `yaml:"hum_coeff"`
	CondCoeff    float64 `yaml:"cond_coeff"`
}

type DisplayConfig struct {
	LogScale bool `yaml:"log_scale"`
	ShowCSV  bool `yaml:"show_csv"`
}

func DefaultConfig() *Config {
	return &Config{
		DurationMin: DefaultDurationMin,
		Duration:    loop.DefaultDuration,
		Dt:          loop.DefaultDt,
		Gas: GasConfig{
			MetabolicRate:       loop.DefaultMetabolicRate,
			ScrubEfficiency:     loop.DefaultScrubEfficiency,
			PhotosynthesisYield: loop.DefaultPhotosynthesisYield,
		},
		Environment: EnvironmentConfig{
			TempSetpoint: loop.DefaultTempSetpoint,
			HeatCoeff:    loop.DefaultHeatCoeff,
			RadCoeff:     loop.DefaultRadCoeff,
			HumCoeff:     loop.DefaultHumCoeff,
			CondCoeff:    loop.DefaultCondCoeff,
		},
		Display: DisplayConfig{
			LogScale: true,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys absent from the file
// keep base's values. A file sets the run length with either duration or
// duration_min; a bare duration switches off base's minutes.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var keys struct {
		DurationMin *float64 `yaml:"duration_min"`
		Duration    *float64 `yaml:"duration"`
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	switch {
	case keys.Duration != nil && keys.DurationMin != nil && *keys.DurationMin > 0:
		return nil, fmt.Errorf("parse %s: set duration or duration_min, not both", path)
	case keys.Duration != nil && keys.DurationMin == nil:
		cfg.DurationMin = 0
	}
	return cfg, nil
}

// Save writes cfg with only the active run-length key.
func Save(path string, cfg *Config) error {
	out := cfg.Clone()
	if out.DurationMin > 0 {
		out.Duration = 0
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// DurationSeconds resolves the run length. Minutes are truncated to whole
// seconds, as the slider-driven runs always were.
func (c *Config) DurationSeconds() float64 {
	if c.DurationMin > 0 {
		return math.Trunc(c.DurationMin * 60)
	}
	return c.Duration
}

func (c *Config) Params() loop.Params {
	return loop.Params{
		Duration:            c.DurationSeconds(),
		Dt:                  c.Dt,
		MetabolicRate:       c.Gas.MetabolicRate,
		ScrubEfficiency:     c.Gas.ScrubEfficiency,
		PhotosynthesisYield: c.Gas.PhotosynthesisYield,
		HeatCoeff:           c.Environment.HeatCoeff,
		RadCoeff:            c.Environment.RadCoeff,
		HumCoeff:            c.Environment.HumCoeff,
		CondCoeff:           c.Environment.CondCoeff,
		TempSetpoint:        c.Environment.TempSetpoint,
	}
}
