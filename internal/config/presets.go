package config

import "sort"

func preset(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

var Presets = map[string]*Config{
	"nominal": DefaultConfig(),
	"crew-surge": preset(func(c *Config) {
		c.Gas.MetabolicRate = 0.0015
		c.DurationMin = 120
	}),
	"degraded-scrubber": preset(func(c *Config) {
		c.Gas.ScrubEfficiency = 0.05
		c.Gas.PhotosynthesisYield = 0.8
	}),
	"radiator-fault": preset(func(c *Config) {
		c.Environment.RadCoeff = 0
		c.Environment.HeatCoeff = 1.0
		c.Gas.ScrubEfficiency = 0.1
	}),
	"dry-cabin": preset(func(c *Config) {
		c.Environment.CondCoeff = 0.05
		c.Environment.HumCoeff = 0.2
		c.DurationMin = 240
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
