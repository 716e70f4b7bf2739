package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/novacore/internal/config"
	"github.com/san-kum/novacore/internal/experiment"
	"github.com/san-kum/novacore/internal/loop"
	"github.com/san-kum/novacore/internal/plot"
	"github.com/san-kum/novacore/internal/telemetry"
)

// paramFlags are the YAML names exposed as flags; the flag spelling swaps
// underscores for dashes.
var paramFlags = append([]string{"dt"}, config.ParamNames...)

func flagName(param string) string { return strings.ReplaceAll(param, "_", "-") }

func addParamFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	for _, name := range paramFlags {
		v, _ := def.Get(name)
		cmd.PersistentFlags().Float64(flagName(name), v, strings.ReplaceAll(name, "_", " "))
	}
}

// resolveConfig layers defaults, --preset, --config and explicitly set
// parameter flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	for _, name := range paramFlags {
		f := flagName(name)
		if !flags.Changed(f) {
			continue
		}
		v, err := flags.GetFloat64(f)
		if err != nil {
			return nil, err
		}
		if err := cfg.Set(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runExperiment simulates p with the metrics named by --metrics, or the
// default set when none are named.
func runExperiment(ctx context.Context, p loop.Params, log *slog.Logger) (*experiment.Result, error) {
	if len(metricNames) == 0 {
		return experiment.Run(ctx, p, log)
	}

	ms, err := experiment.NewRegistry().Metrics(metricNames, p.TempSetpoint)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(p, log)
	for _, m := range ms {
		exp.AddMetric(m)
	}
	return exp.Run(ctx)
}

func simulate(cmd *cobra.Command, log *slog.Logger) (*experiment.Result, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	return runExperiment(cmd.Context(), cfg.Params(), log)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	p := cfg.Params()
	fmt.Printf("simulating %.0f s at dt %g...\n", p.Duration, p.Dt)
	result, err := runExperiment(cmd.Context(), p, newLogger())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", result.ID)
	fmt.Printf("steps: %d\n\n", result.Summary.Steps)
	fmt.Print(plot.Summary(result.Summary))
	fmt.Println("\nmetrics:")
	fmt.Print(plot.Metrics(result.Metrics))

	if cfg.Display.ShowCSV {
		fmt.Println()
		return telemetry.WriteCSV(os.Stdout, result.Trajectory)
	}
	return nil
}

func plotSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-scale") {
		logScale = cfg.Display.LogScale
	}

	result, err := runExperiment(cmd.Context(), cfg.Params(), newLogger())
	if err != nil {
		return err
	}

	opts := plot.Options{Height: height, Width: max(width, 2), LogScale: logScale}
	fmt.Printf("run: %s\n\n", result.ID)
	fmt.Println(plot.Gas(result.Trajectory, opts))
	fmt.Println()
	fmt.Println(plot.Environment(result.Trajectory, opts))
	fmt.Println()
	fmt.Print(plot.Summary(result.Summary))
	return nil
}

type exportFunc func(w io.Writer, result *experiment.Result) error

func exporter(name string) (exportFunc, error) {
	switch name {
	case "csv":
		return func(w io.Writer, result *experiment.Result) error {
			return telemetry.WriteCSV(w, result.Trajectory)
		}, nil
	case "json":
		return telemetry.WriteJSON, nil
	}
	return nil, fmt.Errorf("unknown format: %s (csv, json)", name)
}

func exportSimulation(cmd *cobra.Command, args []string) error {
	write, err := exporter(format)
	if err != nil {
		return err
	}

	result, err := simulate(cmd, newLogger())
	if err != nil {
		return err
	}

	if outPath == "" {
		return write(os.Stdout, result)
	}
	if err := exportFile(outPath, result, write); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d rows to %s\n", result.Summary.Steps, outPath)
	return nil
}

// exportFile writes result to path and removes the file if writing fails.
func exportFile(path string, result *experiment.Result, write exportFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, result); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tMETABOLIC\tSCRUB\tYIELD\tSETPOINT\tHEAT\tRAD\tHUM\tCOND")

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Params()
		fmt.Fprintf(w, "%s\t%.0fs\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
			name,
			p.Duration,
			p.MetabolicRate,
			p.ScrubEfficiency,
			p.PhotosynthesisYield,
			p.TempSetpoint,
			p.HeatCoeff,
			p.RadCoeff,
			p.HumCoeff,
			p.CondCoeff,
		)
	}

	return w.Flush()
}

func listMetrics(cmd *cobra.Command, args []string) error {
	for _, name := range experiment.NewRegistry().ListMetrics() {
		fmt.Println(name)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
