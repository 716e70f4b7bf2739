package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/novacore/internal/logging"
	"github.com/san-kum/novacore/internal/server"
	"github.com/san-kum/novacore/internal/telemetry"
	"github.com/san-kum/novacore/internal/viz"
)

var (
	configFile string
	presetName string
	logLevel   string

	metricNames []string

	logScale bool
	height   int
	width    int

	format  string
	outPath string

	addr     string
	maxSteps int

	brokers   []string
	topic     string
	batchSize int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "novacore",
		Short:        "closed-loop life support simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&presetName, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.StringSliceVar(&metricNames, "metrics", nil, "metrics to compute (default all)")
	addParamFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation and print the summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "simulate and chart gas and environment",
		Args:  cobra.NoArgs,
		RunE:  plotSimulation,
	}
	plotCmd.Flags().BoolVar(&logScale, "log-scale", true, "symlog gas axis")
	plotCmd.Flags().IntVar(&height, "height", 12, "chart height")
	plotCmd.Flags().IntVar(&width, "width", 80, "chart width")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "simulate and export telemetry",
		Args:  cobra.NoArgs,
		RunE:  exportSimulation,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve simulations over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&maxSteps, "max-steps", server.DefaultMaxSteps, "largest trajectory a request may ask for")

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "simulate and stream telemetry to Kafka",
		Args:  cobra.NoArgs,
		RunE:  publish,
	}
	publishCmd.Flags().StringSliceVar(&brokers, "brokers", []string{"localhost:9092"}, "kafka brokers")
	publishCmd.Flags().StringVar(&topic, "topic", "novacore.telemetry", "kafka topic")
	publishCmd.Flags().IntVar(&batchSize, "batch-size", telemetry.DefaultBatchSize, "messages per write")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "list available metrics",
		Args:  cobra.NoArgs,
		RunE:  listMetrics,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	})

	rootCmd.AddCommand(runCmd, plotCmd, exportCmd, liveCmd, serveCmd, publishCmd, presetsCmd, metricsCmd, configCmd)
	return rootCmd
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logLevel, os.Stderr)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// the dashboard owns the terminal
	return viz.RunInteractive(cfg, logging.NewLogger(logLevel, io.Discard))
}

func serve(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(log, server.Options{MaxSteps: maxSteps, AccessLog: os.Stderr})
	if err := s.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func publish(cmd *cobra.Command, args []string) error {
	log := newLogger()
	result, err := simulate(cmd, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := telemetry.NewPublisher(telemetry.NewKafkaWriter(brokers, topic), log, batchSize)
	defer p.Close()

	n, err := p.Publish(ctx, result)
	if err != nil {
		return err
	}
	fmt.Printf("published %d samples of run %s to %s\n", n, result.ID, topic)
	return nil
}
