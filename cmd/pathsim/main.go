package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pathsim/internal/automation"
	"github.com/san-kum/pathsim/internal/config"
	"github.com/san-kum/pathsim/internal/logging"
	"github.com/san-kum/pathsim/internal/metrics"
	"github.com/san-kum/pathsim/internal/server"
	"github.com/san-kum/pathsim/internal/storage"
	"github.com/san-kum/pathsim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	// Generation settings, applied over preset and config file when set
	configFile   string
	preset       string
	numPaths     int
	speed        float64
	seed         int64
	floorWidth   int
	floorLength  int
	canvasWidth  int
	canvasHeight int
	// generate
	save     bool
	asJSON   bool
	saveName string
	// export
	outFile string
	// serve
	addr string
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// ensemble
	ensembleRuns int
)

// main registers commands and flags and opens the preset picker when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "pathsim",
		Short:         "synthetic pedestrian paths on a floor plan",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPicker,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".pathsim", "data directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "floor preset")
	pf.IntVar(&numPaths, "paths", config.DefaultPaths, "number of paths")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "playback speed, frames per second (1-100)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.IntVar(&floorWidth, "floor-width", config.DefaultFloorWidth, "floor width in grid units")
	pf.IntVar(&floorLength, "floor-length", config.DefaultFloorLength, "floor length in grid units")
	pf.IntVar(&canvasWidth, "canvas-width", config.DefaultCanvasWidth, "canvas width in pixels")
	pf.IntVar(&canvasHeight, "canvas-height", config.DefaultCanvasHeight, "canvas height in pixels")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate paths in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a path set and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	generateCmd.Flags().StringVar(&saveName, "name", "run", "run name when saving")
	generateCmd.Flags().BoolVar(&asJSON, "json", false, "print the path set as json")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run points to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the walked paths of a run as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	for _, c := range []*cobra.Command{exportJSONCmd, exportCSVCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list floor presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	saveConfigCmd := &cobra.Command{
		Use:   "save-config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted list of generations and save each",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure path metrics across a range of one walk parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "path_variance", "parameter ("+strings.Join(automation.SweepParams(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "generate path sets over consecutive seeds and summarize their metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 16, "number of seeds")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream animations to browsers over websocket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(liveCmd, generateCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		presetsCmd, saveConfigCmd, batchCmd, sweepCmd, ensembleCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("paths") {
		cfg.Animation.Paths = numPaths
	}
	if flags.Changed("speed") {
		cfg.Animation.Speed = speed
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("floor-width") {
		cfg.Floor.Width = floorWidth
	}
	if flags.Changed("floor-length") {
		cfg.Floor.Length = floorLength
	}
	if flags.Changed("canvas-width") {
		cfg.Animation.CanvasWidth = canvasWidth
	}
	if flags.Changed("canvas-height") {
		cfg.Animation.CanvasHeight = canvasHeight
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*logrus.Logger, error) {
	return logging.New(level, os.Stderr)
}

// fileLogger is for the terminal viewer, which owns stdout and stderr.
func fileLogger(level string) (*logrus.Logger, io.Closer, error) {
	return logging.NewFile(level, dataDir)
}

func runPicker(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := fileLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	_, err = tea.NewProgram(viz.NewPresetPicker(cfg, log), tea.WithAltScreen()).Run()
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := fileLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.WithFields(logrus.Fields{
		"preset": cfg.Preset,
		"floor":  fmt.Sprintf("%dx%d", cfg.Floor.Width, cfg.Floor.Length),
		"paths":  cfg.Animation.Paths,
	}).Info("viewer started")

	_, err = tea.NewProgram(viz.NewModel(cfg, log), tea.WithAltScreen()).Run()
	return err
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	gen := cfg.Generator()
	paths := gen.GenerateMultiplePaths(cfg.Animation.Paths)
	m := metrics.Evaluate(paths)
	log.WithFields(logrus.Fields{"paths": len(paths), "points": paths.TotalPoints(), "seed": gen.Seed()}).Debug("generated")

	if asJSON {
		return storage.ExportJSON(os.Stdout, nil, paths)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSTART\tEND\tSTEPS\tLENGTH\tSTRAIGHT\tWALK")
	for i, p := range paths {
		s := metrics.Stats(p)
		fmt.Fprintf(w, "%d\t(%d,%d)\t(%d,%d)\t%d\t%.1f\t%.2f\t%s\n",
			i+1, p.Start().X, p.Start().Y, p.End().X, p.End().Y,
			s.Steps, s.Length, s.Straightness, s.WalkTime.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nseed %d, %d points\n", gen.Seed(), paths.TotalPoints())
	printMetrics(m)

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		Name:   saveName,
		Preset: cfg.Preset,
		Seed:   gen.Seed(),
		Floor:  cfg.Bounds(),
		Params: gen.Params(),
	}, paths, m)
	if err != nil {
		return err
	}
	log.WithField("run", runID).Info("run saved")
	fmt.Printf("saved run: %s\n", runID)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFLOOR\tPATHS\tSPEED\tSTEP\tVARIANCE")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%.0f\t%.1f\t%.2f\n",
			name, p.Floor.Width, p.Floor.Length, p.Animation.Paths, p.Animation.Speed,
			p.Walk.StepLength, p.Walk.PathVariance)
	}
	return w.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, server.WithLogger(log)).ListenAndServe(ctx, addr)
}
