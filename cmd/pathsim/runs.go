package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pathsim/internal/anim"
	"github.com/san-kum/pathsim/internal/automation"
	"github.com/san-kum/pathsim/internal/export"
	"github.com/san-kum/pathsim/internal/metrics"
	"github.com/san-kum/pathsim/internal/storage"
	"github.com/san-kum/pathsim/internal/viz"
	"github.com/san-kum/pathsim/internal/walk"
	"github.com/spf13/cobra"
)

const (
	mapCols = 40
	mapRows = 20
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFLOOR\tPATHS\tPOINTS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%d\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Floor.Width, run.Floor.Length,
			run.Paths,
			run.Points,
			run.Seed,
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// loadRun returns the named run, or the latest one when args is empty.
func loadRun(args []string) (*storage.RunMetadata, walk.PathSet, error) {
	st := storage.New(dataDir)

	var meta *storage.RunMetadata
	var err error
	if len(args) == 1 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("no runs in %s; try: pathsim generate --save", dataDir)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	paths, err := st.LoadPaths(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	return meta, paths, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, paths, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("floor: %dx%d, seed %d\n", meta.Floor.Width, meta.Floor.Length, meta.Seed)
	fmt.Printf("paths: %d, points: %d\n\n", len(paths), paths.TotalPoints())

	steps := make([]float64, len(paths))
	times := make([]float64, len(paths))
	for i, p := range paths {
		s := metrics.Stats(p)
		steps[i] = float64(s.Steps)
		times[i] = s.WalkTime.Seconds()
	}

	if len(paths) > 1 {
		fmt.Println(asciigraph.Plot(steps, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("steps per path")))
		fmt.Println()
		fmt.Println(asciigraph.Plot(times, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("walk time per path (s)")))
		fmt.Println()
	}

	a := anim.New(meta.Floor)
	a.Load(paths)
	a.Seek(a.MaxLen())
	canvas := viz.NewCanvas(floorMapSize(meta.Floor))
	a.Draw(canvas)
	fmt.Print(canvas.String())
	fmt.Println()

	printMetrics(meta.Metrics)
	return nil
}

// floorMapSize keeps the printed map near the floor's aspect.
func floorMapSize(b walk.FloorBounds) (int, int) {
	if !b.Valid() {
		return mapCols, mapRows
	}
	rows := int(float64(2*mapCols) * float64(b.Length) / float64(b.Width) / 4)
	return mapCols, max(1, min(rows, 3*mapRows))
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.3f\n", name, m[name])
	}
	w.Flush()
}

// output returns stdout or the --out file.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, paths, err := loadRun(args)
	if err != nil {
		return err
	}
	w, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, paths); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, paths, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no data to export")
	}
	w, closeOut, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportCSV(w, paths); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	meta, paths, err := loadRun(args)
	if err != nil {
		return err
	}

	svg := export.PathSetToSVG(paths, meta.Floor, cfg.Animation.CanvasWidth, cfg.Animation.CanvasHeight)
	if svg == "" {
		return fmt.Errorf("run %s has an empty floor", meta.ID)
	}
	w, closeOut, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, svg+"\n"); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func runBatch(cmd *cobra.Command, args []string) error {
	log, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := automation.RunScenario(ctx, scenario, st, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tPATHS\tPOINTS\tSTRAIGHT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\n", r.Step, r.RunID, r.Paths, r.Points, r.Metrics["straightness"])
	}
	w.Flush()
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
		Base:  cfg,
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tLENGTH\tSTRAIGHT\tDETOURS\n", sweepParam)
	straight := make([]float64, len(results))
	for i, r := range results {
		straight[i] = r.Metrics["straightness"]
		fmt.Fprintf(w, "%.3f\t%.1f\t%.1f\t%.3f\t%.2f\n",
			r.Value, r.Metrics["steps"], r.Metrics["path_length"], r.Metrics["straightness"], r.Metrics["detour_rate"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(straight) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(straight, asciigraph.Height(8), asciigraph.Width(50), asciigraph.Caption("straightness vs "+sweepParam)))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	seedStart := cfg.Seed
	if seedStart == 0 {
		seedStart = cfg.Generator().Seed()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runs, err := (&automation.Ensemble{Base: cfg, Runs: ensembleRuns, SeedStart: seedStart}).Run(ctx, log)
	if err != nil {
		return err
	}

	spread := automation.Summarize(runs)
	names := make([]string, 0, len(spread))
	for name := range spread {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%d runs, seeds %d..%d, %d paths each\n\n", len(runs), seedStart, seedStart+int64(len(runs))-1, cfg.Animation.Paths)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range names {
		s := spread[name]
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\n", name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}
