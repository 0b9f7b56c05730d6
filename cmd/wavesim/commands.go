package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/analysis"
	"github.com/san-kum/wavesim/internal/automation"
	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/export"
	"github.com/san-kum/wavesim/internal/gui"
	"github.com/san-kum/wavesim/internal/optim"
	"github.com/san-kum/wavesim/internal/render"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/viz"
	"github.com/san-kum/wavesim/internal/web"
)

func newSimulation(cfg *config.Config, opts ...sim.Option) (*sim.Simulation, error) {
	params, err := parseParams()
	if err != nil {
		return nil, err
	}
	s, err := sim.New(cfg, append([]sim.Option{sim.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for name, v := range params {
		if err := s.Apply(sim.SetParam(name, v)); err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
	}
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	params, err := parseParams()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(experiment.Config{
		Preset:    name,
		Sim:       cfg,
		Steps:     cfg.Steps,
		Params:    params,
		MeasureAt: measureAt,
		Frame:     true,
	}, logger)
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Solver)
	run, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	runID, err := st.Save(run)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %.2fs\n", run.Meta.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", run.Meta.Steps)
	if run.Meta.Diverged {
		fmt.Println("warning: field diverged")
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(run.Meta.Metrics))
	for k := range run.Meta.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %s: %.6g\n", k, run.Meta.Metrics[k])
	}
	a := run.Meta.Analysis
	fmt.Printf("\nfringes: spacing %.2f cells, visibility %.3f, %d peaks\n", a.Spacing, a.Visibility, a.Peaks)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		_, name, err := viz.PickPreset()
		if errors.Is(err, viz.ErrNoSelection) {
			return nil
		}
		if err != nil {
			return err
		}
		preset = name
	}
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	return viz.Run(s, viz.Options{
		FPS:     cfg.Render.FPS,
		GIFPath: gifPath,
		ShotDir: dataDir,
		Logger:  logger,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	return gui.Run(backend, s, gui.Options{
		FPS:     cfg.Render.FPS,
		GIFPath: gifPath,
		ShotDir: dataDir,
		Logger:  logger,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	collectors := web.NewCollectors()
	s, err := newSimulation(cfg, sim.WithObserver(collectors))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.New(s, collectors, web.Options{FPS: cfg.Render.FPS, Logger: logger})
	fmt.Printf("serving on http://localhost%s\n", cfg.Web.Addr)
	return srv.ListenAndServe(ctx, cfg.Web.Addr)
}

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
	fmt.Fprintln(w, "ID\tSOLVER\tPRESET\tTIME\tGRID\tSTEPS\tSPACING\tVISIBILITY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%.2f\t%.3f\n",
			run.ID,
			run.Solver,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Steps,
			run.Analysis.Spacing,
			run.Analysis.Visibility,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profile, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}
	if len(profile) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("solver: %s\n", meta.Solver)
	fmt.Printf("screen row: %d\n\n", meta.ScreenRow)

	graph := asciigraph.Plot(profile,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("time-averaged screen intensity"),
	)
	fmt.Println(graph)

	if svgPath != "" {
		svg := export.ProfileToSVG(profile, 800, 240, "#f0a020")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profile, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}
	if len(profile) < 4 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("fringe analysis: %s\n", meta.ID)
	fmt.Printf("solver: %s\n\n", meta.Solver)

	n := 1
	for n < len(profile) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, analysis.Detrend(profile))
	ps := analysis.PowerSpectrum(padded)
	plotData := ps[:len(ps)/2]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("spatial power spectrum of screen profile"),
	)
	fmt.Println(graph)
	fmt.Println()

	sum := analysis.Analyze(profile)
	fmt.Printf("fringe spacing: %.2f cells\n", sum.Spacing)
	fmt.Printf("visibility: %.3f\n", sum.Visibility)
	fmt.Printf("peaks: %d\n", sum.Peaks)

	if cfg, err := st.LoadConfig(runID); err == nil && cfg.Solver == config.SolverWave {
		w := cfg.Wave
		wavelength := math.Sqrt(w.Speed) / w.SourceFrequency
		expected := analysis.ExpectedSpacing(wavelength, float64(meta.ScreenRow-w.BarrierRow), w.SlitSeparation)
		fmt.Printf("expected (λD/d): %.2f cells\n", expected)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		if err := st.ExportJSONFile(outPath, args[0]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	if _, err := s.RunSteps(context.Background(), cfg.Steps); err != nil {
		return err
	}
	frame := s.NewFrame()
	s.Painter().Paint(frame, s.Solver())

	if pngPath != "" {
		if err := render.SavePNG(pngPath, frame); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	if svgPath != "" {
		b := frame.Bounds()
		canvas := viz.NewCanvas(viz.FitCanvas(b.Dx(), b.Dy(), 160, 80))
		canvas.Sample(frame)
		if err := os.WriteFile(svgPath, []byte(export.CanvasToSVG(canvas, 6)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	solvers := config.Solvers()
	if len(args) > 0 {
		solvers = []string{args[0]}
	}
	for _, solver := range solvers {
		presets := config.ListPresets(solver)
		if len(presets) == 0 {
			fmt.Printf("no presets for solver: %s\n", solver)
			continue
		}
		fmt.Printf("presets for %s:\n", solver)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func benchPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSOLVER\tGRID\tSCHEME\tSTEPS\tTIME\tSTEPS/SEC")

	for _, solver := range config.Solvers() {
		for _, name := range config.ListPresets(solver) {
			cfg := config.GetPreset(solver, name)
			s, err := sim.New(cfg, sim.WithLogger(logger))
			if err != nil {
				return err
			}
			res, err := s.RunSteps(context.Background(), benchSteps)
			if err != nil {
				return err
			}
			gw, gh := cfg.Dims()
			scheme := string(cfg.Wave.Scheme)
			if solver == config.SolverQuantum {
				scheme = string(cfg.Quantum.Kinetic)
			}
			fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%d\t%v\t%.0f\n",
				name, solver, gw, gh, scheme, res.Steps,
				res.Elapsed.Round(time.Millisecond), res.StepsPerSecond())
		}
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	params, err := parseParams()
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Preset:    name,
		Base:      cfg,
		Params:    params,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepPoints,
		Steps:     cfg.Steps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPACING\tVISIBILITY\tPEAKS\tDIVERGED\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.2f\t%.3f\t%d\t%v\n",
			r.ParamValue, r.Summary.Spacing, r.Summary.Visibility, r.Summary.Peaks, r.Diverged)
	}
	return w.Flush()
}

// parseGrid reads --grid values of the form name=min:max:n or
// name=v1,v2,...
func parseGrid(specs []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, g := range specs {
		name, list, ok := strings.Cut(g, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("grid %q: want name=min:max:n or name=v1,v2", g)
		}
		vals, err := parseGridValues(list)
		if err != nil {
			return nil, nil, fmt.Errorf("grid %q: %w", g, err)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func parseGridValues(list string) ([]float64, error) {
	if parts := strings.Split(list, ":"); len(parts) > 1 {
		if len(parts) != 3 {
			return nil, fmt.Errorf("range %q: want min:max:n", list)
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, err
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("range %q: n=%d", list, n)
		}
		return optim.Linspace(lo, hi, n), nil
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}
	fixed, err := parseParams()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = []string{"slit_separation"}
		ranges = [][]float64{optim.Linspace(12, 48, 4)}
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = tuneMaximize

	best, all, err := g.Search(context.Background(), func(p map[string]float64) (*experiment.Experiment, error) {
		return experiment.New(experiment.Config{Preset: name, Sim: cfg.Clone(), Steps: cfg.Steps, Params: mergeParams(fixed, p)}, logger)
	}, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, p := range all {
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(p.Params[n], 'g', 4, 64)
		}
		fmt.Fprintf(w, "%s\t%.4g\n", strings.Join(cols, "\t"), p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.4g at %v\n", tuneMetric, best.Value, best.Params)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	logger.Info("scenario started", zap.String("name", sc.Name), zap.Int("steps", len(sc.Steps)))
	runs, err := automation.RunScenario(context.Background(), sc, st, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPRESET\tSTEPS\tSPACING\tVISIBILITY\tSAVED")
	for i, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.3f\t%s\n",
			i+1, r.Meta.Preset, r.Meta.Steps, r.Meta.Analysis.Spacing, r.Meta.Analysis.Visibility, r.Meta.ID)
	}
	return w.Flush()
}

// mergeParams returns fixed overlaid with point; point wins on conflicts.
func mergeParams(fixed, point map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(fixed)+len(point))
	for k, v := range fixed {
		out[k] = v
	}
	for k, v := range point {
		out[k] = v
	}
	return out
}
