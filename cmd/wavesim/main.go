package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/logging"
	"github.com/san-kum/wavesim/internal/quantum"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	steps      int
	benchSteps int
	frameRate  int
	scale      int
	paletteArg string
	logLevel   string
	logFile    string
	gifPath    string
	backend    string
	addr       string
	measureAt  int
	paramFlags map[string]string
	svgPath    string
	pngPath    string
	outPath    string

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int

	tuneMetric   string
	tuneMaximize bool
	tuneGrid     []string

	logger    *zap.Logger
	logCloser io.Closer
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wavesim",
		Short: "double-slit wave interference lab",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
			if logCloser != nil {
				logCloser.Close()
			}
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "measurement random seed")
	pf.IntVar(&scale, "scale", config.DefaultScale, "pixels per grid cell")
	pf.StringVar(&paletteArg, "palette", "", "colour palette")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFile, "log-file", "", "log file (default stderr)")
	pf.StringToStringVar(&paramFlags, "param", nil, "override a tunable parameter, e.g. --param speed=0.3")

	rootCmd.Flags().StringVar(&backend, "backend", "raylib", "window backend (raylib|ebiten)")
	rootCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().StringVar(&gifPath, "gif", "wavesim.gif", "gif recording path")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation headless and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "ticks to run")
	runCmd.Flags().IntVar(&measureAt, "measure-at", 0, "collapse at this tick (0 never)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().StringVar(&gifPath, "gif", "wavesim.gif", "gif recording path")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "run simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&backend, "backend", "raylib", "window backend (raylib|ebiten)")
	guiCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	guiCmd.Flags().StringVar(&gifPath, "gif", "wavesim.gif", "gif recording path")

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "stream simulation to browsers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the screen profile of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the profile as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "fringe and spectrum analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "render one frame to png and/or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "ticks to run first")
	snapshotCmd.Flags().StringVar(&pngPath, "png", "frame.png", "png output")
	snapshotCmd.Flags().StringVar(&svgPath, "svg", "", "svg output (half-block cells)")

	presetsCmd := &cobra.Command{
		Use:   "presets [solver]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark every preset",
		RunE:  benchPresets,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "ticks per preset")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep one parameter and tabulate fringes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "name", "slit_separation", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 12, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 48, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "ticks per point")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search parameters for the best run metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", nil, "name=min:max:n or name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "visibility", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", true, "maximise instead of minimise")
	tuneCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "ticks per point")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, serveCmd, listCmd, plotCmd, analyzeCmd,
		exportJSONCmd, snapshotCmd, presetsCmd, benchCmd, sweepCmd, tuneCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(cmd *cobra.Command) error {
	cfg := logging.Config{Level: logLevel, Output: logFile}
	// The terminal host owns stdout and stderr.
	if cmd.Name() == "live" && cfg.Output == "" {
		cfg.Output = "wavesim.log"
	}
	l, closer, err := logging.New(cfg)
	if err != nil {
		return err
	}
	logger, logCloser = l, closer
	return nil
}

// loadConfig resolves the simulation config: a preset (argument or flag)
// or config file, then any explicitly changed flags on top.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	switch {
	case name != "":
		cfg = config.FindPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v %v)", name,
				config.ListPresets(config.SolverWave), config.ListPresets(config.SolverQuantum))
		}
	case configFile != "":
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("scale") {
		cfg.Render.Scale = scale
	}
	if flags.Changed("palette") {
		cfg.Render.Palette = paletteArg
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}
	if flags.Changed("steps") || cfg.Steps <= 0 {
		cfg.Steps = steps
	}
	if flags.Changed("addr") {
		cfg.Web.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	if cfg.Solver == config.SolverQuantum && cfg.Quantum.Kinetic == quantum.KineticRow {
		logger.Warn("quantum kinetic step runs along rows only; use the quantum-full preset for the 2D operator")
	}
	return cfg, name, nil
}

func parseParams() (map[string]float64, error) {
	out := make(map[string]float64, len(paramFlags))
	for k, v := range paramFlags {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
			return nil, fmt.Errorf("param %s=%q: %w", k, v, err)
		}
		out[k] = f
	}
	return out, nil
}
