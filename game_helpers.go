package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/environment"
	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/rules"
	"github.com/sheikhrachel/go-torus/utils"
)

// unset marks numeric flags that were not given on the command line
const unset = -1

// cliOptions holds command line overrides; empty strings, unset and false leave the config untouched
type cliOptions struct {
	configPath     string
	saveConfig     string
	snapshot       string
	rule           string
	pattern        string
	statsFile      string
	width          int
	height         int
	workers        int
	maxGenerations int
	speed          float64
	density        float64
	randomSeed     int64
	parallel       bool
	noParallel     bool
	autoRestart    bool
	noAutoRestart  bool
	headless       bool
	noColor        bool
	listRules      bool
	listPatterns   bool
	verbose        bool
}

// newCLIOptions returns options that override nothing
func newCLIOptions() cliOptions {
	return cliOptions{workers: unset, maxGenerations: unset, density: unset}
}

func (o cliOptions) logLevel() slog.Level {
	if o.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// parseFlags reads the command line
func parseFlags() cliOptions {
	o := newCLIOptions()

	flaggy.SetName("go-torus")
	flaggy.SetDescription("Cellular automaton on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	flaggy.String(&o.configPath, "c", "config", "Path to a JSON or YAML config file")
	flaggy.String(&o.saveConfig, "", "save-config", "Write the effective config as YAML and exit")
	flaggy.String(&o.snapshot, "", "snapshot", "Write the final surface as PNG to this path")
	flaggy.String(&o.rule, "r", "rule", "Named rule, see --list-rules")
	flaggy.String(&o.pattern, "p", "pattern", "Seed with a named pattern instead of random noise")
	flaggy.String(&o.statsFile, "", "stats", "Write per-generation statistics as CSV to this path")
	flaggy.Int(&o.width, "x", "width", "Width of the grid in cells")
	flaggy.Int(&o.height, "y", "height", "Height of the grid in cells")
	flaggy.Int(&o.workers, "w", "workers", "Workers for the parallel pass (0 = one per CPU)")
	flaggy.Int(&o.maxGenerations, "g", "generations", "Stop after this many generations (0 = run until interrupted)")
	flaggy.Float64(&o.speed, "s", "speed", "Generations per second")
	flaggy.Float64(&o.density, "d", "density", "Probability that a cell starts alive")
	flaggy.Int64(&o.randomSeed, "", "seed", "Random seed (0 = time based)")
	flaggy.Bool(&o.parallel, "", "parallel", "Compute generations in parallel")
	flaggy.Bool(&o.noParallel, "", "no-parallel", "Compute generations sequentially")
	flaggy.Bool(&o.autoRestart, "", "auto-restart", "Reseed on extinction or stagnation")
	flaggy.Bool(&o.noAutoRestart, "", "no-auto-restart", "Keep running a settled population")
	flaggy.Bool(&o.headless, "", "headless", "Do not draw to the terminal")
	flaggy.Bool(&o.noColor, "", "no-color", "Disable terminal colours")
	flaggy.Bool(&o.listRules, "l", "list-rules", "List the named rules and exit")
	flaggy.Bool(&o.listPatterns, "", "list-patterns", "List the seed patterns and exit")
	flaggy.Bool(&o.verbose, "v", "verbose", "Debug logging")

	flaggy.Parse()
	return o
}

// loadConfig reads the config file, if any, and applies the command line overrides
func loadConfig(o cliOptions) (utils.Config, error) {
	config := utils.DefaultConfig()
	if o.configPath != "" {
		var err error
		if config, err = utils.LoadConfig(o.configPath); err != nil {
			return config, err
		}
	}
	applyOverrides(&config, o)

	if err := config.Validate(nil); err != nil {
		return config, err
	}
	return config, nil
}

func applyOverrides(config *utils.Config, o cliOptions) {
	if o.width > 0 {
		config.Width = o.width
	}
	if o.height > 0 {
		config.Height = o.height
	}
	if o.rule != "" {
		config.Rule = o.rule
	}
	if o.pattern != "" {
		config.Pattern = o.pattern
	}
	if o.statsFile != "" {
		config.StatsFile = o.statsFile
	}
	if o.workers != unset {
		config.Workers = o.workers
	}
	if o.maxGenerations != unset {
		config.MaxGenerations = o.maxGenerations
	}
	if o.speed > 0 {
		config.Speed = o.speed
	}
	if o.density != unset {
		config.SeedDensity = o.density
	}
	if o.randomSeed != 0 {
		config.RandomSeed = o.randomSeed
	}
	switch {
	case o.noParallel:
		config.Parallel = false
	case o.parallel:
		config.Parallel = true
	}
	switch {
	case o.noAutoRestart:
		config.AutoRestart = false
	case o.autoRestart:
		config.AutoRestart = true
	}
}

// listRules prints the registered rules
func listRules(w io.Writer) {
	for _, name := range rules.DefaultRegistry.Names() {
		spec, _ := rules.DefaultRegistry.Spec(name)
		fmt.Fprintf(w, "%-18s %s\n", name, spec)
	}
}

// listPatterns prints the seed patterns with their bounding boxes
func listPatterns(w io.Writer) {
	for _, name := range model.PatternNames() {
		p, _ := model.LookupPattern(name)
		width, height := p.Bounds()
		fmt.Fprintf(w, "%-18s %dx%d\n", name, width, height)
	}
}

// run builds the environment and drives it until ctx is done or the generation limit is hit
func run(ctx context.Context, config utils.Config, o cliOptions, logger *slog.Logger) error {
	if o.saveConfig != "" {
		return config.WriteYAML(o.saveConfig)
	}

	recorder, err := utils.CreateRecorder(config.StatsFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := recorder.Close(); cerr != nil {
			logger.Warn("failed to close stats file", "error", cerr)
		}
	}()

	var (
		surface  model.Surface
		terminal *model.TerminalSurface
		canvas   = model.NewImageSurface(config.Width, config.Height)
		envOpts  = []environment.Option{
			environment.WithLogger(logger),
			environment.WithRecorder(recorder),
		}
	)
	if o.headless {
		surface = canvas
	} else {
		terminal = model.NewTerminalSurface(os.Stdout, config.Width, config.Height, !o.noColor)
		if err = terminal.Clear(); err != nil {
			logger.Warn("failed to clear terminal", "error", err)
		}
		surface = terminal
		envOpts = append(envOpts, environment.AfterStep(func(int, []model.CellChange) {
			if err := terminal.Display(); err != nil {
				logger.Warn("failed to draw", "error", err)
			}
		}))
	}

	env, err := environment.New(config, surface, envOpts...)
	if err != nil {
		return err
	}
	displayGameInfo(logger, config, env)
	if terminal != nil {
		if err = terminal.Display(); err != nil {
			return err
		}
	}

	runErr := env.Run(ctx)
	displayGameStatus(logger, env)

	if o.snapshot != "" {
		if surface != canvas {
			env.Palette().PaintGrid(canvas, env.Grid())
		}
		if err = writeSnapshot(o.snapshot, canvas); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", o.snapshot)
	}
	return runErr
}

// displayGameInfo shows the initial game information
func displayGameInfo(logger *slog.Logger, config utils.Config, env *environment.Environment) {
	spec, _ := rules.DefaultRegistry.Spec(config.Rule)
	logger.Info("starting simulation",
		"grid", fmt.Sprintf("%dx%d", env.Grid().Width(), env.Grid().Height()),
		"rule", config.Rule,
		"spec", spec,
		"initial_living_cells", env.Grid().CountLivingCells(),
		"interval", config.Interval(),
		"parallel", config.Parallel,
	)
}

// displayGameStatus logs the final statistics
func displayGameStatus(logger *slog.Logger, env *environment.Environment) {
	stats := env.Stats()
	sum := stats.Summary()
	logger.Info("final stats",
		"generations", env.Generation(),
		"living_cells", stats.ActiveCells,
		"changed_cells", stats.ChangedCells,
		"generations_per_second", fmt.Sprintf("%.1f", stats.GenerationsPerSecond),
		"runtime", sum.Runtime.Round(time.Millisecond),
		"avg_population", fmt.Sprintf("%.1f", sum.AveragePopulation),
		"window_mean", fmt.Sprintf("%.1f", sum.MeanPopulation),
		"window_stddev", fmt.Sprintf("%.1f", sum.StdDevPopulation),
	)
}

// writeSnapshot encodes the surface as PNG
func writeSnapshot(path string, s *model.ImageSurface) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[writeSnapshot] failed to create file: %+v", path)
	}
	if err = png.Encode(f, s.Image()); err != nil {
		f.Close()
		return errors.Wrapf(err, "[writeSnapshot] failed to encode: %+v", path)
	}
	return errors.Wrapf(f.Close(), "[writeSnapshot] failed to close: %+v", path)
}
