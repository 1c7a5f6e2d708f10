// Package environment drives a Grid over time and forwards changed cells to a Surface.
package environment

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/model"
	"github.com/sheikhrachel/go-torus/rules"
	"github.com/sheikhrachel/go-torus/utils"
)

// Environment owns a grid and paints its transitions onto a surface.
// It is not safe for concurrent use; Run is the only driver.
type Environment struct {
	grid    *model.Grid
	surface model.Surface
	palette model.Palette

	interval       time.Duration
	parallel       bool
	workers        int
	maxGenerations int

	density float64
	pattern model.Pattern
	seeded  bool // pattern is set
	rng     *rand.Rand

	autoRestart         bool
	stagnationThreshold int
	history             model.History
	stagnantCount       int
	settled             bool

	generation int
	stats      *utils.Stats
	changes    *model.ChangePool

	registry  *rules.Registry
	recorder  *utils.Recorder
	logger    *slog.Logger
	afterStep func(generation int, changes []model.CellChange)
}

// Option customizes an Environment
type Option func(*Environment)

// WithLogger sets the logger, the default discards everything
func WithLogger(l *slog.Logger) Option {
	return func(e *Environment) { e.logger = l }
}

// WithRecorder writes a CSV record for every generation
func WithRecorder(r *utils.Recorder) Option {
	return func(e *Environment) { e.recorder = r }
}

// WithRegistry resolves the configured rule name in r instead of the default registry
func WithRegistry(r *rules.Registry) Option {
	return func(e *Environment) { e.registry = r }
}

// AfterStep registers a hook run once a generation has been painted, e.g. to flush a terminal
func AfterStep(fn func(generation int, changes []model.CellChange)) Option {
	return func(e *Environment) { e.afterStep = fn }
}

// New builds the grid described by cfg, sizes the surface to match and seeds the first generation
func New(cfg utils.Config, surface model.Surface, opts ...Option) (*Environment, error) {
	e := &Environment{
		surface:             surface,
		interval:            cfg.Interval(),
		parallel:            cfg.Parallel,
		workers:             cfg.Workers,
		maxGenerations:      cfg.MaxGenerations,
		density:             cfg.SeedDensity,
		autoRestart:         cfg.AutoRestart,
		stagnationThreshold: cfg.StagnationThreshold,
		stats:               utils.NewStats(),
		changes:             model.NewChangePool(),
		registry:            rules.DefaultRegistry,
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := cfg.Validate(e.registry); err != nil {
		return nil, errors.Wrap(err, "[environment.New]")
	}

	alive, err := model.ParseColor(cfg.AliveColor)
	if err != nil {
		return nil, errors.Wrap(err, "[environment.New] alive color")
	}
	dead, err := model.ParseColor(cfg.DeadColor)
	if err != nil {
		return nil, errors.Wrap(err, "[environment.New] dead color")
	}
	e.palette = model.Palette{Alive: alive, Dead: dead}

	if cfg.Pattern != "" {
		if e.pattern, err = model.LookupPattern(cfg.Pattern); err != nil {
			return nil, errors.Wrap(err, "[environment.New]")
		}
		e.seeded = true
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32))

	if e.grid, err = model.NewNamedGrid(cfg.Width, cfg.Height, cfg.Rule, e.registry); err != nil {
		return nil, errors.Wrap(err, "[environment.New]")
	}
	e.resizeSurface(cfg.Width, cfg.Height)
	e.Reset()
	if err = e.Seed(); err != nil {
		return nil, err
	}

	e.logger.Info("environment created",
		"width", cfg.Width,
		"height", cfg.Height,
		"rule", cfg.Rule,
		"interval", e.interval,
		"parallel", e.parallel,
		"seed", seed,
	)
	return e, nil
}

// Grid exposes the simulated grid
func (e *Environment) Grid() *model.Grid {
	return e.grid
}

// Generation returns the number of generations advanced since creation
func (e *Environment) Generation() int {
	return e.generation
}

// Stats exposes the runtime statistics
func (e *Environment) Stats() *utils.Stats {
	return e.stats
}

// Palette returns the colours used for live and dead cells
func (e *Environment) Palette() model.Palette {
	return e.palette
}

// Resize resizes the surface and the grid, discarding the population, then reseeds
func (e *Environment) Resize(width, height int) error {
	if err := e.grid.Resize(width, height); err != nil {
		return errors.Wrap(err, "[Environment.Resize]")
	}
	e.resizeSurface(width, height)
	e.Reset()
	e.logger.Info("grid resized", "width", width, "height", height)
	return e.Seed()
}

func (e *Environment) resizeSurface(width, height int) {
	if r, ok := e.surface.(model.Resizer); ok {
		r.Resize(width, height)
	}
}

// Reset clears the surface and kills every cell
func (e *Environment) Reset() {
	e.surface.Fill(e.palette.Dead)
	e.grid.Reset()
	e.history.Clear()
	e.stagnantCount = 0
	e.settled = false
}

// Seed populates the grid with the configured pattern, or with random noise at the configured density
func (e *Environment) Seed() error {
	if e.grid.Width() == 0 || e.grid.Height() == 0 {
		return nil
	}
	if e.seeded {
		if err := e.grid.PlaceCentered(e.pattern); err != nil {
			return errors.Wrap(err, "[Environment.Seed]")
		}
		e.palette.PaintGrid(e.surface, e.grid)
		return nil
	}

	for x := range e.grid.Width() {
		for y := range e.grid.Height() {
			if e.rng.Float64() < e.density {
				// coordinates are in range by construction
				_ = e.SetCell(x, y, true)
			}
		}
	}
	return nil
}

// SetCell sets a cell of the current generation and paints it
func (e *Environment) SetCell(x, y int, alive bool) error {
	if err := e.grid.Set(x, y, alive); err != nil {
		return errors.Wrap(err, "[Environment.SetCell]")
	}
	e.surface.SetPixel(x, y, e.palette.Color(alive))
	return nil
}

// Step advances one generation and paints only the cells that changed
func (e *Environment) Step() error {
	start := time.Now()

	changes := e.changes.Get()
	if e.parallel {
		changes = e.grid.AdvanceGenerationParallel(e.workers, changes)
	} else {
		changes = e.grid.AdvanceGenerationInto(changes)
	}
	defer e.changes.Put(changes)

	e.palette.Paint(e.surface, changes)
	e.generation++

	population := e.grid.CountLivingCells()
	elapsed := time.Since(start)
	e.stats.Update(e.generation, population, len(changes), elapsed)
	e.logger.Debug("generation",
		"generation", e.generation,
		"population", population,
		"changed", len(changes),
		"compute", elapsed,
	)

	if err := e.recorder.Write(utils.GenerationRecord{
		Generation: e.generation,
		Width:      e.grid.Width(),
		Height:     e.grid.Height(),
		Population: population,
		Changed:    len(changes),
		DurationUS: elapsed.Microseconds(),
	}); err != nil {
		return errors.Wrap(err, "[Environment.Step]")
	}

	if e.afterStep != nil {
		e.afterStep(e.generation, changes)
	}

	return e.checkRestart(population)
}

// checkRestart reseeds the grid after extinction or prolonged stagnation when auto restart is on
func (e *Environment) checkRestart(population int) error {
	if e.history.IsStagnant(e.grid) {
		e.stagnantCount++
	} else {
		e.stagnantCount = 0
	}
	e.history.Update(e.grid)

	reason := ""
	switch {
	case population == 0:
		reason = "extinction"
	case e.stagnationThreshold > 0 && e.stagnantCount >= e.stagnationThreshold:
		reason = "stagnation detected"
	}
	if reason == "" {
		return nil
	}

	if !e.autoRestart {
		if !e.settled {
			e.logger.Info("population settled", "reason", reason, "generation", e.generation)
			e.settled = true
		}
		return nil
	}

	e.logger.Info("restarting", "reason", reason, "generation", e.generation)
	e.Reset()
	return e.Seed()
}

// Run advances generations on a ticker until ctx is done or the generation limit is reached.
// It returns nil when the limit is reached and ctx.Err() on cancellation.
func (e *Environment) Run(ctx context.Context) error {
	e.logger.Info("simulation started", "interval", e.interval, "max_generations", e.maxGenerations)
	e.stats.Reset()

	var tick <-chan time.Time
	if e.interval > 0 {
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if err := ctx.Err(); err != nil {
			return e.stopped(err)
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return e.stopped(ctx.Err())
			case <-tick:
			}
		}

		if err := e.Step(); err != nil {
			return err
		}

		if e.maxGenerations > 0 && e.generation >= e.maxGenerations {
			e.logger.Info("reached maximum generations limit", "generation", e.generation)
			return e.stopped(nil)
		}
	}
}

func (e *Environment) stopped(err error) error {
	sum := e.stats.Summary()
	e.logger.Info("simulation stopped",
		"generation", e.generation,
		"runtime", sum.Runtime.Round(time.Millisecond),
		"generations_per_second", e.stats.GenerationsPerSecond,
		"mean_population", sum.MeanPopulation,
		"stddev_population", sum.StdDevPopulation,
	)
	return err
}
