package model

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-torus/rules"
)

var (
	// ErrInvalidDimensions is returned for negative grid sizes
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	// ErrIndexOutOfBounds is returned when a coordinate falls outside the grid
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	// ErrDegenerateGrid is returned when neighbours are requested on a grid with a zero dimension
	ErrDegenerateGrid = errors.New("degenerate grid")
)

// CellChange records a cell whose state differs between two generations
type CellChange struct {
	X, Y  int
	Alive bool
}

// Grid is a toroidal board holding the current generation and a scratch buffer for the next one.
// Cells are indexed [x][y].
type Grid struct {
	width   int
	height  int
	current [][]bool
	next    [][]bool
	rule    rules.Rule
}

// NewGrid creates an all-dead grid with the specified dimensions
func NewGrid(width, height int, rule rules.Rule) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewGrid] %dx%d", width, height)
	}
	g := &Grid{rule: rule}
	g.allocate(width, height)
	return g, nil
}

// NewNamedGrid creates a grid using the rule registered under ruleName
func NewNamedGrid(width, height int, ruleName string, registry *rules.Registry) (*Grid, error) {
	if registry == nil {
		registry = rules.DefaultRegistry
	}
	rule, err := registry.Lookup(ruleName)
	if err != nil {
		return nil, errors.Wrap(err, "[NewNamedGrid]")
	}
	return NewGrid(width, height, rule)
}

// newBuffer backs each buffer with a single slice, one column per x
func newBuffer(width, height int) [][]bool {
	cols := make([][]bool, width)
	backing := make([]bool, width*height)
	for x := range cols {
		cols[x] = backing[x*height : (x+1)*height : (x+1)*height]
	}
	return cols
}

func (g *Grid) allocate(width, height int) {
	g.width = width
	g.height = height
	g.current = newBuffer(width, height)
	g.next = newBuffer(width, height)
}

// Width returns the width of the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the height of the grid
func (g *Grid) Height() int {
	return g.height
}

// Rule returns the rule the grid evolves under
func (g *Grid) Rule() rules.Rule {
	return g.rule
}

// Reset kills every cell in both buffers
func (g *Grid) Reset() {
	for x := range g.width {
		clear(g.current[x])
		clear(g.next[x])
	}
}

// Resize changes the dimensions and resets all state
func (g *Grid) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return errors.Wrapf(ErrInvalidDimensions, "[Grid.Resize] %dx%d", width, height)
	}
	if width == g.width && height == g.height {
		g.Reset()
		return nil
	}
	g.allocate(width, height)
	return nil
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) outOfBounds(op string, x, y int) error {
	return errors.Wrapf(ErrIndexOutOfBounds, "[%s] (%d,%d) outside %dx%d", op, x, y, g.width, g.height)
}

// Set sets a cell of the current generation to alive (true) or dead (false)
func (g *Grid) Set(x, y int, alive bool) error {
	if !g.inBounds(x, y) {
		return g.outOfBounds("Grid.Set", x, y)
	}
	g.current[x][y] = alive
	return nil
}

// Alive returns the state of a cell in the current generation
func (g *Grid) Alive(x, y int) (bool, error) {
	if !g.inBounds(x, y) {
		return false, g.outOfBounds("Grid.Alive", x, y)
	}
	return g.current[x][y], nil
}

// CountLiveNeighbors counts the live cells among the 8 toroidally wrapped neighbours of (x, y)
func (g *Grid) CountLiveNeighbors(x, y int) (int, error) {
	if g.width == 0 || g.height == 0 {
		return 0, errors.Wrapf(ErrDegenerateGrid, "[Grid.CountLiveNeighbors] %dx%d", g.width, g.height)
	}
	if !g.inBounds(x, y) {
		return 0, g.outOfBounds("Grid.CountLiveNeighbors", x, y)
	}
	return g.countLiveNeighbors(x, y), nil
}

// countLiveNeighbors assumes a non-degenerate grid and in-range coordinates.
// On 1- or 2-wide axes the wrapped indices coincide and such cells are counted more than once.
func (g *Grid) countLiveNeighbors(x, y int) int {
	north := y - 1
	if y == 0 {
		north = g.height - 1
	}
	south := y + 1
	if y == g.height-1 {
		south = 0
	}
	west := x - 1
	if x == 0 {
		west = g.width - 1
	}
	east := x + 1
	if x == g.width-1 {
		east = 0
	}

	var (
		w     = g.current[west]
		c     = g.current[x]
		e     = g.current[east]
		count = 0
	)
	for _, alive := range [8]bool{
		w[north], c[north], e[north],
		w[y], e[y],
		w[south], c[south], e[south],
	} {
		if alive {
			count++
		}
	}
	return count
}

// ComputeNextState writes the next state of (x, y) into the scratch buffer.
// It only reads the current generation.
func (g *Grid) ComputeNextState(x, y int) error {
	if !g.inBounds(x, y) {
		return g.outOfBounds("Grid.ComputeNextState", x, y)
	}
	g.computeNextState(x, y)
	return nil
}

func (g *Grid) computeNextState(x, y int) bool {
	alive := g.rule.GetNextState(g.current[x][y], g.countLiveNeighbors(x, y))
	g.next[x][y] = alive
	return alive != g.current[x][y]
}

// AdvanceGeneration computes every cell of the next generation, then promotes it to current.
// The returned changes are ordered by column then row.
func (g *Grid) AdvanceGeneration() []CellChange {
	return g.AdvanceGenerationInto(nil)
}

// AdvanceGenerationInto is AdvanceGeneration appending the changes to dst
func (g *Grid) AdvanceGenerationInto(dst []CellChange) []CellChange {
	dst = g.computeColumns(0, g.width, dst)
	g.promote()
	return dst
}

func (g *Grid) computeColumns(from, to int, dst []CellChange) []CellChange {
	for x := from; x < to; x++ {
		for y := range g.height {
			if g.computeNextState(x, y) {
				dst = append(dst, CellChange{X: x, Y: y, Alive: g.next[x][y]})
			}
		}
	}
	return dst
}

// promote swaps the buffers; the old current becomes stale scratch space
func (g *Grid) promote() {
	g.current, g.next = g.next, g.current
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for x := range g.width {
		for y := range g.height {
			if g.current[x][y] {
				count++
			}
		}
	}
	return
}

// Cells calls fn for every cell of the current generation, column by column
func (g *Grid) Cells(fn func(x, y int, alive bool)) {
	for x := range g.width {
		for y := range g.height {
			fn(x, y, g.current[x][y])
		}
	}
}

// Randomize makes each cell alive with probability density using the supplied source
func (g *Grid) Randomize(density float64, rnd func() float64) {
	for x := range g.width {
		for y := range g.height {
			g.current[x][y] = rnd() < density
		}
	}
}
