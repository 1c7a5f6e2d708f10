package model

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownPattern is returned when a pattern name is not defined
var ErrUnknownPattern = errors.New("unknown pattern")

// Pattern is a set of live cells relative to its top-left corner
type Pattern struct {
	Name  string
	Cells [][2]int
}

// Bounds returns the pattern's width and height
func (p Pattern) Bounds() (width, height int) {
	for _, c := range p.Cells {
		width = max(width, c[0]+1)
		height = max(height, c[1]+1)
	}
	return
}

var patterns = map[string]Pattern{
	"glider": {Name: "glider", Cells: [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	// horizontal, oscillates with period 2
	"blinker":     {Name: "blinker", Cells: [][2]int{{0, 0}, {1, 0}, {2, 0}}},
	"block":       {Name: "block", Cells: [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	"r-pentomino": {Name: "r-pentomino", Cells: [][2]int{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}}},
}

// LookupPattern returns the pattern with the given name
func LookupPattern(name string) (Pattern, error) {
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "[LookupPattern] %q", name)
	}
	return p, nil
}

// PatternNames lists the known patterns in sorted order
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Place sets the pattern's cells alive with its top-left corner at (startX, startY).
// Nothing is written if any cell would fall outside the grid.
func (g *Grid) Place(p Pattern, startX, startY int) error {
	for _, c := range p.Cells {
		if x, y := startX+c[0], startY+c[1]; !g.inBounds(x, y) {
			return errors.Wrapf(g.outOfBounds("Grid.Place", x, y), "pattern %q", p.Name)
		}
	}
	for _, c := range p.Cells {
		g.current[startX+c[0]][startY+c[1]] = true
	}
	return nil
}

// PlaceCentered places the pattern in the middle of the grid
func (g *Grid) PlaceCentered(p Pattern) error {
	w, h := p.Bounds()
	return g.Place(p, (g.width-w)/2, (g.height-h)/2)
}
