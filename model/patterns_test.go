package model

import (
	"testing"

	"github.com/pkg/errors"
)

func TestLookupPattern(t *testing.T) {
	for _, name := range PatternNames() {
		p, err := LookupPattern(name)
		if err != nil {
			t.Fatalf("LookupPattern(%q): %v", name, err)
		}
		if p.Name != name || len(p.Cells) == 0 {
			t.Errorf("pattern %q malformed: %+v", name, p)
		}
	}
	if _, err := LookupPattern("spaceship"); !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("err = %v", err)
	}
}

func TestPlaceValidatesBounds(t *testing.T) {
	glider, _ := LookupPattern("glider")
	if w, h := glider.Bounds(); w != 3 || h != 3 {
		t.Fatalf("glider bounds %dx%d", w, h)
	}

	g := newTestGrid(t, 4, 4)
	if err := g.Place(glider, 2, 2); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("err = %v", err)
	}
	if g.CountLivingCells() != 0 {
		t.Fatal("partial placement written")
	}

	if err := g.Place(glider, 1, 1); err != nil {
		t.Fatal(err)
	}
	expectLive(t, g, [2]int{2, 1}, [2]int{3, 2}, [2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3})
}

func TestGliderReturnsAfterCrossingTorus(t *testing.T) {
	g := newTestGrid(t, 8, 8)
	glider, _ := LookupPattern("glider")
	if err := g.PlaceCentered(glider); err != nil {
		t.Fatal(err)
	}
	start := g.GetGridHash()

	// a glider moves one cell diagonally every 4 generations
	for range 4 * 8 {
		g.AdvanceGeneration()
	}
	if g.GetGridHash() != start {
		t.Fatal("glider did not wrap back to its starting position")
	}
	if g.CountLivingCells() != 5 {
		t.Fatalf("glider has %d cells", g.CountLivingCells())
	}
}
