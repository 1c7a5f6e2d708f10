package model

import "testing"

func TestGridHashTracksState(t *testing.T) {
	a := newTestGrid(t, 4, 4, [2]int{1, 1})
	b := newTestGrid(t, 4, 4, [2]int{1, 1})
	if a.GetGridHash() != b.GetGridHash() {
		t.Fatal("equal grids hash differently")
	}
	_ = b.Set(2, 2, true)
	if a.GetGridHash() == b.GetGridHash() {
		t.Fatal("different grids hash equally")
	}
}

func TestHistoryDetectsStillLife(t *testing.T) {
	g := newTestGrid(t, 6, 6)
	block, _ := LookupPattern("block")
	if err := g.Place(block, 2, 2); err != nil {
		t.Fatal(err)
	}

	var h History
	for i := range 3 {
		if h.IsStagnant(g) {
			t.Fatalf("stagnant after %d recorded states", i)
		}
		h.Update(g)
		g.AdvanceGeneration()
	}
	if !h.IsStagnant(g) {
		t.Fatal("block not detected as stagnant")
	}

	h.Clear()
	if h.IsStagnant(g) {
		t.Fatal("cleared history still stagnant")
	}
}

func TestHistoryDetectsOscillator(t *testing.T) {
	g := newTestGrid(t, 5, 5, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})

	var h History
	for range 3 {
		h.Update(g)
		g.AdvanceGeneration()
	}
	if !h.IsStagnant(g) {
		t.Fatal("blinker not detected as a cycle")
	}
}

func TestHistoryGliderStaysActive(t *testing.T) {
	g := newTestGrid(t, 20, 20)
	glider, _ := LookupPattern("glider")
	if err := g.Place(glider, 1, 1); err != nil {
		t.Fatal(err)
	}

	var h History
	for i := range 12 {
		if h.IsStagnant(g) {
			t.Fatalf("glider reported stagnant at generation %d", i)
		}
		h.Update(g)
		g.AdvanceGeneration()
	}
	if len(h.hashes) != historySize {
		t.Fatalf("history holds %d hashes, want %d", len(h.hashes), historySize)
	}
}
