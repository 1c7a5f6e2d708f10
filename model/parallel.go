package model

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// AdvanceGenerationParallel is AdvanceGeneration with the compute pass split into column bands.
// Workers only read the current generation and write disjoint columns of the scratch buffer,
// so the result and the order of the changes match the sequential pass.
// workers <= 0 uses one worker per CPU.
func (g *Grid) AdvanceGenerationParallel(workers int, dst []CellChange) []CellChange {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || g.width < 2 {
		return g.AdvanceGenerationInto(dst)
	}

	var (
		eg            errgroup.Group
		colsPerWorker = (g.width + workers - 1) / workers // Ceiling division
		bands         = make([][]CellChange, workers)
	)

	for i := range workers {
		var (
			startCol = i * colsPerWorker
			endCol   = min(startCol+colsPerWorker, g.width)
		)
		if startCol >= g.width {
			break
		}

		eg.Go(func() error {
			bands[i] = g.computeColumns(startCol, endCol, nil)
			return nil
		})
	}

	// workers never fail, Wait only joins them
	_ = eg.Wait()

	for _, band := range bands {
		dst = append(dst, band...)
	}
	g.promote()
	return dst
}
