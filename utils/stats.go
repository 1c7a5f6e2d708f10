package utils

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// populationWindow is the number of recent generations kept for the summary
const populationWindow = 100

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int
	ChangedCells         int
	ComputeTime          time.Duration // last generation only

	startGeneration int
	populations     []float64
}

// Summary describes the population over the recent window
type Summary struct {
	Generations       int
	MeanPopulation    float64
	StdDevPopulation  float64
	MinPopulation     float64
	MaxPopulation     float64
	AveragePopulation float64
	Runtime           time.Duration
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update records a generation; the rate covers every generation since StartTime
func (s *Stats) Update(generation, population, changed int, compute time.Duration) {
	s.TotalGenerations = generation
	s.ActiveCells = population
	s.ChangedCells = changed
	s.ComputeTime = compute
	if elapsed := time.Since(s.StartTime); elapsed > 0 {
		s.GenerationsPerSecond = float64(generation-s.startGeneration) / elapsed.Seconds()
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}

	s.populations = append(s.populations, float64(population))
	if len(s.populations) > populationWindow {
		s.populations = s.populations[1:]
	}
}

// Summary computes population statistics over the recent window
func (s *Stats) Summary() Summary {
	sum := Summary{
		Generations:       s.TotalGenerations,
		AveragePopulation: s.AveragePopulation,
		Runtime:           time.Since(s.StartTime),
	}
	if len(s.populations) == 0 {
		return sum
	}
	sum.MeanPopulation, sum.StdDevPopulation = stat.MeanStdDev(s.populations, nil)
	if len(s.populations) == 1 {
		sum.StdDevPopulation = 0
	}
	sum.MinPopulation, sum.MaxPopulation = s.populations[0], s.populations[0]
	for _, p := range s.populations[1:] {
		sum.MinPopulation = min(sum.MinPopulation, p)
		sum.MaxPopulation = max(sum.MaxPopulation, p)
	}
	return sum
}

// Reset clears the population window and restarts the clock at the current generation
func (s *Stats) Reset() {
	*s = Stats{
		StartTime:        time.Now(),
		TotalGenerations: s.TotalGenerations,
		startGeneration:  s.TotalGenerations,
	}
}
