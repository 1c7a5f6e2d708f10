package model

import (
	"crypto/md5"
	"fmt"
)

const (
	historySize = 5
	// a state repeating any of the last cycleWindow states is stagnant
	cycleWindow = 3
)

// GetGridHash returns an MD5 hash of the current generation
func (g *Grid) GetGridHash() string {
	h := md5.New()
	buf := make([]byte, g.height)
	for x := range g.width {
		for y, alive := range g.current[x] {
			buf[y] = 0
			if alive {
				buf[y] = 1
			}
		}
		h.Write(buf)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// History remembers the hashes of recent generations to detect still lifes and short cycles
type History struct {
	hashes []string
}

// Update adds the grid's current state to the history and maintains its size
func (h *History) Update(g *Grid) {
	h.hashes = append(h.hashes, g.GetGridHash())

	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether the grid's current state repeats one of the last few recorded states
func (h *History) IsStagnant(g *Grid) bool {
	if len(h.hashes) < cycleWindow {
		return false
	}

	currentHash := g.GetGridHash()
	for i := 1; i <= cycleWindow; i++ {
		if h.hashes[len(h.hashes)-i] == currentHash {
			return true
		}
	}
	return false
}

// Clear forgets all recorded states
func (h *History) Clear() {
	h.hashes = nil
}
