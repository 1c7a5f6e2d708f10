package rules

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxNeighbors is the largest live-neighbour count a cell can observe
	MaxNeighbors = 8

	separator = "/"
)

// ErrInvalidRuleFormat is returned when a rule specification cannot be parsed
var ErrInvalidRuleFormat = errors.New("invalid rule format")

// neighborSet is a bit-set of neighbour counts, bit n set means count n is a member
type neighborSet uint16

func (s neighborSet) has(n int) bool {
	if n < 0 || n > MaxNeighbors {
		return false
	}
	return s&(1<<uint(n)) != 0
}

func (s neighborSet) String() string {
	var b strings.Builder
	for n := 0; n <= MaxNeighbors; n++ {
		if s.has(n) {
			b.WriteByte(byte('0' + n))
		}
	}
	return b.String()
}

/*
Rule decides the next state of a cell from its current state and live-neighbour count.

A rule is written "<survive>/<birth>", so Conway's Game of Life is "23/3":
a live cell survives with 2 or 3 live neighbours, a dead cell is born with 3.
*/
type Rule struct {
	survive neighborSet
	birth   neighborSet
}

// ParseRule parses a "<survive-digits>/<birth-digits>" specification
func ParseRule(spec string) (Rule, error) {
	if strings.Count(spec, separator) != 1 {
		return Rule{}, errors.Wrapf(ErrInvalidRuleFormat, "[ParseRule] expected exactly one %q in %q", separator, spec)
	}
	survivePart, birthPart, _ := strings.Cut(spec, separator)

	survive, err := parseNeighborSet(survivePart)
	if err != nil {
		return Rule{}, errors.Wrapf(err, "[ParseRule] survive half of %q", spec)
	}
	birth, err := parseNeighborSet(birthPart)
	if err != nil {
		return Rule{}, errors.Wrapf(err, "[ParseRule] birth half of %q", spec)
	}
	return Rule{survive: survive, birth: birth}, nil
}

// MustParseRule is like ParseRule but panics on error
func MustParseRule(spec string) Rule {
	r, err := ParseRule(spec)
	if err != nil {
		panic(err)
	}
	return r
}

func parseNeighborSet(digits string) (neighborSet, error) {
	var set neighborSet
	for _, c := range digits {
		if c < '0' || c > '0'+MaxNeighbors {
			return 0, errors.Wrapf(ErrInvalidRuleFormat, "unexpected character %q", c)
		}
		set |= 1 << uint(c-'0')
	}
	return set, nil
}

// GetNextState applies the rule to a cell
func (r Rule) GetNextState(alive bool, liveNeighbors int) bool {
	if alive {
		return r.Survives(liveNeighbors)
	}
	return r.Births(liveNeighbors)
}

// Survives reports whether a live cell with n live neighbours stays alive
func (r Rule) Survives(n int) bool { return r.survive.has(n) }

// Births reports whether a dead cell with n live neighbours comes alive
func (r Rule) Births(n int) bool { return r.birth.has(n) }

// String returns the canonical specification, digits in ascending order
func (r Rule) String() string {
	return r.survive.String() + separator + r.birth.String()
}
