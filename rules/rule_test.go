package rules

import (
	"testing"

	"github.com/pkg/errors"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		spec      string
		wantErr   bool
		canonical string
	}{
		{spec: "23/3", canonical: "23/3"},
		{spec: "32/3", canonical: "23/3"},
		{spec: "223/33", canonical: "23/3"},
		{spec: "/3", canonical: "/3"},
		{spec: "23/", canonical: "23/"},
		{spec: "/", canonical: "/"},
		{spec: "012345678/012345678", canonical: "012345678/012345678"},
		{spec: "", wantErr: true},
		{spec: "23", wantErr: true},
		{spec: "2/3/4", wantErr: true},
		{spec: "2a/3", wantErr: true},
		{spec: "23/ 3", wantErr: true},
		{spec: "9/3", wantErr: true},
		{spec: "-1/3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			r, err := ParseRule(tt.spec)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRuleFormat) {
					t.Fatalf("ParseRule(%q) err = %v, want ErrInvalidRuleFormat", tt.spec, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRule(%q) unexpected error: %v", tt.spec, err)
			}
			if got := r.String(); got != tt.canonical {
				t.Errorf("String() = %q, want %q", got, tt.canonical)
			}
		})
	}
}

func TestConwayNextState(t *testing.T) {
	r := MustParseRule("23/3")

	for n := 0; n <= MaxNeighbors; n++ {
		for _, alive := range []bool{true, false} {
			want := n == 3 || (alive && n == 2)
			if got := r.GetNextState(alive, n); got != want {
				t.Errorf("GetNextState(%v, %d) = %v, want %v", alive, n, got, want)
			}
		}
	}
}

func TestConwayBirthAndSurviveOnThree(t *testing.T) {
	r := MustParseRule("23/3")
	if !r.GetNextState(true, 3) || !r.GetNextState(false, 3) {
		t.Fatal("three live neighbours must yield a live cell regardless of prior state")
	}
	for _, n := range []int{0, 1} {
		if r.GetNextState(true, n) || r.GetNextState(false, n) {
			t.Fatalf("%d live neighbours must yield a dead cell", n)
		}
	}
}

func TestBirthOnlyRuleKillsLiveCells(t *testing.T) {
	r := MustParseRule("/3")
	for n := 0; n <= MaxNeighbors; n++ {
		if r.GetNextState(true, n) {
			t.Errorf("live cell with %d neighbours survived under /3", n)
		}
	}
	if !r.GetNextState(false, 3) {
		t.Error("dead cell with 3 neighbours not born under /3")
	}
}

func TestGetNextStateOutOfRangeCount(t *testing.T) {
	r := MustParseRule("012345678/012345678")
	for _, n := range []int{-1, 9, 16} {
		if r.GetNextState(true, n) || r.GetNextState(false, n) {
			t.Errorf("count %d should never match", n)
		}
	}
}

func TestSurvivesAndBirthsSplitTheRule(t *testing.T) {
	r := MustParseRule("23/36")
	for n := range MaxNeighbors + 1 {
		if r.Survives(n) != (n == 2 || n == 3) {
			t.Errorf("Survives(%d) = %v", n, r.Survives(n))
		}
		if r.Births(n) != (n == 3 || n == 6) {
			t.Errorf("Births(%d) = %v", n, r.Births(n))
		}
		if r.GetNextState(true, n) != r.Survives(n) || r.GetNextState(false, n) != r.Births(n) {
			t.Errorf("GetNextState disagrees at %d", n)
		}
	}
}
