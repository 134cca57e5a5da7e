package random

import (
	"math"
	"testing"

	"github.com/samuelfneumann/snakelearn/agent"
	"gonum.org/v1/gonum/mat"
)

var _ agent.Agent = &Random{}

func TestNewInvalid(t *testing.T) {
	if _, err := New(0, 1); err == nil {
		t.Error("expected an error for zero actions")
	}
}

func TestActUniform(t *testing.T) {
	r, err := New(4, 11)
	if err != nil {
		t.Fatal(err)
	}

	const trials = 40000
	counts := make([]int, 4)
	state := mat.NewVecDense(2, nil)
	for i := 0; i < trials; i++ {
		a := r.Act(state)
		if a < 0 || a >= 4 {
			t.Fatalf("action %d out of range", a)
		}
		counts[a]++
	}

	for a, n := range counts {
		if freq := float64(n) / trials; math.Abs(freq-0.25) > 0.02 {
			t.Errorf("action %d chosen with frequency %v", a, freq)
		}
	}
}

func TestLearnNoOp(t *testing.T) {
	r, err := New(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	state := mat.NewVecDense(2, []float64{1, 1})
	if delta := r.Learn(state, 0, 1, state); delta != 0 {
		t.Errorf("δ = %v, expected 0", delta)
	}
}
