// Package random implements an agent which acts uniformly at random
// and never learns. It serves as a baseline for learning agents.
package random

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random selects each action with equal probability
type Random struct {
	actions int
	dist    distuv.Uniform
}

// New returns a new Random agent over actions (0, 1, ..., actions-1)
func New(actions int, seed uint64) (*Random, error) {
	if actions < 1 {
		return nil, fmt.Errorf("new: need at least one action, got %d",
			actions)
	}

	source := rand.NewSource(seed)
	dist := distuv.Uniform{Min: 0, Max: float64(actions), Src: source}

	return &Random{actions, dist}, nil
}

// Act selects an action uniformly at random. The state is ignored.
func (r *Random) Act(_ *mat.VecDense) int {
	a := int(r.dist.Rand())
	if a >= r.actions {
		a = r.actions - 1
	}
	return a
}

// Learn does nothing and reports a TD error of zero
func (r *Random) Learn(_ *mat.VecDense, _ int, _ float64,
	_ *mat.VecDense) float64 {
	return 0
}

func (r *Random) String() string {
	return fmt.Sprintf("Random | actions: %d", r.actions)
}
