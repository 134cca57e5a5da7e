package snake

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/game"
	"gonum.org/v1/gonum/floats"
)

// Default rewards of the Forage task
const (
	DeathReward float64 = -1.0
	FoodReward  float64 = 1.0
	StepReward  float64 = 0.0
)

// Forage is the task of eating as much food as possible without
// colliding. The reward signal is sparse: one reward for dying, one for
// eating and one for every other tick.
type Forage struct {
	deathReward float64
	foodReward  float64
	stepReward  float64
}

// NewForage returns a Forage task with the argument rewards
func NewForage(death, food, step float64) *Forage {
	return &Forage{death, food, step}
}

// DefaultForage returns a Forage task paying -1 on collision, +1 on
// eating and 0 otherwise
func DefaultForage() *Forage {
	return NewForage(DeathReward, FoodReward, StepReward)
}

// GetReward returns the reward for a tick which ended with event e
func (f *Forage) GetReward(e game.Event) float64 {
	switch {
	case e.Collision():
		return f.deathReward
	case e.Grew():
		return f.foodReward
	default:
		return f.stepReward
	}
}

// Min returns the minimum reward attainable in the Task
func (f *Forage) Min() float64 {
	return floats.Min([]float64{f.deathReward, f.foodReward, f.stepReward})
}

// Max returns the maximum reward attainable in the Task
func (f *Forage) Max() float64 {
	return floats.Max([]float64{f.deathReward, f.foodReward, f.stepReward})
}

func (f *Forage) String() string {
	return fmt.Sprintf("Forage{death: %v, food: %v, step: %v}",
		f.deathReward, f.foodReward, f.stepReward)
}
