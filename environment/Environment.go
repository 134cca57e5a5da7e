// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/snakelearn/game"
	"github.com/samuelfneumann/snakelearn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Task implements the reward scheme for the events that happen in some
// environment
type Task interface {
	// GetReward returns the reward for a tick which ended with event e
	GetReward(e game.Event) float64

	// Min and Max bound the rewards the Task can return
	Min() float64
	Max() float64
}

// Ender determines when an episode should be cut off independently of
// the environment's own termination
type Ender interface {
	// End reports whether the episode should end at t and, if so,
	// marks t as the last step
	End(t *timestep.TimeStep) bool
}

// Environment implements a simulated environment, which includes a Task
// to complete
type Environment interface {
	Reset() timestep.TimeStep                   // Resets between episodes
	Step(action int) (timestep.TimeStep, bool) // Takes one tick
	CurrentTimeStep() timestep.TimeStep
	State() *mat.VecDense
	ObservationSpec() Spec
	ActionSpec() Spec
}

// Renderable is an Environment whose board can be drawn and whose last
// game event can be inspected
type Renderable interface {
	Environment
	Snapshot() game.Snapshot
	LastEvent() game.Event
}
