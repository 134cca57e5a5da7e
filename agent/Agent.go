// Package agent defines an agent interface
package agent

import (
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Learn performs a single update from the transition
	// (state, action, reward, next state) and returns the TD error of
	// the transition before the update
	Learn(state *mat.VecDense, action int, reward float64,
		next *mat.VecDense) float64
}

// TdErrorer is a Learner that can return the TD error of some transition
// without learning from it
type TdErrorer interface {
	Learner
	TdError(state *mat.VecDense, action int, reward float64,
		next *mat.VecDense) float64
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. For a given agent, the
// Policy and Learner should have pointers to the same weights so that
// any changes the learner makes to the weights are reflected in the
// actions the Policy chooses.
type Policy interface {
	Act(state *mat.VecDense) int
}

// Saver is an agent whose learned parameters can be written to disk
type Saver interface {
	Save(path string) error
}
