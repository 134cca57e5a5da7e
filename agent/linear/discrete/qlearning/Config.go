package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/utils/matutils/initializers/weights"
)

// InitBound bounds the uniform distribution [-InitBound, InitBound)
// that CreateAgent draws initial weights from
const InitBound float64 = 1.0

// Config represents a configuration for the QLearning agent
type Config struct {
	Epsilon      float64 // epsilon for behaviour policy
	LearningRate float64
	Discount     float64
}

// DefaultConfig returns the configuration the agent is usually run with
func DefaultConfig() Config {
	return Config{Epsilon: 0.1, LearningRate: 0.01, Discount: 0.9}
}

// CreateAgent creates the agent from the Config, sized to the argument
// environment. Agent weights are initialized uniformly at random in
// [-InitBound, InitBound).
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (*QLearning, error) {
	features := env.ObservationSpec().Shape.Len()
	if n := env.State().Len(); n != features {
		return nil, fmt.Errorf("createAgent: environment state has %d "+
			"features but its observation spec has %d", n, features)
	}

	actions, err := env.ActionSpec().Actions()
	if err != nil {
		return nil, fmt.Errorf("createAgent: %w", err)
	}

	init := weights.NewUniform(-InitBound, InitBound, seed)
	return New(features, actions, c, init, seed)
}

// ValidFor returns an error if an agent cannot act in the argument
// environment, which happens when the agent was created for a feature
// vector or action space of a different size
func (q *QLearning) ValidFor(env environment.Environment) error {
	features, actions := q.Dims()
	if n := env.ObservationSpec().Shape.Len(); n != features {
		return fmt.Errorf("validFor: agent expects %d features, "+
			"environment has %d", features, n)
	}

	envActions, err := env.ActionSpec().Actions()
	if err != nil {
		return fmt.Errorf("validFor: %w", err)
	}
	if envActions != actions {
		return fmt.Errorf("validFor: agent has %d actions, environment "+
			"has %d", actions, envActions)
	}
	return nil
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1]")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1]")
	}
	return nil
}
