// Package qlearning implements the Q-Learning algorithm with linear
// function approximation.
//
// The action values of a state are the product of the transposed weight
// matrix and the state's feature vector. After every transition the
// column of the weights belonging to the taken action moves towards the
// one-step target r + γ max_a' Q(s', a'). There is no replay buffer,
// no batching and no eligibility trace.
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/agent/linear/discrete/policy"
	"github.com/samuelfneumann/snakelearn/utils/matutils"
	"github.com/samuelfneumann/snakelearn/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm
type QLearning struct {
	*QLearner
	behaviour *policy.EGreedy
	target    *policy.EGreedy
	config    Config
	seed      uint64
}

// New creates a new QLearning struct for feature vectors of length
// features and actions enumerated (0, 1, ..., actions-1). The weights
// are initialized by init, or uniformly in [-InitBound, InitBound) if
// init is nil.
func New(features, actions int, c Config, init weights.Initializer,
	seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("qlearning: invalid config: %w", err)
	}

	behaviour, err := policy.NewEGreedy(c.Epsilon, seed, features, actions)
	if err != nil {
		return nil, fmt.Errorf("qlearning: invalid behaviour policy: %w",
			err)
	}
	target, err := policy.NewGreedy(seed, features, actions)
	if err != nil {
		return nil, fmt.Errorf("qlearning: invalid target policy: %w", err)
	}

	// Ensure both policies and learner reference the same weights
	w := behaviour.Weights()
	if err := target.SetWeights(w); err != nil {
		return nil, fmt.Errorf("qlearning: %w", err)
	}

	if init == nil {
		init = weights.NewUniform(-InitBound, InitBound, seed)
	}
	init.Initialize(w[policy.WeightsKey])

	learner := NewQLearner(w[policy.WeightsKey], c.LearningRate, c.Discount)

	return &QLearning{learner, behaviour, target, c, seed}, nil
}

// Act selects an action with the ε-greedy behaviour policy
func (q *QLearning) Act(state *mat.VecDense) int {
	return q.behaviour.Act(state)
}

// Greedy selects the action of highest value, breaking ties in favour
// of the lowest action index
func (q *QLearning) Greedy(state *mat.VecDense) int {
	return q.target.Act(state)
}

// Predict returns the estimated value of each action in state
func (q *QLearning) Predict(state *mat.VecDense) *mat.VecDense {
	return q.behaviour.ActionValues(state)
}

// Epsilon returns the exploration rate of the behaviour policy
func (q *QLearning) Epsilon() float64 {
	return q.behaviour.Epsilon()
}

// SetEpsilon sets the exploration rate of the behaviour policy
func (q *QLearning) SetEpsilon(e float64) {
	q.behaviour.SetEpsilon(e)
	q.config.Epsilon = e
}

// Config returns the configuration of the agent
func (q *QLearning) Config() Config {
	return q.config
}

// Dims returns the number of features and actions of the agent
func (q *QLearning) Dims() (features, actions int) {
	return q.weights.Dims()
}

// Weights gets and returns the weights of the agent as a string
// description -> weights
func (q *QLearning) Weights() map[string]*mat.Dense {
	return q.behaviour.Weights()
}

// SetWeights copies new weights into the agent. The weights must have
// the same shape as the agent's weights.
func (q *QLearning) SetWeights(w map[string]*mat.Dense) error {
	newWeights, ok := w[policy.WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"",
			policy.WeightsKey)
	}

	r, c := q.weights.Dims()
	if nr, nc := newWeights.Dims(); nr != r || nc != c {
		return fmt.Errorf("setWeights: weights shape (%d, %d) does not "+
			"match (%d, %d)", nr, nc, r, c)
	}

	q.weights.Copy(newWeights)
	return nil
}

func (q *QLearning) String() string {
	str := "QLearning | ε: %v  |  α: %v  |  γ: %v  |  Weights:\n%v"
	return fmt.Sprintf(str, q.config.Epsilon, q.config.LearningRate,
		q.config.Discount, matutils.Format(q.weights))
}
