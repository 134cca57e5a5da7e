// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/snakelearn/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation. The weight matrix has one row per feature and one
// column per action, so that the action values in a state are the
// product of the transposed weights and the state's feature vector.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	seed    rand.Source // Seed for random number generation
}

// NewEGreedy constructs a new EGreedy policy, where e=epsilon is the
// probability with which a random action is selected; features is the
// number of features in a given feature vector for the environment;
// actions are the number of actions in the environment
func NewEGreedy(e float64, seed uint64, features,
	actions int) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon %v not in [0, 1]", e)
	}
	if features < 1 || actions < 1 {
		return nil, fmt.Errorf("newEGreedy: need at least one feature and "+
			"one action, got (%d, %d)", features, actions)
	}

	source := rand.NewSource(seed)

	// Create the weight matrix: rows = features, cols = actions
	weights := mat.NewDense(features, actions, nil)

	return &EGreedy{weights, e, source}, nil
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SetWeights sets the weight pointers to point to a new set of weights.
// The SetWeights function can take the output of a call to Weights()
// on another EGreedy Policy directly
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"", WeightsKey)
	}

	r, c := p.weights.Dims()
	if nr, nc := newWeights.Dims(); nr != r || nc != c {
		return fmt.Errorf("setWeights: weights shape (%d, %d) does not "+
			"match (%d, %d)", nr, nc, r, c)
	}

	p.weights = newWeights
	return nil
}

// Epsilon returns the probability of selecting a random action
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the probability of selecting a random action
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = e
}

// ActionValues returns the value of each action in state
func (p *EGreedy) ActionValues(state mat.Vector) *mat.VecDense {
	_, numActions := p.weights.Dims()
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights.T(), state)

	return actionValues
}

// Act selects an action from an ε-greedy policy
func (p *EGreedy) Act(state *mat.VecDense) int {
	// Find the greedy action
	actionValues := p.ActionValues(state)
	greedyAction := matutils.MaxVec(actionValues)
	if p.epsilon == 0 {
		return greedyAction
	}

	// Calculate the ε probability of choosing any action at random
	numActions := actionValues.Len()
	prob := p.epsilon / float64(numActions)
	actionProbabilities := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilities[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilities[greedyAction] += (1.0 - p.epsilon)

	// Construct a categorical distribution over actions using action
	// probabilities and sample an action
	dist := distuv.NewCategorical(actionProbabilities, p.seed)
	return int(dist.Rand())
}
