package qlearning

import (
	"gonum.org/v1/gonum/mat"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm.
type QLearner struct {
	weights      *mat.Dense
	learningRate float64
	discount     float64
}

// NewQLearner creates a new QLearner struct
//
// weights are the weights of the policy to learn, with one row per
// feature and one column per action
func NewQLearner(weights *mat.Dense, learningRate,
	discount float64) *QLearner {
	return &QLearner{weights, learningRate, discount}
}

// TdError returns the TD error of a transition without updating the
// weights
func (q *QLearner) TdError(state *mat.VecDense, action int, reward float64,
	next *mat.VecDense) float64 {
	_, numActions := q.weights.Dims()

	// Calculate the action values in the next state
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(q.weights.T(), next)

	// Find the maximum action value in the next state
	maxVal := mat.Max(actionValues)

	// Create the update target
	target := reward + q.discount*maxVal

	// Find the current estimate of the taken action
	weights := q.weights.ColView(action)
	currentEstimate := mat.Dot(weights, state)

	return target - currentEstimate
}

// Learn updates the weights of the taken action from a single
// transition and returns the TD error before the update. Only the
// column of the weights belonging to action changes.
func (q *QLearner) Learn(state *mat.VecDense, action int, reward float64,
	next *mat.VecDense) float64 {
	tdError := q.TdError(state, action, reward, next)

	// Construct the scaling factor of the gradient
	scale := q.learningRate * tdError

	// Perform gradient descent: ∇weights = scale * state
	weights := q.weights.ColView(action)
	newWeights := mat.NewVecDense(weights.Len(), nil)
	newWeights.AddScaledVec(weights, scale, state)
	q.weights.SetCol(action, newWeights.RawVector().Data)

	return tdError
}
