package policy

// NewGreedy creates a new Greedy policy, which always selects the
// action of highest value, breaking ties in favour of the lowest index
func NewGreedy(seed uint64, features, actions int) (*EGreedy, error) {
	return NewEGreedy(0.0, seed, features, actions)
}
