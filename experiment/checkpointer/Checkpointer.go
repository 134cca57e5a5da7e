// Package checkpointer implements Checkpointers, which periodically
// save an agent's learned parameters during an experiment
package checkpointer

// Checkpointer checkpoints/saves an agent based on the total number of
// steps taken in an experiment
type Checkpointer interface {
	Checkpoint(step int) error
}
