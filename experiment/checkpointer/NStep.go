package checkpointer

import (
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/snakelearn/agent"
)

// nStep implements checkpointing every N steps
type nStep struct {
	interval int
	object   agent.Saver // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each checkpoint should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// agent1.json, agent2.json, ..., agentK.json), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames. To overwrite a single file, use
	// Fixed.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n steps. A
// non-positive n disables checkpointing.
func NewNStep(n int, object agent.Saver,
	filename func() string) Checkpointer {
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nStep) Checkpoint(step int) error {
	if n.interval <= 0 || step <= 0 || step%n.interval != 0 {
		return nil
	}

	filename := n.filename()
	if err := n.object.Save(filename); err != nil {
		return fmt.Errorf("checkpoint: step %d: %w", step, err)
	}
	slog.Debug("checkpoint", "step", step, "path", filename)
	return nil
}
