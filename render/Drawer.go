// Package render draws snapshots of a game of Snake
package render

import "github.com/samuelfneumann/snakelearn/game"

// Drawer draws a snapshot of a game. Training never depends on a
// Drawer succeeding: callers log draw errors and carry on.
type Drawer interface {
	Draw(s game.Snapshot) error
}

// Multi draws each snapshot with every Drawer in turn, stopping at the
// first error
type Multi []Drawer

// Draw satisfies the Drawer interface
func (m Multi) Draw(s game.Snapshot) error {
	for _, d := range m {
		if err := d.Draw(s); err != nil {
			return err
		}
	}
	return nil
}
