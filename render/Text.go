package render

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/snakelearn/game"
)

// Text draws the board as ASCII to an io.Writer: '#' is the head, 'o'
// the body, '*' the food and '.' an empty cell. Boards are separated by
// a blank line.
type Text struct {
	w     io.Writer
	every int
	frame int
}

// NewText returns a Text Drawer writing every n-th snapshot to w. An n
// less than 1 draws every snapshot.
func NewText(w io.Writer, n int) *Text {
	if n < 1 {
		n = 1
	}
	return &Text{w: w, every: n}
}

// Draw satisfies the Drawer interface
func (t *Text) Draw(s game.Snapshot) error {
	t.frame++
	if (t.frame-1)%t.every != 0 {
		return nil
	}

	if _, err := fmt.Fprintf(t.w, "%v\n", s); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}
