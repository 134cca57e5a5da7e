package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/snakelearn/game"
)

// Colours of the PNG board
var (
	background = [3]float64{0.08, 0.08, 0.1}
	body       = [3]float64{0.2, 0.7, 0.3}
	head       = [3]float64{0.6, 0.95, 0.4}
	food       = [3]float64{0.9, 0.2, 0.2}
)

// PNG draws every n-th snapshot into its own PNG file. Each cell of the
// board is a square of cellSize pixels.
type PNG struct {
	filename func() string
	every    int
	cellSize int
	frame    int
}

// NewPNG returns a new PNG Drawer. Each drawn frame is saved under the
// name returned by filename, for example the names of a
// checkpointer.FilenameEnumerator.
func NewPNG(filename func() string, n, cellSize int) (*PNG, error) {
	if cellSize < 1 {
		return nil, fmt.Errorf("newPNG: cell size must be positive, got %d",
			cellSize)
	}
	if n < 1 {
		n = 1
	}
	return &PNG{filename: filename, every: n, cellSize: cellSize}, nil
}

// Draw satisfies the Drawer interface
func (p *PNG) Draw(s game.Snapshot) error {
	p.frame++
	if (p.frame-1)%p.every != 0 {
		return nil
	}

	name := p.filename()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	dc := Image(s, p.cellSize)
	if err := dc.SavePNG(name); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Image draws the snapshot onto a new drawing context, cellSize pixels
// per cell
func Image(s game.Snapshot, cellSize int) *gg.Context {
	size := float64(cellSize)
	dc := gg.NewContext(s.Width*cellSize, s.Height*cellSize)
	dc.SetRGB(background[0], background[1], background[2])
	dc.Clear()

	cell := func(c game.Cell, colour [3]float64) {
		dc.DrawRectangle(float64(c.X)*size+1, float64(c.Y)*size+1,
			size-2, size-2)
		dc.SetRGB(colour[0], colour[1], colour[2])
		dc.Fill()
	}

	cell(s.Food, food)
	for i := len(s.Snake) - 1; i >= 0; i-- {
		colour := body
		if i == 0 {
			colour = head
		}
		cell(s.Snake[i], colour)
	}

	return dc
}
