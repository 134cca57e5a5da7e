package game

// freeCells returns every cell not covered by the snake in row-major
// order
func (g *Game) freeCells() []Cell {
	occupied := make(map[Cell]bool, len(g.snake))
	for _, c := range g.snake {
		occupied[c] = true
	}

	free := make([]Cell, 0, g.width*g.height-len(occupied))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := Cell{X: x, Y: y}
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}
	return free
}

// spawnFood draws a cell uniformly from the free cells. The boolean is
// false when the snake covers the whole board.
func (g *Game) spawnFood() (Cell, bool) {
	free := g.freeCells()
	if len(free) == 0 {
		return Cell{}, false
	}
	return free[g.rng.Intn(len(free))], true
}
