// Package game implements the Snake board: a single snake on a bounded
// grid that moves one cell per tick, grows by eating food and dies when
// it leaves the board or runs into itself.
package game

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// ErrBoardTooSmall is returned for boards which cannot hold both the
// starting snake and a piece of food
var ErrBoardTooSmall = errors.New("board must have at least 2 cells")

// Cell is a board coordinate. (0, 0) is the top-left corner.
type Cell struct {
	X, Y int
}

// Game holds the state of a single Snake episode.
//
// The snake is stored head first. Apart from the new head being pushed
// before the tail is popped inside Advance, every cell of the snake is
// distinct and the food never lies on the snake.
type Game struct {
	width, height int
	snake         []Cell
	heading       Heading
	food          Cell
	rng           *rand.Rand
}

// New creates a game on a width x height board with a single-cell snake
// in the centre heading Right and food on a random free cell
func New(width, height int, seed uint64) (*Game, error) {
	if width < 1 || height < 1 || width*height < 2 {
		return nil, fmt.Errorf("new: %dx%d: %w", width, height,
			ErrBoardTooSmall)
	}

	g := &Game{
		width:   width,
		height:  height,
		snake:   []Cell{{X: width / 2, Y: height / 2}},
		heading: Right,
		rng:     rand.New(rand.NewSource(seed)),
	}
	g.food, _ = g.spawnFood()

	return g, nil
}

// FromSnapshot rebuilds a game from a snapshot so that an episode can be
// resumed from an arbitrary position. The snake must be non-empty, in
// bounds and free of overlaps and the food must be on a free cell.
func FromSnapshot(s Snapshot, seed uint64) (*Game, error) {
	if s.Width < 1 || s.Height < 1 || s.Width*s.Height < 2 {
		return nil, fmt.Errorf("fromSnapshot: %dx%d: %w", s.Width, s.Height,
			ErrBoardTooSmall)
	}
	if len(s.Snake) == 0 {
		return nil, fmt.Errorf("fromSnapshot: empty snake")
	}

	g := &Game{
		width:   s.Width,
		height:  s.Height,
		snake:   make([]Cell, len(s.Snake)),
		heading: s.Heading,
		food:    s.Food,
		rng:     rand.New(rand.NewSource(seed)),
	}
	copy(g.snake, s.Snake)

	seen := make(map[Cell]bool, len(g.snake))
	for _, c := range g.snake {
		if !g.inBounds(c) {
			return nil, fmt.Errorf("fromSnapshot: snake cell %v out of "+
				"bounds", c)
		}
		if seen[c] {
			return nil, fmt.Errorf("fromSnapshot: snake overlaps itself "+
				"at %v", c)
		}
		seen[c] = true
	}
	if !g.inBounds(s.Food) || seen[s.Food] {
		return nil, fmt.Errorf("fromSnapshot: food %v is not on a free "+
			"cell", s.Food)
	}

	return g, nil
}

// SetDirection turns the snake unless h is the reverse of the current
// heading, in which case the turn is silently ignored
func (g *Game) SetDirection(h Heading) {
	if h == g.heading.Opposite() {
		return
	}
	g.heading = h
}

// Update advances the game by one tick and returns whether the episode
// continues
func (g *Game) Update() bool {
	return g.Advance().Alive()
}

// Advance advances the game by one tick and returns what happened. The
// game must not be advanced again after an event that is not Alive.
func (g *Game) Advance() Event {
	dx, dy := g.heading.Vector()
	head := g.snake[0]
	next := Cell{X: head.X + dx, Y: head.Y + dy}

	if !g.inBounds(next) {
		return HitWall
	}
	if g.occupied(next) {
		return HitSelf
	}

	g.snake = append(g.snake, Cell{})
	copy(g.snake[1:], g.snake)
	g.snake[0] = next

	if next != g.food {
		g.snake = g.snake[:len(g.snake)-1]
		return Moved
	}

	food, ok := g.spawnFood()
	if !ok {
		return Filled
	}
	g.food = food
	return Ate
}

// Head returns the cell of the snake's head
func (g *Game) Head() Cell {
	return g.snake[0]
}

// Food returns the cell of the food
func (g *Game) Food() Cell {
	return g.food
}

// Heading returns the current heading of the snake
func (g *Game) Heading() Heading {
	return g.heading
}

// Len returns the length of the snake
func (g *Game) Len() int {
	return len(g.snake)
}

// Dims returns the width and height of the board
func (g *Game) Dims() (width, height int) {
	return g.width, g.height
}

// Snapshot returns a copy of the board state which is safe to hand to
// renderers
func (g *Game) Snapshot() Snapshot {
	snake := make([]Cell, len(g.snake))
	copy(snake, g.snake)

	return Snapshot{
		Width:   g.width,
		Height:  g.height,
		Snake:   snake,
		Food:    g.food,
		Heading: g.heading,
	}
}

func (g *Game) String() string {
	str := "Game | Head: %v  |  Food: %v  |  Heading: %v  |  Length: %d  |  " +
		"Bounds: (%d, %d)"
	return fmt.Sprintf(str, g.Head(), g.food, g.heading, len(g.snake),
		g.width, g.height)
}

func (g *Game) inBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

func (g *Game) occupied(c Cell) bool {
	for _, s := range g.snake {
		if s == c {
			return true
		}
	}
	return false
}

// Snapshot is a read-only view of a game
type Snapshot struct {
	Width, Height int
	Snake         []Cell // head first
	Food          Cell
	Heading       Heading
}

// String renders the snapshot as ASCII, one row per line: '#' is the
// head, 'o' the body, '*' the food and '.' an empty cell
func (s Snapshot) String() string {
	grid := make([][]byte, s.Height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", s.Width))
	}

	if s.Food.X >= 0 && s.Food.X < s.Width && s.Food.Y >= 0 &&
		s.Food.Y < s.Height {
		grid[s.Food.Y][s.Food.X] = '*'
	}
	for i, c := range s.Snake {
		if c.X < 0 || c.X >= s.Width || c.Y < 0 || c.Y >= s.Height {
			continue
		}
		if i == 0 {
			grid[c.Y][c.X] = '#'
		} else {
			grid[c.Y][c.X] = 'o'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
