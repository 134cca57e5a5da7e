package game

// Heading is the direction the snake's head is travelling in. The
// numeric values double as the environment's action indices.
type Heading int

const (
	Up Heading = iota
	Down
	Left
	Right
)

// Headings lists every heading in action-index order
var Headings = [...]Heading{Up, Down, Left, Right}

// HeadingFromAction maps an action index to a heading. The boolean is
// false for indices outside [0, len(Headings)).
func HeadingFromAction(action int) (Heading, bool) {
	if action < 0 || action >= len(Headings) {
		return 0, false
	}
	return Headings[action], true
}

// Opposite returns the 180° reverse of h
func (h Heading) Opposite() Heading {
	switch h {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Vector returns the unit step of the heading in board coordinates,
// where y grows downwards.
func (h Heading) Vector() (dx, dy int) {
	switch h {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

func (h Heading) String() string {
	switch h {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}
