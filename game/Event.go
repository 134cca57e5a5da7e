package game

// Event describes what happened to the snake on a single tick
type Event int

const (
	Moved   Event = iota // moved onto an empty cell
	Ate                  // moved onto the food and grew
	HitWall              // tried to leave the board
	HitSelf              // ran into its own body
	Filled               // ate the food and no free cell is left
)

// Alive returns whether the episode continues after the event
func (e Event) Alive() bool {
	return e == Moved || e == Ate
}

// Collision returns whether the event ended the episode by collision
func (e Event) Collision() bool {
	return e == HitWall || e == HitSelf
}

// Grew returns whether the snake ate on the tick
func (e Event) Grew() bool {
	return e == Ate || e == Filled
}

func (e Event) String() string {
	switch e {
	case Moved:
		return "moved"
	case Ate:
		return "ate"
	case HitWall:
		return "wall"
	case HitSelf:
		return "self"
	case Filled:
		return "filled"
	default:
		return "unknown"
	}
}
