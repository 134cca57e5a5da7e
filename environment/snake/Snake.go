// Package snake implements the Snake environment: a game of Snake on a
// bounded grid, observed through a fixed-length feature vector
package snake

import (
	"fmt"

	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/game"
	ts "github.com/samuelfneumann/snakelearn/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	// Features is the length of the feature vector:
	// (head x, head y, food x, food y, heading dx, heading dy)
	Features int = 6

	// Actions is the number of discrete actions. Actions index
	// game.Headings: 0 = Up, 1 = Down, 2 = Left, 3 = Right.
	Actions int = len(game.Headings)
)

// Snake implements the Snake environment.
//
// Each call to Step turns the snake according to the action and then
// advances the game by one tick. Actions outside [0, Actions) leave the
// heading unchanged. The episode ends when the snake collides with a
// wall or with itself, or when it covers the whole board. The reward for
// each tick is determined by the environment's Task.
//
// Snake implements the environment.Environment interface
type Snake struct {
	environment.Task
	ender         environment.Ender
	width, height int
	discount      float64
	seed          uint64
	episodes      uint64

	game        *game.Game
	lastEvent   game.Event
	currentStep ts.TimeStep
}

// New creates a new Snake environment on a width x height board with
// task t and discount factor discount. Each episode's food placement is
// seeded from seed and the episode number, so runs are reproducible.
func New(width, height int, t environment.Task, discount float64,
	seed uint64) (*Snake, ts.TimeStep, error) {
	if t == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: task cannot be nil")
	}
	if _, err := game.New(width, height, seed); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	s := &Snake{
		Task:     t,
		width:    width,
		height:   height,
		discount: discount,
		seed:     seed,
	}

	return s, s.Reset(), nil
}

// SetEnder registers an Ender which may cut episodes short. A nil Ender
// removes any registered Ender.
func (s *Snake) SetEnder(e environment.Ender) {
	s.ender = e
}

// Reset discards the current game and starts a new episode, returning
// its first TimeStep
func (s *Snake) Reset() ts.TimeStep {
	g, err := game.New(s.width, s.height, s.seed+s.episodes)
	if err != nil {
		// Dimensions were validated by New
		panic(fmt.Sprintf("reset: %v", err))
	}
	s.episodes++

	return s.start(g)
}

// Restore starts a new episode from the argument game, which is then
// owned by the environment
func (s *Snake) Restore(g *game.Game) ts.TimeStep {
	s.width, s.height = g.Dims()
	return s.start(g)
}

func (s *Snake) start(g *game.Game) ts.TimeStep {
	s.game = g
	s.lastEvent = game.Moved

	step := ts.New(ts.First, 0, s.discount, s.State(), 0)
	s.currentStep = step
	return step
}

// Step turns the snake according to action, advances the game by one
// tick and returns the resulting TimeStep along with whether the episode
// has ended
func (s *Snake) Step(action int) (ts.TimeStep, bool) {
	if heading, ok := game.HeadingFromAction(action); ok {
		s.game.SetDirection(heading)
	}

	event := s.game.Advance()
	s.lastEvent = event

	stepType := ts.Mid
	if !event.Alive() {
		stepType = ts.Last
	}

	reward := s.GetReward(event)
	number := s.currentStep.Number + 1
	step := ts.New(stepType, reward, s.discount, s.State(), number)

	if s.ender != nil {
		s.ender.End(&step)
	}

	s.currentStep = step
	return step, step.Last()
}

// State returns the feature vector of the current game. It does not
// modify the environment.
func (s *Snake) State() *mat.VecDense {
	return Observe(s.game)
}

// Observe returns the feature vector of a game: the head and food
// positions normalized by the board dimensions followed by the unit
// vector of the heading
func Observe(g *game.Game) *mat.VecDense {
	width, height := g.Dims()
	w, h := float64(width), float64(height)
	head, food := g.Head(), g.Food()
	dx, dy := g.Heading().Vector()

	return mat.NewVecDense(Features, []float64{
		float64(head.X) / w,
		float64(head.Y) / h,
		float64(food.X) / w,
		float64(food.Y) / h,
		float64(dx),
		float64(dy),
	})
}

// CurrentTimeStep returns the last TimeStep returned by the environment
func (s *Snake) CurrentTimeStep() ts.TimeStep {
	return s.currentStep
}

// LastEvent returns the event of the most recent tick
func (s *Snake) LastEvent() game.Event {
	return s.lastEvent
}

// Game returns the game currently being played. Callers must not
// modify it.
func (s *Snake) Game() *game.Game {
	return s.game
}

// Snapshot returns a read-only copy of the current board
func (s *Snake) Snapshot() game.Snapshot {
	return s.game.Snapshot()
}

// ObservationSpec returns the observation specification of the
// environment
func (s *Snake) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(Features, nil)
	lowerBound := mat.NewVecDense(Features, []float64{0, 0, 0, 0, -1, -1})
	upperBound := mat.NewVecDense(Features, []float64{1, 1, 1, 1, 1, 1})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (s *Snake) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{float64(Actions - 1)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

func (s *Snake) String() string {
	str := "Snake | %v  |  Task: %v"
	return fmt.Sprintf(str, s.game, s.Task)
}
