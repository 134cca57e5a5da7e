// Package experiment implements functionality for running an experiment:
// a Driver which ticks an environment at a fixed interval, feeds each
// transition to an agent and periodically saves the agent.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/trackers"
	"github.com/samuelfneumann/snakelearn/render"
	ts "github.com/samuelfneumann/snakelearn/timestep"
	"github.com/samuelfneumann/snakelearn/utils/progressbar"
)

// DefaultTick is the interval between two ticks of a Driver
const DefaultTick = 100 * time.Millisecond

// Options configures a Driver. The zero value ticks as fast as
// possible, forever, without saving anything.
type Options struct {
	// Tick is the wall-clock interval between ticks in Run. A
	// non-positive Tick runs ticks back to back.
	Tick time.Duration

	// MaxSteps stops the Driver after that many ticks. Zero means no
	// limit.
	MaxSteps int

	// SavePath is where Close saves the agent, if the agent is an
	// agent.Saver. An empty SavePath skips the final save.
	SavePath string

	Checkpointers []checkpointer.Checkpointer
	Trackers      []trackers.Tracker

	// Drawer draws the board after every tick. Draw errors are logged.
	Drawer render.Drawer

	// Progress is incremented and displayed every tick when MaxSteps
	// is set
	Progress *progressbar.ManualProgressBar

	Logger *slog.Logger
}

// Stats summarizes the progress of a Driver
type Stats struct {
	Steps    int // ticks taken in total
	Episodes int // episodes finished

	EpisodeSteps  int
	EpisodeReturn float64
	EpisodeFood   int

	LastReturn float64 // return of the last finished episode
	LastEnding string  // how the last finished episode ended
	BestLength int     // longest snake at the end of any episode
	BestReturn float64
	TdError    float64 // TD error of the last transition
}

// Driver runs an agent online in an environment. The Driver exclusively
// owns both: every state transition happens inside Tick.
type Driver struct {
	env   environment.Renderable
	agent agent.Agent
	opts  Options

	logger *slog.Logger
	step   ts.TimeStep
	action int
	stats  Stats
	closed bool
}

// NewDriver returns a Driver for the agent in env. The environment is
// reset and the agent chooses its first action.
func NewDriver(env environment.Renderable, a agent.Agent,
	opts Options) (*Driver, error) {
	if env == nil || a == nil {
		return nil, fmt.Errorf("newDriver: environment and agent are " +
			"required")
	}
	if opts.MaxSteps < 0 {
		return nil, fmt.Errorf("newDriver: max steps must be "+
			"non-negative, got %d", opts.MaxSteps)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d := &Driver{
		env:    env,
		agent:  a,
		opts:   opts,
		logger: logger,
	}

	d.step = env.Reset()
	d.track(d.step)
	d.action = a.Act(d.step.Observation)

	return d, nil
}

// Tick performs a single transition: the pending action is taken in the
// environment, the agent learns from the transition and then chooses
// the next action. If the episode ended, the environment is reset
// before the next action is chosen. Tick returns whether the Driver has
// reached its step limit, along with any checkpointing error.
func (d *Driver) Tick() (bool, error) {
	if d.Finished() {
		return true, nil
	}

	state := d.step.Observation
	action := d.action

	next, done := d.env.Step(action)
	d.stats.TdError = d.agent.Learn(state, action, next.Reward,
		next.Observation)

	d.stats.Steps++
	d.stats.EpisodeSteps++
	d.stats.EpisodeReturn += next.Reward
	if d.env.LastEvent().Grew() {
		d.stats.EpisodeFood++
	}

	d.track(next)
	d.draw()

	if done {
		d.endEpisode()
		next = d.env.Reset()
		d.track(next)
	}
	d.step = next
	d.action = d.agent.Act(d.step.Observation)

	if d.opts.Progress != nil && d.opts.MaxSteps > 0 {
		d.opts.Progress.Increment()
		d.opts.Progress.Display()
	}

	return d.Finished(), d.checkpoint()
}

// Run ticks the Driver at the configured interval until ctx is
// cancelled or the step limit is reached, then closes the Driver.
// Checkpoint errors are logged and do not stop the run.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("starting run", "tick", d.opts.Tick,
		"max_steps", d.opts.MaxSteps)

	if d.opts.Tick <= 0 {
		for ctx.Err() == nil {
			if d.tick() {
				break
			}
		}
		return d.Close()
	}

	ticker := time.NewTicker(d.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("run cancelled", "steps", d.stats.Steps)
			return d.Close()
		case <-ticker.C:
			if d.tick() {
				return d.Close()
			}
		}
	}
}

// tick ticks the Driver, logging checkpoint errors
func (d *Driver) tick() bool {
	finished, err := d.Tick()
	if err != nil {
		d.logger.Error("checkpoint failed", "step", d.stats.Steps,
			"err", err)
	}
	return finished
}

// Close saves the agent to the configured path and saves all Trackers.
// Only the first call has any effect.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if saver, ok := d.agent.(agent.Saver); ok && d.opts.SavePath != "" {
		if err := saver.Save(d.opts.SavePath); err != nil {
			errs = append(errs, err)
		} else {
			d.logger.Info("saved agent", "path", d.opts.SavePath,
				"steps", d.stats.Steps)
		}
	}

	for _, tracker := range d.opts.Trackers {
		if err := tracker.Save(); err != nil {
			errs = append(errs, err)
		}
	}

	if d.opts.Progress != nil && d.opts.MaxSteps > 0 {
		d.opts.Progress.Close()
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Finished returns whether the Driver has reached its step limit
func (d *Driver) Finished() bool {
	return d.opts.MaxSteps > 0 && d.stats.Steps >= d.opts.MaxSteps
}

// Stats returns a summary of the Driver's progress
func (d *Driver) Stats() Stats {
	return d.stats
}

// Environment returns the environment the Driver runs
func (d *Driver) Environment() environment.Renderable {
	return d.env
}

// Interval returns the wall-clock interval between ticks
func (d *Driver) Interval() time.Duration {
	return d.opts.Tick
}

// endEpisode records and logs the episode that just finished
func (d *Driver) endEpisode() {
	event := d.env.LastEvent()
	length := len(d.env.Snapshot().Snake)

	ending := event.String()
	if event.Alive() {
		ending = trackers.Truncated
	}

	s := &d.stats
	s.Episodes++
	s.LastReturn = s.EpisodeReturn
	s.LastEnding = ending
	if length > s.BestLength {
		s.BestLength = length
	}
	if s.Episodes == 1 || s.EpisodeReturn > s.BestReturn {
		s.BestReturn = s.EpisodeReturn
	}

	d.logger.Info("episode finished",
		"episode", s.Episodes,
		"return", s.EpisodeReturn,
		"steps", s.EpisodeSteps,
		"food", s.EpisodeFood,
		"length", length,
		"ending", ending,
	)

	s.EpisodeSteps = 0
	s.EpisodeReturn = 0
	s.EpisodeFood = 0
}

func (d *Driver) track(step ts.TimeStep) {
	for _, tracker := range d.opts.Trackers {
		tracker.Track(step)
	}
}

func (d *Driver) draw() {
	if d.opts.Drawer == nil {
		return
	}
	if err := d.opts.Drawer.Draw(d.env.Snapshot()); err != nil {
		d.logger.Warn("draw failed", "err", err)
	}
}

func (d *Driver) checkpoint() error {
	var errs []error
	for _, c := range d.opts.Checkpointers {
		if err := c.Checkpoint(d.stats.Steps); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
