// Command snakelearn trains a linear Q-learning agent to play Snake.
//
// The agent's weights are loaded from the configured weights file if it
// exists, saved every checkpoint_every steps and saved once more when the
// run stops.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/linear/discrete/qlearning"
	"github.com/samuelfneumann/snakelearn/agent/random"
	"github.com/samuelfneumann/snakelearn/config"
	"github.com/samuelfneumann/snakelearn/environment"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/experiment"
	"github.com/samuelfneumann/snakelearn/experiment/checkpointer"
	"github.com/samuelfneumann/snakelearn/experiment/trackers"
	"github.com/samuelfneumann/snakelearn/render"
	"github.com/samuelfneumann/snakelearn/tui"
	"github.com/samuelfneumann/snakelearn/utils/progressbar"
	"gonum.org/v1/gonum/stat"
)

// tuiLogFile receives logs in TUI mode when no log file is configured
const tuiLogFile = "snakelearn.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "snakelearn:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to a YAML config file")
	mode := flag.String("render", "", "Render mode: tui|text|png|text+png|none")
	steps := flag.Int("steps", -1, "Stop after this many steps (0 runs until stopped)")
	tick := flag.Duration("tick", -1, "Time between steps (0 runs back to back)")
	weights := flag.String("weights", "", "Weights file (.json for JSON, anything else for binary)")
	agentType := flag.String("agent", "", "Agent type: qlearning|random")
	fresh := flag.Bool("fresh", false, "Ignore any saved weights")
	seed := flag.Uint64("seed", 0, "Random seed (0 uses the config seed)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	// Flags override the config file
	if *mode != "" {
		cfg.Render.Mode = *mode
	}
	if *steps >= 0 {
		cfg.Driver.MaxSteps = *steps
	}
	if *tick >= 0 {
		cfg.Driver.Tick = tick
	}
	if *weights != "" {
		cfg.Driver.WeightsPath = *weights
	}
	if *agentType != "" {
		cfg.Agent.Type = *agentType
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	// Create the environment
	env, _, err := snake.New(cfg.Env.Width, cfg.Env.Height,
		snake.DefaultForage(), *cfg.Agent.Discount, cfg.Seed)
	if err != nil {
		return fmt.Errorf("could not create environment: %w", err)
	}
	if cfg.Env.StepLimit > 0 {
		env.SetEnder(environment.NewStepLimit(cfg.Env.StepLimit))
	}

	// Create the agent
	a, err := newAgent(cfg, env, *fresh, logger)
	if err != nil {
		return err
	}

	opts, returns, err := driverOptions(cfg, env, a, logger)
	if err != nil {
		return err
	}

	d, err := experiment.NewDriver(env, a, opts)
	if err != nil {
		return err
	}

	if cfg.Render.Mode == config.RenderTUI {
		err = tui.Run(ctx, d, logger)
	} else {
		err = d.Run(ctx)
	}

	stats := d.Stats()
	summary := []any{
		"steps", stats.Steps,
		"episodes", stats.Episodes,
		"best_length", stats.BestLength,
	}
	if returns != nil && len(returns.Returns()) > 0 {
		r := returns.Returns()
		summary = append(summary, "mean_return_last_100",
			stat.Mean(r[max(0, len(r)-100):], nil))
	}
	logger.Info("run finished", summary...)

	return err
}

// newAgent creates the agent described by cfg. A Q-learning agent is
// loaded from the weights file when possible and created fresh
// otherwise.
func newAgent(cfg *config.Config, env *snake.Snake, fresh bool,
	logger *slog.Logger) (agent.Agent, error) {
	if cfg.Agent.Type == "random" {
		actions, err := env.ActionSpec().Actions()
		if err != nil {
			return nil, err
		}
		return random.New(actions, cfg.Seed)
	}

	path := cfg.Driver.WeightsPath
	qConf := cfg.Agent.QLearning()
	if !fresh {
		q, err := qlearning.Load(path, qConf, cfg.Seed)
		switch {
		case err == nil:
			if err := q.ValidFor(env); err != nil {
				logger.Warn("saved agent does not fit the environment, "+
					"starting fresh", "path", path, "err", err)
				break
			}
			logger.Info("loaded agent", "path", path)
			return q, nil

		case agent.IsMissing(err):
			logger.Info("no saved agent, starting fresh", "path", path)

		default:
			logger.Warn("could not load agent, starting fresh",
				"path", path, "err", err)
		}
	}

	q, err := qConf.CreateAgent(env, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("could not create agent: %w", err)
	}
	return q, nil
}

// driverOptions wires the checkpointer, trackers and drawer described by
// cfg. The Return tracker, if any, is returned for the run summary.
func driverOptions(cfg *config.Config, env *snake.Snake, a agent.Agent,
	logger *slog.Logger) (experiment.Options, *trackers.Return, error) {
	opts := experiment.Options{
		Tick:     cfg.Driver.TickInterval(),
		MaxSteps: cfg.Driver.MaxSteps,
		Logger:   logger,
	}

	if saver, ok := a.(agent.Saver); ok {
		opts.SavePath = cfg.Driver.WeightsPath
		opts.Checkpointers = append(opts.Checkpointers,
			checkpointer.NewNStep(cfg.Driver.CheckpointInterval(), saver,
				checkpointer.Fixed(cfg.Driver.WeightsPath)))
	}

	var returns *trackers.Return
	if path := cfg.Logging.ReturnsPath; path != "" {
		returns = trackers.NewReturn(path)
		opts.Trackers = append(opts.Trackers, returns)
	}
	if path := cfg.Logging.EpisodesPath; path != "" {
		opts.Trackers = append(opts.Trackers, trackers.NewEpisodes(path, env))
	}

	mode := cfg.Render.Mode
	var drawers render.Multi
	if mode == config.RenderText || mode == config.RenderTextPNG {
		drawers = append(drawers, render.NewText(os.Stdout, cfg.Render.Every))
	}
	if mode == config.RenderPNG || mode == config.RenderTextPNG {
		name := checkpointer.FilenameEnumerator(0,
			filepath.Join(cfg.Render.PNGDir, "frame"), ".png")
		png, err := render.NewPNG(name, cfg.Render.Every, cfg.Render.CellSize)
		if err != nil {
			return opts, nil, err
		}
		drawers = append(drawers, png)
	}
	switch len(drawers) {
	case 0:
	case 1:
		opts.Drawer = drawers[0]
	default:
		opts.Drawer = drawers
	}

	// Runs with a step limit that print nothing to stdout show their
	// progress
	if (mode == config.RenderPNG || mode == config.RenderNone) &&
		cfg.Driver.MaxSteps > 0 {
		opts.Progress = progressbar.NewManualProgressBar(os.Stderr, 40,
			cfg.Driver.MaxSteps)
	}

	return opts, returns, nil
}

// newLogger creates the logger described by cfg. The returned function
// closes the log file, if any.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	path := cfg.Logging.File
	if path == "" && cfg.Render.Mode == config.RenderTUI {
		path = tuiLogFile
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler), closeLog, nil
}
