// Package config loads the YAML configuration of a training run
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samuelfneumann/snakelearn/agent/linear/discrete/qlearning"
	"gopkg.in/yaml.v3"
)

// Render modes
const (
	RenderTUI     = "tui"
	RenderText    = "text"
	RenderPNG     = "png"
	RenderTextPNG = "text+png"
	RenderNone    = "none"
)

// Driver defaults
const (
	DefaultTick            = 100 * time.Millisecond
	DefaultCheckpointEvery = 1000
)

// Config is the root configuration structure
type Config struct {
	Seed    uint64       `yaml:"seed"`
	Env     EnvConfig    `yaml:"env"`
	Agent   AgentConfig  `yaml:"agent"`
	Driver  DriverConfig `yaml:"driver"`
	Logging LogConfig    `yaml:"logging"`
	Render  RenderConfig `yaml:"render"`
}

// EnvConfig defines environment parameters
type EnvConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	StepLimit int `yaml:"step_limit"` // 0 disables the limit
}

// AgentConfig defines the learning agent's parameters
type AgentConfig struct {
	Type         string   `yaml:"type"` // qlearning|random
	Epsilon      *float64 `yaml:"epsilon"`
	LearningRate float64  `yaml:"learning_rate"`
	Discount     *float64 `yaml:"discount"`
}

// DriverConfig defines the training loop's parameters
type DriverConfig struct {
	Tick            *time.Duration `yaml:"tick"`             // 0 runs back to back
	MaxSteps        int            `yaml:"max_steps"`        // 0 runs until stopped
	CheckpointEvery *int           `yaml:"checkpoint_every"` // 0 disables
	WeightsPath     string         `yaml:"weights_path"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level        string `yaml:"level"`  // debug|info|warn|error
	Format       string `yaml:"format"` // text|json
	File         string `yaml:"file"`   // empty logs to stderr
	ReturnsPath  string `yaml:"returns_path"`
	EpisodesPath string `yaml:"episodes_path"`
}

// RenderConfig defines how the board is shown
type RenderConfig struct {
	Mode     string `yaml:"mode"` // tui|text|png|text+png|none
	Every    int    `yaml:"every"`
	PNGDir   string `yaml:"png_dir"`
	CellSize int    `yaml:"cell_size"`
}

// QLearning returns the configuration of a Q-learning agent. Unset
// fields take the values of qlearning.DefaultConfig.
func (a AgentConfig) QLearning() qlearning.Config {
	c := qlearning.DefaultConfig()
	if a.Epsilon != nil {
		c.Epsilon = *a.Epsilon
	}
	if a.LearningRate != 0 {
		c.LearningRate = a.LearningRate
	}
	if a.Discount != nil {
		c.Discount = *a.Discount
	}
	return c
}

// TickInterval returns the time between two ticks of the driver
func (d DriverConfig) TickInterval() time.Duration {
	if d.Tick == nil {
		return DefaultTick
	}
	return *d.Tick
}

// CheckpointInterval returns the number of steps between two saves of
// the agent, 0 if periodic saves are disabled
func (d DriverConfig) CheckpointInterval() int {
	if d.CheckpointEvery == nil {
		return DefaultCheckpointEvery
	}
	return *d.CheckpointEvery
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file and returns a validated Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load: %v: %w", path, err)
	}

	// Apply defaults
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load: %v: %w", path, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Env.Width == 0 {
		cfg.Env.Width = 20
	}
	if cfg.Env.Height == 0 {
		cfg.Env.Height = 20
	}

	defaults := qlearning.DefaultConfig()
	if cfg.Agent.Type == "" {
		cfg.Agent.Type = "qlearning"
	}
	// Epsilon and discount may legitimately be zero
	if cfg.Agent.Epsilon == nil {
		cfg.Agent.Epsilon = &defaults.Epsilon
	}
	if cfg.Agent.LearningRate == 0 {
		cfg.Agent.LearningRate = defaults.LearningRate
	}
	if cfg.Agent.Discount == nil {
		cfg.Agent.Discount = &defaults.Discount
	}

	// A tick or checkpoint interval of 0 is meaningful
	if cfg.Driver.Tick == nil {
		tick := DefaultTick
		cfg.Driver.Tick = &tick
	}
	if cfg.Driver.CheckpointEvery == nil {
		every := DefaultCheckpointEvery
		cfg.Driver.CheckpointEvery = &every
	}
	if cfg.Driver.WeightsPath == "" {
		cfg.Driver.WeightsPath = "agent.json"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Render.Mode == "" {
		cfg.Render.Mode = RenderTUI
	}
	if cfg.Render.Every == 0 {
		cfg.Render.Every = 1
	}
	if cfg.Render.PNGDir == "" {
		cfg.Render.PNGDir = "frames"
	}
	if cfg.Render.CellSize == 0 {
		cfg.Render.CellSize = 20
	}
}

// Validate ensures that the Config is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Env.Width < 1 || c.Env.Height < 1 || c.Env.Width*c.Env.Height < 2 {
		errs = append(errs, fmt.Errorf("env: board %dx%d is too small",
			c.Env.Width, c.Env.Height))
	}
	if c.Env.StepLimit < 0 {
		errs = append(errs, errors.New("env: step_limit must be non-negative"))
	}

	switch c.Agent.Type {
	case "qlearning":
		if err := c.Agent.QLearning().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("agent: %w", err))
		}
	case "random":
	default:
		errs = append(errs, fmt.Errorf("agent: unknown type %q", c.Agent.Type))
	}

	if c.Driver.TickInterval() < 0 {
		errs = append(errs, errors.New("driver: tick must be non-negative"))
	}
	if c.Driver.MaxSteps < 0 {
		errs = append(errs, errors.New("driver: max_steps must be non-negative"))
	}
	if c.Driver.CheckpointInterval() < 0 {
		errs = append(errs, errors.New("driver: checkpoint_every must be "+
			"non-negative"))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q",
			c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown format %q",
			c.Logging.Format))
	}

	switch c.Render.Mode {
	case RenderTUI, RenderText, RenderPNG, RenderTextPNG, RenderNone:
	default:
		errs = append(errs, fmt.Errorf("render: unknown mode %q",
			c.Render.Mode))
	}
	if c.Render.Every < 1 || c.Render.CellSize < 1 {
		errs = append(errs, errors.New("render: every and cell_size must "+
			"be positive"))
	}

	return errors.Join(errs...)
}
