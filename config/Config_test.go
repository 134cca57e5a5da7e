package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samuelfneumann/snakelearn/agent/linear/discrete/qlearning"
)

func write(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.Env.Width != 20 || cfg.Env.Height != 20 {
		t.Errorf("board is %dx%d, expected 20x20", cfg.Env.Width,
			cfg.Env.Height)
	}
	q := cfg.Agent.QLearning()
	if q.Epsilon != 0.1 || q.LearningRate != 0.01 || q.Discount != 0.9 {
		t.Errorf("agent config %+v does not match the defaults", q)
	}
	if tick := cfg.Driver.TickInterval(); tick != 100*time.Millisecond {
		t.Errorf("tick = %v, expected 100ms", tick)
	}
	if every := cfg.Driver.CheckpointInterval(); every != 1000 {
		t.Errorf("checkpoint every %d, expected 1000", every)
	}
	if cfg.Driver.WeightsPath != "agent.json" {
		t.Errorf("weights path = %v", cfg.Driver.WeightsPath)
	}
	if cfg.Render.Mode != RenderTUI {
		t.Errorf("render mode = %v", cfg.Render.Mode)
	}
}

func TestLoad(t *testing.T) {
	path := write(t, `
seed: 42
env:
  width: 10
  height: 8
  step_limit: 500
agent:
  epsilon: 0
  discount: 0.5
driver:
  tick: 25ms
  max_steps: 10000
  weights_path: out/weights.bin
logging:
  format: json
render:
  mode: png
  every: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Seed != 42 || cfg.Env.Width != 10 || cfg.Env.Height != 8 ||
		cfg.Env.StepLimit != 500 {
		t.Errorf("unexpected env config: seed %v, %+v", cfg.Seed, cfg.Env)
	}

	// An explicit zero epsilon is kept
	q := cfg.Agent.QLearning()
	if q.Epsilon != 0 || q.Discount != 0.5 || q.LearningRate != 0.01 {
		t.Errorf("unexpected agent config %+v", q)
	}
	if cfg.Driver.TickInterval() != 25*time.Millisecond ||
		cfg.Driver.MaxSteps != 10000 {
		t.Errorf("unexpected driver config %+v", cfg.Driver)
	}
	if cfg.Driver.WeightsPath != "out/weights.bin" {
		t.Errorf("weights path = %v", cfg.Driver.WeightsPath)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Render.Mode != RenderPNG || cfg.Render.Every != 10 {
		t.Errorf("unexpected render config %+v", cfg.Render)
	}
}

func TestLoadZeroIntervals(t *testing.T) {
	path := write(t, `
driver:
  tick: 0s
  checkpoint_every: 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if tick := cfg.Driver.TickInterval(); tick != 0 {
		t.Errorf("tick = %v, expected 0", tick)
	}
	if every := cfg.Driver.CheckpointInterval(); every != 0 {
		t.Errorf("checkpoint every %d, expected 0", every)
	}
}

func TestValidateUnsetAgent(t *testing.T) {
	cfg := &Config{Agent: AgentConfig{Type: "qlearning"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an incomplete config")
	}

	// Unset agent fields take the agent's defaults
	q := cfg.Agent.QLearning()
	if q != qlearning.DefaultConfig() {
		t.Errorf("agent config %+v, expected the defaults", q)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"board":    "env: {width: 1, height: 1}",
		"epsilon":  "agent: {epsilon: 2}",
		"type":     "agent: {type: dqn}",
		"level":    "logging: {level: loud}",
		"render":   "render: {mode: window}",
		"negative": "driver: {max_steps: -1}",
		"tick":     "driver: {tick: -1s}",
		"every":    "driver: {checkpoint_every: -5}",
		"yaml":     "env: [",
	}

	for name, contents := range tests {
		if _, err := Load(write(t, contents)); err == nil {
			t.Errorf("%v: expected an error", name)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err == nil || !strings.Contains(err.Error(), "load") {
		t.Errorf("expected a load error, got %v", err)
	}
}
