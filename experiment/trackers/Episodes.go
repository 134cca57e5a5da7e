package trackers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/samuelfneumann/snakelearn/game"
	ts "github.com/samuelfneumann/snakelearn/timestep"
)

// EpisodeRow is the record of a single finished episode
type EpisodeRow struct {
	Episode int64   `parquet:"episode"`
	Return  float64 `parquet:"return"`
	Steps   int64   `parquet:"steps"`
	Food    int64   `parquet:"food"`
	Length  int64   `parquet:"length"`
	Ending  string  `parquet:"ending,dict"`
}

// Truncated is the Ending of an episode cut short while the snake was
// still alive
const Truncated = "truncated"

// Observed is an environment whose last game event and board can be
// inspected, such as *snake.Snake
type Observed interface {
	LastEvent() game.Event
	Snapshot() game.Snapshot
}

// Episodes tracks one EpisodeRow per finished episode and saves them
// as a zstd-compressed parquet file. The Tracker is registered with an
// environment, from which it reads the game event of each TimeStep it
// tracks, so Track must be called right after each environment step.
type Episodes struct {
	env      Observed
	filename string

	rows    []EpisodeRow
	current EpisodeRow
}

// NewEpisodes returns a new Episodes Tracker which reads events from
// env and saves its data at filename
func NewEpisodes(filename string, env Observed) *Episodes {
	return &Episodes{env: env, filename: filename}
}

// Track accumulates the reward and food of the current episode, and
// stores the episode's row once its last TimeStep is seen
func (e *Episodes) Track(step ts.TimeStep) {
	if step.First() {
		e.current = EpisodeRow{Episode: int64(len(e.rows))}
		return
	}

	event := e.env.LastEvent()
	e.current.Return += step.Reward
	e.current.Steps = int64(step.Number)
	if event.Grew() {
		e.current.Food++
	}

	if step.Last() {
		e.current.Length = int64(len(e.env.Snapshot().Snake))
		e.current.Ending = event.String()
		if event.Alive() {
			e.current.Ending = Truncated
		}
		e.rows = append(e.rows, e.current)
		e.current = EpisodeRow{Episode: int64(len(e.rows))}
	}
}

// Rows returns the rows of all finished episodes
func (e *Episodes) Rows() []EpisodeRow {
	return e.rows
}

// Save writes all finished episodes to disk. The file is written to a
// temporary path and renamed into place.
func (e *Episodes) Save() error {
	if err := os.MkdirAll(filepath.Dir(e.filename), 0o755); err != nil {
		return fmt.Errorf("save: create output dir: %w", err)
	}

	tmpPath := e.filename + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, e.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "episode_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("save: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, e.filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("save: rename parquet: %w", err)
	}
	return nil
}

// LoadEpisodes reads the rows saved by an Episodes Tracker
func LoadEpisodes(filename string) ([]EpisodeRow, error) {
	rows, err := parquet.ReadFile[EpisodeRow](filename)
	if err != nil {
		return nil, fmt.Errorf("loadEpisodes: %w", err)
	}
	return rows, nil
}
