package qlearning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// Save writes the agent's weights to path. A path ending in .json
// stores the weights as a JSON array of rows, one row per feature;
// any other path stores gonum's binary matrix encoding. The file is
// replaced atomically so that a crash never leaves a partial file.
func (q *QLearning) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.Marshal(rows(q.weights))
	} else {
		data, err = q.weights.MarshalBinary()
	}
	if err != nil {
		return &agent.PersistError{Op: "save", Path: path, Err: err}
	}

	if err := writeAtomic(path, data); err != nil {
		return &agent.PersistError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load creates a new QLearning agent whose weights are read from path,
// which must have been written by Save. The shape of the agent is the
// shape of the stored weights.
func Load(path string, c Config, seed uint64) (*QLearning, error) {
	w, err := LoadWeights(path)
	if err != nil {
		return nil, err
	}

	features, actions := w.Dims()
	init := weights.NewLinearUV(weights.NewZeroUV())
	q, err := New(features, actions, c, init, seed)
	if err != nil {
		return nil, err
	}
	q.weights.Copy(w)

	return q, nil
}

// LoadWeights reads a weight matrix stored by Save
func LoadWeights(path string) (*mat.Dense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &agent.PersistError{Op: "load", Path: path, Err: err}
	}

	var w *mat.Dense
	if isJSON(path) {
		w, err = fromJSON(data)
	} else {
		w, err = fromBinary(data)
	}
	if err != nil {
		return nil, &agent.PersistError{Op: "load", Path: path, Err: err}
	}
	return w, nil
}

func fromJSON(data []byte) (*mat.Dense, error) {
	var r [][]float64
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrMalformed, err)
	}
	if len(r) == 0 || len(r[0]) == 0 {
		return nil, fmt.Errorf("%w: empty weights", agent.ErrMalformed)
	}

	cols := len(r[0])
	backing := make([]float64, 0, len(r)*cols)
	for i, row := range r {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				agent.ErrMalformed, i, len(row), cols)
		}
		backing = append(backing, row...)
	}
	return mat.NewDense(len(r), cols, backing), nil
}

func fromBinary(data []byte) (*mat.Dense, error) {
	var w mat.Dense
	if err := w.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrMalformed, err)
	}
	if w.IsEmpty() {
		return nil, fmt.Errorf("%w: empty weights", agent.ErrMalformed)
	}
	return &w, nil
}

// rows returns the rows of m as slices
func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// writeAtomic writes data to a temporary file next to path and renames
// it over path
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// CreateTemp makes the file owner-only
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
