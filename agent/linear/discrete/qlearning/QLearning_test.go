package qlearning

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/samuelfneumann/snakelearn/agent"
	"github.com/samuelfneumann/snakelearn/agent/linear/discrete/policy"
	"github.com/samuelfneumann/snakelearn/environment/snake"
	"github.com/samuelfneumann/snakelearn/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	_ agent.Agent     = &QLearning{}
	_ agent.TdErrorer = &QLearning{}
	_ agent.Saver     = &QLearning{}
)

// newZero returns an agent whose weights are all zero
func newZero(t testing.TB, features, actions int, c Config) *QLearning {
	t.Helper()
	init := weights.NewLinearUV(weights.NewZeroUV())
	q, err := New(features, actions, c, init, 1)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name              string
		features, actions int
		c                 Config
	}{
		{"epsilon", 6, 4, Config{Epsilon: 1.5, LearningRate: 0.1}},
		{"learning rate", 6, 4, Config{Epsilon: 0.1}},
		{"discount", 6, 4, Config{Epsilon: 0.1, LearningRate: 0.1, Discount: 2}},
		{"features", 0, 4, DefaultConfig()},
		{"actions", 6, 0, DefaultConfig()},
	}

	for _, test := range tests {
		if _, err := New(test.features, test.actions, test.c, nil, 1); err == nil {
			t.Errorf("%v: expected an error", test.name)
		}
	}
}

func TestInitialWeightsInRange(t *testing.T) {
	q, err := New(6, 4, DefaultConfig(), nil, 3)
	if err != nil {
		t.Fatal(err)
	}

	w := q.Weights()[policy.WeightsKey]
	r, c := w.Dims()
	if r != 6 || c != 4 {
		t.Fatalf("weights have shape (%d, %d), expected (6, 4)", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := w.At(i, j); v < -InitBound || v >= InitBound {
				t.Errorf("weight (%d, %d) = %v out of range", i, j, v)
			}
		}
	}
}

func TestPredict(t *testing.T) {
	q := newZero(t, 2, 3, DefaultConfig())
	w := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	if err := q.SetWeights(map[string]*mat.Dense{policy.WeightsKey: w}); err != nil {
		t.Fatal(err)
	}

	got := q.Predict(mat.NewVecDense(2, []float64{1, 0.5}))
	want := []float64{3, 4.5, 6}
	if !floats.EqualApprox(got.RawVector().Data, want, 1e-12) {
		t.Errorf("predict = %v, expected %v", got.RawVector().Data, want)
	}
}

func TestActGreedy(t *testing.T) {
	c := DefaultConfig()
	c.Epsilon = 0
	q := newZero(t, 2, 4, c)

	// All values tie, the lowest index wins
	state := mat.NewVecDense(2, []float64{1, 1})
	for i := 0; i < 100; i++ {
		if a := q.Act(state); a != 0 {
			t.Fatalf("act on ties = %d, expected 0", a)
		}
	}

	w := mat.NewDense(2, 4, []float64{
		0, 0, 1, 0,
		0, 0, 1, 3,
	})
	if err := q.SetWeights(map[string]*mat.Dense{policy.WeightsKey: w}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if a := q.Act(state); a != 3 {
			t.Fatalf("act = %d, expected 3", a)
		}
	}
	if a := q.Greedy(state); a != 3 {
		t.Errorf("greedy = %d, expected 3", a)
	}
}

func TestActUniform(t *testing.T) {
	c := DefaultConfig()
	c.Epsilon = 1
	q := newZero(t, 2, 4, c)
	w := mat.NewDense(2, 4, []float64{
		10, 0, 0, 0,
		10, 0, 0, 0,
	})
	if err := q.SetWeights(map[string]*mat.Dense{policy.WeightsKey: w}); err != nil {
		t.Fatal(err)
	}

	const trials = 40000
	counts := make([]int, 4)
	state := mat.NewVecDense(2, []float64{1, 1})
	for i := 0; i < trials; i++ {
		counts[q.Act(state)]++
	}

	for a, n := range counts {
		freq := float64(n) / trials
		if math.Abs(freq-0.25) > 0.02 {
			t.Errorf("action %d chosen with frequency %v, expected 0.25",
				a, freq)
		}
	}
}

func TestSetEpsilon(t *testing.T) {
	q := newZero(t, 2, 4, DefaultConfig())
	q.SetEpsilon(0)
	if q.Epsilon() != 0 || q.Config().Epsilon != 0 {
		t.Errorf("epsilon = %v, expected 0", q.Epsilon())
	}

	// With ε = 0 the behaviour policy is deterministic
	state := mat.NewVecDense(2, []float64{1, 1})
	for i := 0; i < 50; i++ {
		if a := q.Act(state); a != 0 {
			t.Fatalf("act = %d, expected 0", a)
		}
	}
}

func TestLearnReducesError(t *testing.T) {
	q := newZero(t, snake.Features, snake.Actions, DefaultConfig())
	state := mat.NewVecDense(snake.Features, []float64{
		0.5, 0.5, 0.25, 0.75, 1, 0,
	})
	next := mat.NewVecDense(snake.Features, nil)

	prev := math.Inf(1)
	for i := 0; i < 200; i++ {
		delta := math.Abs(q.Learn(state, 2, 1, next))
		if delta >= prev {
			t.Fatalf("iteration %d: |δ| = %v did not decrease from %v",
				i, delta, prev)
		}
		prev = delta
	}

	if got := q.Predict(state).AtVec(2); math.Abs(got-1) > 0.1 {
		t.Errorf("Q(s, 2) = %v after learning, expected close to 1", got)
	}
}

func TestLearnUpdatesOnlyAction(t *testing.T) {
	q := newZero(t, 3, 4, DefaultConfig())
	state := mat.NewVecDense(3, []float64{1, 2, 3})
	next := mat.NewVecDense(3, []float64{0, 1, 0})

	delta := q.Learn(state, 1, -1, next)
	if delta != -1 {
		t.Errorf("δ = %v, expected -1", delta)
	}

	w := q.Weights()[policy.WeightsKey]
	for j := 0; j < 4; j++ {
		col := mat.Col(nil, j, w)
		if j != 1 {
			if !floats.Equal(col, []float64{0, 0, 0}) {
				t.Errorf("column %d changed to %v", j, col)
			}
			continue
		}
		want := []float64{-0.01, -0.02, -0.03}
		if !floats.EqualApprox(col, want, 1e-12) {
			t.Errorf("column 1 = %v, expected %v", col, want)
		}
	}
}

func TestTdErrorUsesDiscountedMax(t *testing.T) {
	c := DefaultConfig()
	q := newZero(t, 2, 2, c)
	w := mat.NewDense(2, 2, []float64{
		1, 2,
		0, 0,
	})
	if err := q.SetWeights(map[string]*mat.Dense{policy.WeightsKey: w}); err != nil {
		t.Fatal(err)
	}

	state := mat.NewVecDense(2, []float64{0, 1})
	next := mat.NewVecDense(2, []float64{1, 0})

	// target = 0.5 + 0.9 * 2, estimate = 0
	want := 0.5 + c.Discount*2
	if got := q.TdError(state, 0, 0.5, next); math.Abs(got-want) > 1e-12 {
		t.Errorf("δ = %v, expected %v", got, want)
	}

	// TdError does not modify the weights
	if !mat.Equal(q.Weights()[policy.WeightsKey], w) {
		t.Error("TdError modified the weights")
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"agent.json", "agent.bin"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			q, err := New(snake.Features, snake.Actions, DefaultConfig(), nil, 5)
			if err != nil {
				t.Fatal(err)
			}
			if err := q.Save(path); err != nil {
				t.Fatal(err)
			}

			loaded, err := Load(path, DefaultConfig(), 6)
			if err != nil {
				t.Fatal(err)
			}
			if !mat.Equal(q.Weights()[policy.WeightsKey],
				loaded.Weights()[policy.WeightsKey]) {
				t.Error("loaded weights differ from saved weights")
			}

			state := mat.NewVecDense(snake.Features, []float64{
				0.1, 0.2, 0.3, 0.4, 0, -1,
			})
			if q.Greedy(state) != loaded.Greedy(state) {
				t.Error("loaded agent selects a different greedy action")
			}
		})
	}
}

func TestSaveJSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	q := newZero(t, 2, 3, DefaultConfig())
	w := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	if err := q.SetWeights(map[string]*mat.Dense{policy.WeightsKey: w}); err != nil {
		t.Fatal(err)
	}
	if err := q.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "[[1,2,3],[4,5,6]]"; got != want {
		t.Errorf("saved %v, expected %v", got, want)
	}
}

func TestSavePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not supported")
	}

	path := filepath.Join(t.TempDir(), "agent.bin")
	q := newZero(t, 2, 3, DefaultConfig())
	if err := q.Save(path); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0o644 {
		t.Errorf("saved weights have mode %v, expected %v", mode,
			os.FileMode(0o644))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"), DefaultConfig(), 1)
	if !agent.IsMissing(err) {
		t.Errorf("missing file: got %v", err)
	}

	malformed := map[string]string{
		"garbage.json": "not json",
		"ragged.json":  "[[1,2],[3]]",
		"empty.json":   "[]",
		"hollow.json":  "[[]]",
		"garbage.bin":  "xyz",
	}
	for name, contents := range malformed {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := Load(path, DefaultConfig(), 1)
		if !agent.IsMalformed(err) {
			t.Errorf("%v: expected a malformed error, got %v", name, err)
		}
		if agent.IsMissing(err) {
			t.Errorf("%v: reported as missing", name)
		}
	}
}

func TestCreateAgent(t *testing.T) {
	env, _, err := snake.New(10, 10, snake.DefaultForage(), 0.9, 1)
	if err != nil {
		t.Fatal(err)
	}

	q, err := DefaultConfig().CreateAgent(env, 1)
	if err != nil {
		t.Fatal(err)
	}
	if f, a := q.Dims(); f != snake.Features || a != snake.Actions {
		t.Errorf("agent has shape (%d, %d), expected (%d, %d)", f, a,
			snake.Features, snake.Actions)
	}
	if err := q.ValidFor(env); err != nil {
		t.Error(err)
	}

	small := newZero(t, 2, snake.Actions, DefaultConfig())
	if err := small.ValidFor(env); err == nil {
		t.Error("expected an error for a mismatched agent")
	}
}

func BenchmarkLearn(b *testing.B) {
	env, step, err := snake.New(20, 20, snake.DefaultForage(), 0.9, 1)
	if err != nil {
		b.Fatal(err)
	}
	q, err := DefaultConfig().CreateAgent(env, 1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		state := step.Observation
		action := q.Act(state)

		var done bool
		step, done = env.Step(action)
		q.Learn(state, action, step.Reward, step.Observation)

		if done {
			step = env.Reset()
		}
	}
}
