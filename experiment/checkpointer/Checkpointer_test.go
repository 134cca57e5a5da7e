package checkpointer

import (
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	paths []string
	err   error
}

func (r *recorder) Save(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func TestNStep(t *testing.T) {
	r := &recorder{}
	c := NewNStep(3, r, FilenameEnumerator(0, "agent", ".json"))

	for step := 0; step <= 10; step++ {
		if err := c.Checkpoint(step); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"agent1.json", "agent2.json", "agent3.json"}
	if !reflect.DeepEqual(r.paths, want) {
		t.Errorf("saved to %v, expected %v", r.paths, want)
	}
}

func TestNStepDisabled(t *testing.T) {
	r := &recorder{}
	c := NewNStep(0, r, Fixed("agent.json"))
	for step := 0; step < 100; step++ {
		if err := c.Checkpoint(step); err != nil {
			t.Fatal(err)
		}
	}
	if len(r.paths) != 0 {
		t.Errorf("saved %d times, expected none", len(r.paths))
	}
}

func TestNStepError(t *testing.T) {
	saveErr := errors.New("disk full")
	r := &recorder{err: saveErr}
	c := NewNStep(2, r, Fixed("agent.json"))

	if err := c.Checkpoint(1); err != nil {
		t.Errorf("unexpected error off cadence: %v", err)
	}
	if err := c.Checkpoint(2); !errors.Is(err, saveErr) {
		t.Errorf("expected wrapped save error, got %v", err)
	}
}

func TestFixed(t *testing.T) {
	f := Fixed("weights.bin")
	for i := 0; i < 3; i++ {
		if got := f(); got != "weights.bin" {
			t.Errorf("filename = %v", got)
		}
	}
}
