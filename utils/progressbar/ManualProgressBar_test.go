package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewManualProgressBar(&buf, 10, 4)

	p.Display()
	if !strings.Contains(buf.String(), "0.00%") {
		t.Errorf("expected 0%% progress, got %q", buf.String())
	}

	for i := 0; i < 10; i++ {
		p.Increment()
	}
	if p.Percent() != 100 {
		t.Errorf("progress = %d%%, expected it capped at 100%%", p.Percent())
	}

	buf.Reset()
	p.Display()
	if !strings.Contains(buf.String(), "100.00%") {
		t.Errorf("expected 100%% progress, got %q", buf.String())
	}
	if n := strings.Count(buf.String(), "█"); n != 10 {
		t.Errorf("bar has %d filled cells, expected 10", n)
	}

	// Unchanged progress is not reprinted
	buf.Reset()
	p.Display()
	if buf.Len() != 0 {
		t.Errorf("reprinted unchanged bar: %q", buf.String())
	}
}
