package cli

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)
	progress.Update(2)
	progress.Update(1)
	progress.Finish()

	output := buf.String()
	for _, want := range []string{"Linting:", "(2/4)", "(4/4)", "100.0%"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q does not contain %q", output, want)
		}
	}
	if strings.Contains(output, "(1/4)") {
		t.Error("Update() moved progress backwards")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Finish() should end the line")
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Update(0)
	progress.Finish()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSimpleProgress_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(10)
	progress.Error(fmt.Errorf("database is locked"))

	if !strings.Contains(buf.String(), "✗ Error: database is locked") {
		t.Errorf("output %q does not contain the error", buf.String())
	}
}

func TestProgressFunc(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)
	fn := ProgressFunc(progress)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(i, 20)
		}()
	}
	wg.Wait()

	if progress.total != 20 || progress.current != 20 {
		t.Errorf("progress = %d/%d, want 20/20", progress.current, progress.total)
	}
}
