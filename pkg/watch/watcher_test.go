package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNewFileWatcher(t *testing.T) {
	if _, err := NewFileWatcher(&Config{}, nil); err == nil {
		t.Error("NewFileWatcher() without roots should fail")
	}

	fw, err := NewFileWatcher(&Config{Roots: []string{t.TempDir()}}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	if fw.config.Debounce <= 0 {
		t.Error("default debounce not applied")
	}
	if err := fw.Stop(); err != nil {
		t.Errorf("Stop() before Watch error = %v", err)
	}
}

func TestFileWatcher_Accepts(t *testing.T) {
	fw, err := NewFileWatcher(&Config{
		Roots:      []string{t.TempDir()},
		Extensions: []string{".tsx", ".jsx"},
		IgnoreDirs: []string{"node_modules"},
	}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{"src/App.tsx", true},
		{"src/Button.JSX", true},
		{"src/util.ts", false},
		{"src/.App.tsx", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := fw.accepts(tt.path); got != tt.want {
			t.Errorf("accepts(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if !fw.skipDir("node_modules") || !fw.skipDir(".git") || fw.skipDir("src") {
		t.Error("skipDir() returned wrong result")
	}
}

func TestFileWatcher_HandleEventBatches(t *testing.T) {
	fw, err := NewFileWatcher(&Config{
		Roots:      []string{t.TempDir()},
		Debounce:   30 * time.Millisecond,
		Extensions: []string{".tsx"},
	}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Stop()

	batches := make(chan []string, 4)
	fire := func(changed []string) { batches <- changed }

	fw.handleEvent(fsnotify.Event{Name: "b.tsx", Op: fsnotify.Write}, fire)
	fw.handleEvent(fsnotify.Event{Name: "a.tsx", Op: fsnotify.Create}, fire)
	fw.handleEvent(fsnotify.Event{Name: "b.tsx", Op: fsnotify.Write}, fire)
	fw.handleEvent(fsnotify.Event{Name: "c.tsx", Op: fsnotify.Chmod}, fire)
	fw.handleEvent(fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, fire)

	select {
	case got := <-batches:
		if len(got) != 2 || got[0] != "a.tsx" || got[1] != "b.tsx" {
			t.Errorf("batch = %v, want [a.tsx b.tsx]", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}

	select {
	case got := <-batches:
		t.Errorf("unexpected second batch %v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFileWatcher_Watch(t *testing.T) {
	root := t.TempDir()
	fw, err := NewFileWatcher(&Config{
		Roots:      []string{root},
		Debounce:   50 * time.Millisecond,
		Extensions: []string{".tsx"},
	}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	defer fw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		changes [][]string
	)
	got := make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		done <- fw.Watch(ctx, func(ctx context.Context, changed []string) error {
			mu.Lock()
			changes = append(changes, changed)
			mu.Unlock()
			select {
			case got <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher time to register the root.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "App.tsx"), []byte("const a = <TouchableOpacity />;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-got:
	case <-time.After(3 * time.Second):
		t.Fatal("change callback not called")
	}

	if err := fw.Watch(ctx, nil); err != ErrAlreadyRunning {
		t.Errorf("second Watch() error = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) == 0 || filepath.Base(changes[0][0]) != "App.tsx" {
		t.Errorf("changes = %v", changes)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	called := make(chan struct{}, 1)

	d.Add("a.tsx", func([]string) { called <- struct{}{} })
	d.Stop()
	d.Add("b.tsx", func([]string) { called <- struct{}{} })

	select {
	case <-called:
		t.Error("callback ran after Stop()")
	case <-time.After(100 * time.Millisecond):
	}
}
