package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"touchlint-hq/touchlint/pkg/config"
	"touchlint-hq/touchlint/pkg/telemetry/logging"
)

// ErrAlreadyRunning is returned by Watch when the watcher is in use.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config contains configuration for the file watcher.
type Config struct {
	// Roots are the files or directories to watch. Directories are
	// watched recursively.
	Roots []string

	// Debounce is the quiet period after the last change before the
	// callback runs.
	// Default: 200ms
	Debounce time.Duration

	// Extensions lists the file extensions whose changes are reported.
	Extensions []string

	// IgnoreDirs lists directory names that are never watched. Hidden
	// directories are always skipped.
	IgnoreDirs []string
}

// ConfigFromLint builds a watcher configuration for roots from the lint
// and watch sections of the configuration.
func ConfigFromLint(roots []string, lint *config.LintConfig, w *config.WatchConfig) *Config {
	return &Config{
		Roots:      roots,
		Debounce:   w.Debounce,
		Extensions: lint.Extensions,
		IgnoreDirs: lint.IgnoreDirs,
	}
}

// ChangeFunc receives the paths changed during one debounce window,
// sorted and de-duplicated. Calls never overlap.
type ChangeFunc func(ctx context.Context, changed []string) error

// FileWatcher watches source trees and reports batches of changed files.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	config   *Config
	debounce *Debouncer
	exts     map[string]bool
	ignore   map[string]bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a new file watcher. logger may be nil.
func NewFileWatcher(cfg *Config, logger *logging.Logger) (*FileWatcher, error) {
	if cfg == nil || len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		logger:   logger.WithComponent("watch"),
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
		exts:     make(map[string]bool, len(cfg.Extensions)),
		ignore:   make(map[string]bool, len(cfg.IgnoreDirs)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, ext := range cfg.Extensions {
		fw.exts[strings.ToLower(ext)] = true
	}
	for _, dir := range cfg.IgnoreDirs {
		fw.ignore[dir] = true
	}

	return fw, nil
}

// Watch watches the roots and calls onChange after each burst of changes.
// It blocks until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context, onChange ChangeFunc) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	for _, root := range fw.config.Roots {
		if err := fw.addPath(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	fw.logger.Info("file watcher started",
		"roots", fw.config.Roots,
		"debounce_ms", fw.config.Debounce.Milliseconds(),
	)

	// runMu serializes callbacks; the debouncer fires on its own
	// goroutine.
	var runMu sync.Mutex
	fire := func(changed []string) {
		runMu.Lock()
		defer runMu.Unlock()

		if ctx.Err() != nil {
			return
		}
		fw.logger.Info("files changed", "count", len(changed))
		if err := onChange(ctx, changed); err != nil {
			fw.logger.Error("change handler failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handleEvent(event, fire)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, fire func([]string)) {
	if event.Op == fsnotify.Chmod {
		return
	}

	// New directories are watched as they appear.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !fw.skipDir(filepath.Base(event.Name)) {
				if err := fw.addDirectory(event.Name); err != nil {
					fw.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if !fw.accepts(event.Name) {
		return
	}

	fw.logger.Debug("file event detected",
		"path", event.Name,
		"op", event.Op.String(),
	)
	fw.debounce.Add(filepath.Clean(event.Name), fire)
}

// Stop stops the file watcher and cancels a pending callback.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if running {
		close(fw.stopCh)
		<-fw.doneCh
	}

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addPath watches a directory recursively, or the directory holding a
// file.
func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	// Editors replace files on save; watching the parent keeps the file
	// tracked across renames.
	return fw.watcher.Add(filepath.Dir(path))
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (fw *FileWatcher) skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || fw.ignore[name]
}

// accepts reports whether changes to path are reported.
func (fw *FileWatcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return fw.exts[strings.ToLower(filepath.Ext(base))]
}

// Debouncer collects paths from rapid events and hands the batch to the
// callback after a quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	pending  map[string]struct{}
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]struct{}),
	}
}

// Add records path and restarts the quiet period. When it elapses,
// callback receives every path added since the previous batch.
func (d *Debouncer) Add(path string, callback func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		batch := d.flush()
		if len(batch) > 0 {
			callback(batch)
		}
	})
}

// flush takes the pending paths, sorted.
func (d *Debouncer) flush() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return nil
	}
	batch := make([]string, 0, len(d.pending))
	for p := range d.pending {
		batch = append(batch, p)
	}
	sort.Strings(batch)
	d.pending = make(map[string]struct{})
	return batch
}

// Stop cancels a pending batch. Later calls to Add are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
