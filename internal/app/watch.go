package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kk-code-lab/mdview/internal/logfields"
)

const defaultWatchDebounce = 150 * time.Millisecond

// documentWatcher calls onChange after the watched file settles. The file's
// directory is watched so that editors replacing the file by rename are
// noticed.
type documentWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	path  string
	dir   string
	timer *time.Timer
	done  chan struct{}
}

func newDocumentWatcher(onChange func(), debounce time.Duration, logger *slog.Logger) (*documentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	dw := &documentWatcher{
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go dw.loop()
	return dw, nil
}

// Watch switches to path. An empty path stops watching.
func (dw *documentWatcher) Watch(path string) error {
	abs := path
	if path != "" {
		var err error
		if abs, err = filepath.Abs(path); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()
	if abs == dw.path {
		return nil
	}
	dir := filepath.Dir(abs)
	if dw.dir != "" && dw.dir != dir {
		_ = dw.watcher.Remove(dw.dir)
		dw.dir = ""
	}
	dw.path = abs
	if abs == "" {
		return nil
	}
	if dw.dir != dir {
		if err := dw.watcher.Add(dir); err != nil {
			dw.path = ""
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dw.dir = dir
	}
	dw.logger.Debug("watching document", logfields.Path(abs))
	return nil
}

func (dw *documentWatcher) Close() error {
	dw.mu.Lock()
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.mu.Unlock()
	close(dw.done)
	return dw.watcher.Close()
}

func (dw *documentWatcher) loop() {
	for {
		select {
		case <-dw.done:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			dw.mu.Lock()
			match := dw.path != "" && filepath.Clean(event.Name) == dw.path
			dw.mu.Unlock()
			if match {
				dw.trigger()
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("document watcher error", logfields.Error(err))
		}
	}
}

func (dw *documentWatcher) trigger() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.timer = time.AfterFunc(dw.debounce, dw.onChange)
}
