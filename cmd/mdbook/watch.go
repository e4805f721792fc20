package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-mdbook/internal/fileutil"
)

// rebuildDebounce coalesces bursts of file events (editor saves, git checkouts).
const rebuildDebounce = 300 * time.Millisecond

// watchLoop rebuilds on file changes under root, one build at a time.
type watchLoop struct {
	root     string
	ignore   []string // absolute directories whose events never trigger a build
	debounce time.Duration
	logger   *slog.Logger
	rebuild  func(context.Context) error
}

// runWatch builds the book once, then rebuilds whenever a file under its root changes.
func runWatch(ctx context.Context, job *buildJob) error {
	if err := job.build(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		job.logger.Error("initial build failed", "error", err)
	}
	return newWatchLoop(job, job.build).run(ctx)
}

func newWatchLoop(job *buildJob, rebuild func(context.Context) error) *watchLoop {
	ignore := []string{job.destination()}
	if job.cfg != nil && job.cfg.Build.StagingDir != "" {
		ignore = append(ignore, resolvePath(job.root, job.cfg.Build.StagingDir))
	}
	return &watchLoop{
		root:     job.root,
		ignore:   ignore,
		debounce: rebuildDebounce,
		logger:   job.logger,
		rebuild:  rebuild,
	}
}

// run watches until ctx is canceled. Rebuild failures are logged, not returned.
func (w *watchLoop) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	w.addDirsRecursive(watcher, w.root)
	w.logger.Info("watching for changes", "root", w.root)

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildWorker(workerCtx, rebuildReq)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// rebuildWorker runs one rebuild per request. The request channel holds at most
// one pending build, so events arriving during a build collapse into one rerun.
func (w *watchLoop) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			w.logger.Info("change detected; rebuilding")
			if err := w.rebuild(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("rebuild failed", "error", err)
			}
		}
	}
}

func (w *watchLoop) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if w.ignored(ev.Name) || shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(watcher, ev.Name)
		}
	}
	w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	trigger()
}

// ignored reports whether path lies in an output directory.
func (w *watchLoop) ignored(path string) bool {
	for _, dir := range w.ignore {
		if fileutil.IsWithin(path, dir) {
			return true
		}
	}
	return false
}

func (w *watchLoop) addDirsRecursive(watcher *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.root && (w.ignored(path) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// newDebouncer returns a request channel and a trigger that sends on it once
// the triggers have been quiet for delay. stop cancels a pending send.
func newDebouncer(delay time.Duration) (<-chan struct{}, func(), func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

// shouldIgnoreEvent returns true for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db" || strings.HasSuffix(base, ".tmp")
}
