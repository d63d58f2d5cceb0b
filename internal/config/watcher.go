package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teslashibe/go-behavior/pkg/behavior"
)

// settle coalesces the burst of events editors produce for one save.
const settle = 100 * time.Millisecond

// Configurer receives live parameter updates.
type Configurer interface {
	Configure(u behavior.ParamUpdate) error
}

// Watcher pushes edits of the params file as live updates and edits of the
// catalog file as catalog reloads.
type Watcher struct {
	paramsPath  string
	catalogPath string
	target      Configurer
	logger      *slog.Logger
}

// NewWatcher watches the given files; either path may be empty.
func NewWatcher(paramsPath, catalogPath string, target Configurer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		paramsPath:  clean(paramsPath),
		catalogPath: clean(catalogPath),
		target:      target,
		logger:      logger.With("component", "watcher"),
	}
}

func clean(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Run blocks until ctx is done. Directories are watched rather than the files
// so that atomic replace-on-save keeps working.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for _, p := range []string{w.paramsPath, w.catalogPath} {
		if p == "" || dirs[filepath.Dir(p)] {
			continue
		}
		dir := filepath.Dir(p)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("config: watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	if len(dirs) == 0 {
		<-ctx.Done()
		return nil
	}
	w.logger.Info("watching", "params", w.paramsPath, "catalog", w.catalogPath)

	var (
		timer          *time.Timer
		timerC         <-chan time.Time
		params, reload bool
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			switch clean(ev.Name) {
			case w.paramsPath:
				params = true
			case w.catalogPath:
				reload = true
			default:
				continue
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			timerC = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timerC:
			timerC = nil
			w.apply(params, reload)
			params, reload = false, false
		}
	}
}

func (w *Watcher) apply(params, reload bool) {
	var u behavior.ParamUpdate
	if params {
		loaded, err := LoadParams(w.paramsPath)
		if err != nil {
			w.logger.Warn("params file rejected", "error", err)
		} else {
			u = loaded
		}
	}
	if reload {
		u.ReloadAnimations = true
	}
	if u == (behavior.ParamUpdate{}) {
		return
	}
	if err := w.target.Configure(u); err != nil {
		w.logger.Warn("update not delivered", "error", err)
		return
	}
	w.logger.Info("live update applied", "params", params, "catalog", reload)
}
