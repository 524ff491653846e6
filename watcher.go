package folio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ContentWatcher re-imports the content directory when Markdown files change.
// Bursts of events (editors write, rename and chmod in quick succession) are
// collapsed into one reload after the debounce interval.
type ContentWatcher struct {
	dir      string
	reload   func() error
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// NewContentWatcher watches dir and its posts/ and pages/ subdirectories.
func NewContentWatcher(dir string, reload func() error, logger *slog.Logger) (*ContentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("folio: create content watcher: %w", err)
	}
	for _, d := range append([]string{dir}, contentSubdirs(dir)...) {
		if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
			continue
		}
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, fmt.Errorf("folio: watch %s: %w", d, err)
		}
	}
	return &ContentWatcher{
		dir:      dir,
		reload:   reload,
		watcher:  w,
		debounce: 500 * time.Millisecond,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled or the watcher is closed.
func (cw *ContentWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			cw.logger.Debug("content changed", "path", ev.Name, "op", ev.Op.String())
			if ev.Has(fsnotify.Create) {
				cw.watchCreated(ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(cw.debounce)
			}
			fire = timer.C
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("content watcher error", "error", err)
		case <-fire:
			fire = nil
			if err := cw.reload(); err != nil {
				// keep serving the previous import
				cw.logger.Error("content reload failed", "dir", cw.dir, "error", err)
			}
		}
	}
}

// watchCreated starts watching posts/ or pages/ when either appears after
// the watcher started, including after a delete and re-create.
func (cw *ContentWatcher) watchCreated(name string) {
	for _, d := range contentSubdirs(cw.dir) {
		if filepath.Clean(name) != d {
			continue
		}
		if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
			return
		}
		if err := cw.watcher.Add(d); err != nil {
			cw.logger.Warn("content watcher cannot watch directory", "path", d, "error", err)
			return
		}
		cw.logger.Debug("watching new content directory", "path", d)
	}
}

func contentSubdirs(dir string) []string {
	return []string{filepath.Join(dir, "posts"), filepath.Join(dir, "pages")}
}

// Close stops watching. It is safe to call after Run has returned.
func (cw *ContentWatcher) Close() error {
	return cw.watcher.Close()
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	// directory creation and removal also change what gets imported
	return strings.EqualFold(filepath.Ext(base), ".md") || filepath.Ext(base) == ""
}
