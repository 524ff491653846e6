package folio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatcherRelevantEvents(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "content/posts/a.md", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "content/posts/A.MD", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "content/posts/a.md", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "content/posts/.a.md.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "content/posts/a.md~", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "content/posts/image.png", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "content/drafts", Op: fsnotify.Create}, true},
	}
	for _, tt := range tests {
		if got := relevant(tt.ev); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestWatcherDebouncesReloads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "posts", "a.md"), "---\ntitle: A\ndate: \"2024-01-01\"\n---\n")

	var reloads atomic.Int32
	cw, err := NewContentWatcher(dir, func() error {
		reloads.Add(1)
		return nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	cw.debounce = 50 * time.Millisecond
	defer cw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cw.Run(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(dir, "posts", "a.md"), "---\ntitle: A\ndate: \"2024-01-01\"\n---\nedit\n")
	}
	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), reloads.Load())

	cancel()
	<-done
}

func TestWatcherPicksUpDirectoriesCreatedLater(t *testing.T) {
	dir := t.TempDir()

	var reloads atomic.Int32
	cw, err := NewContentWatcher(dir, func() error {
		reloads.Add(1)
		return nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	cw.debounce = 20 * time.Millisecond
	defer cw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cw.Run(ctx)
		close(done)
	}()

	require.NoError(t, os.Mkdir(filepath.Join(dir, "posts"), 0o755))
	require.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	after := reloads.Load()

	writeFile(t, filepath.Join(dir, "posts", "a.md"), "---\ntitle: A\ndate: \"2024-01-01\"\n---\n")
	require.Eventually(t, func() bool { return reloads.Load() > after }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
