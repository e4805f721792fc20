package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShouldIgnoreEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "/book/src/intro.md", want: false},
		{path: "/book/book.yaml", want: false},
		{path: "/book/src/img/logo.png", want: false},
		{path: "/book/src/.intro.md.swp", want: true},
		{path: "/book/src/intro.md~", want: true},
		{path: "/book/src/intro.md.swx", want: true},
		{path: "/book/src/#intro.md#", want: true},
		{path: "/book/src/.DS_Store", want: true},
		{path: "/book/src/Thumbs.db", want: true},
		{path: "/book/src/write.tmp", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := shouldIgnoreEvent(tt.path); got != tt.want {
				t.Errorf("shouldIgnoreEvent(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatchLoop_Ignored(t *testing.T) {
	t.Parallel()

	w := &watchLoop{root: "/book", ignore: []string{"/book/book", "/tmp/stage"}}

	tests := []struct {
		path string
		want bool
	}{
		{path: "/book/book", want: true},
		{path: "/book/book/index.html", want: true},
		{path: "/tmp/stage/ch1.md", want: true},
		{path: "/book/bookish.md", want: false},
		{path: "/book/src/ch1.md", want: false},
	}
	for _, tt := range tests {
		if got := w.ignored(tt.path); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewDebouncer(t *testing.T) {
	t.Parallel()

	req, trigger, stop := newDebouncer(20 * time.Millisecond)
	defer stop()

	for range 10 {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced request never fired")
	}

	select {
	case <-req:
		t.Fatal("a burst of triggers must produce a single request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchLoop_RebuildsOnChange(t *testing.T) {
	t.Parallel()

	root := setupTestDir(t, map[string]string{
		"src/intro.md":    "# Intro",
		"book/index.html": "old",
	})

	var builds atomic.Int32
	rebuilt := make(chan struct{}, 8)
	w := &watchLoop{
		root:     root,
		ignore:   []string{filepath.Join(root, "book")},
		debounce: 20 * time.Millisecond,
		logger:   discardLogger(),
		rebuild: func(context.Context) error {
			builds.Add(1)
			rebuilt <- struct{}{}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	// Give the watcher time to register directories.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "book", "index.html"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "intro.md"), []byte("# Changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after a source change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}

	if n := builds.Load(); n < 1 {
		t.Errorf("builds = %d, want at least 1", n)
	}
}
