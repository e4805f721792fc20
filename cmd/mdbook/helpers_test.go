package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// mockRunner records converter invocations and writes the requested output file.
type mockRunner struct {
	mu     sync.Mutex
	calls  [][]string
	stderr []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string{dir, name}, args...))
	if m.err != nil {
		return nil, m.stderr, m.err
	}
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			_ = os.WriteFile(args[i+1], []byte("converted"), 0o644)
		}
	}
	return nil, nil, nil
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// testEnv returns an Environment writing to buffers with a fixed clock.
func testEnv(runner *mockRunner) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
	}
	if runner != nil {
		env.Runner = runner
	}
	return env, stdout, stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// sampleBookFiles is a minimal book with two chapters and an image.
func sampleBookFiles() map[string]string {
	return map[string]string{
		"book.yaml":           "book:\n  title: Sample\n  authors: [Ada]\n",
		"src/SUMMARY.md":      "# Summary\n\n- [Intro](intro.md)\n  - [Detail](guide/detail.md)\n",
		"src/intro.md":        "# Hello\n\nSee [detail](guide/detail.md).\n",
		"src/guide/detail.md": "# Deep\n\n![pic](pic.png)\n",
		"src/guide/pic.png":   "png",
	}
}
