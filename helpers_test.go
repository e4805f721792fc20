package mdbook

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// runCall records one CommandRunner invocation.
type runCall struct {
	dir  string
	name string
	args []string
}

// mockRunner is a CommandRunner returning canned output.
type mockRunner struct {
	mu     sync.Mutex
	stdout string
	stderr string
	err    error
	block  bool                            // wait for ctx cancellation
	late   bool                            // succeed only after ctx is done
	onRun  func(dir string, args []string) // inspect staged files while they exist
	calls  []runCall
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, runCall{dir: dir, name: name, args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.onRun != nil {
		m.onRun(dir, args)
	}
	if m.block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if m.late {
		<-ctx.Done()
	}
	return []byte(m.stdout), []byte(m.stderr), m.err
}

func (m *mockRunner) lastCall(t *testing.T) runCall {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		t.Fatal("runner was not called")
	}
	return m.calls[len(m.calls)-1]
}

// mockPrinter is a PDFPrinter returning canned bytes.
type mockPrinter struct {
	pdf     []byte
	err     error
	printed string
	closed  bool
}

func (m *mockPrinter) PrintFile(_ context.Context, htmlPath string) ([]byte, error) {
	m.printed = htmlPath
	return m.pdf, m.err
}

func (m *mockPrinter) Close() error {
	m.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTree creates files (slash-separated paths) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// newTestBook creates a book root with src/ and returns a Book building into book/.
func newTestBook(t *testing.T, files map[string]string, items ...BookItem) *Book {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTree(t, src, files)
	return &Book{
		Root:        root,
		Source:      src,
		Destination: filepath.Join(root, "book"),
		Title:       "Test Book",
		Items:       items,
	}
}

// sampleBook is the book used across renderer tests: an introduction, a chapter
// with a sub-chapter, a draft and a spacer.
func sampleBook(t *testing.T) *Book {
	t.Helper()
	return newTestBook(t,
		map[string]string{
			"intro.md":           "# Intro\n\nWelcome.\n",
			"start.md":           "# Install\n\nSee [setup](guide/setup.md).\n",
			"guide/setup.md":     "# Steps\n\n![logo](img/logo.png)\n",
			"guide/img/logo.png": "png",
			"notes.txt":          "notes",
		},
		NewAffix("Introduction", "intro.md"),
		NewChapter([]int{1}, "Getting Started", "start.md"),
		NewChapter([]int{1, 1}, "Setup", "guide/setup.md"),
		NewChapter([]int{2}, "Draft", ""),
		Spacer(),
	)
}
