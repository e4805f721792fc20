package mdbook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPandocRenderer_Render(t *testing.T) {
	t.Parallel()

	book := sampleBook(t)
	writeTree(t, book.Destination, map[string]string{"stale.html": "old"})

	staged := map[string]string{}
	runner := &mockRunner{
		onRun: func(_ string, args []string) {
			for _, a := range args {
				if strings.HasSuffix(a, ".md") {
					data, err := os.ReadFile(a)
					if err == nil {
						staged[filepath.Base(a)] = string(data)
					}
				}
			}
		},
	}

	r, err := NewPandocRenderer(WithRunner(runner), WithLogger(discardLogger()), WithFormat("epub"))
	if err != nil {
		t.Fatalf("NewPandocRenderer() error = %v", err)
	}
	if err := r.Render(context.Background(), book); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(book.Destination, "stale.html")); !os.IsNotExist(err) {
		t.Error("destination was not cleaned")
	}
	for _, name := range []string{"book.css", "favicon.png", "highlight.css", "notes.txt", "guide/img/logo.png"} {
		if _, err := os.Stat(filepath.Join(book.Destination, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s missing from destination: %v", name, err)
		}
	}

	call := runner.lastCall(t)
	if call.dir != book.Destination {
		t.Errorf("runner dir = %q, want %q", call.dir, book.Destination)
	}
	if got := call.args[len(call.args)-1]; got != filepath.Join(book.Destination, "book.epub") {
		t.Errorf("target = %q", got)
	}
	if !containsArg(call.args, "--metadata=title:Test Book") || !containsArg(call.args, "--metadata=lang:en") {
		t.Errorf("metadata missing from args %q", call.args)
	}

	var mdArgs []string
	for _, a := range call.args {
		if strings.HasSuffix(a, ".md") {
			mdArgs = append(mdArgs, a)
		}
	}
	if len(mdArgs) != 3 {
		t.Fatalf("staged files = %v, want 3", mdArgs)
	}
	for _, a := range mdArgs {
		if _, err := os.Stat(a); !os.IsNotExist(err) {
			t.Errorf("staging file %s survived the build", a)
		}
	}

	if staged["intro.md"] != "# Intro\n\nWelcome.\n" {
		t.Errorf("intro staged as %q", staged["intro.md"])
	}
	if !strings.HasPrefix(staged["start.md"], "# Getting Started\n\n## Install") {
		t.Errorf("start staged as %q", staged["start.md"])
	}
	if !strings.HasPrefix(staged["setup.md"], "## Setup\n\n### Steps") {
		t.Errorf("setup staged as %q", staged["setup.md"])
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestPandocRenderer_RenderIsIdempotent(t *testing.T) {
	t.Parallel()

	book := sampleBook(t)
	staging := filepath.Join(t.TempDir(), "stage")
	runner := &mockRunner{}
	r, err := NewPandocRenderer(WithRunner(runner), WithLogger(discardLogger()), WithStagingDir(staging))
	if err != nil {
		t.Fatal(err)
	}

	snapshot := func(dir string) map[string]string {
		files := map[string]string{}
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				rel, _ := filepath.Rel(dir, path)
				files[filepath.ToSlash(rel)] = readFile(t, path)
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		return files
	}
	sameFiles := func(what string, first, second map[string]string) {
		t.Helper()
		if len(first) != len(second) {
			t.Fatalf("%s file count changed: %d then %d", what, len(first), len(second))
		}
		for name, content := range first {
			got, ok := second[name]
			if !ok {
				t.Errorf("%s %s missing after second build", what, name)
				continue
			}
			if got != content {
				t.Errorf("%s %s differs between builds: %q then %q", what, name, content, got)
			}
		}
	}

	if err := r.Render(context.Background(), book); err != nil {
		t.Fatal(err)
	}
	firstDest, firstStaged := snapshot(book.Destination), snapshot(staging)

	if err := r.Render(context.Background(), book); err != nil {
		t.Fatal(err)
	}
	secondDest, secondStaged := snapshot(book.Destination), snapshot(staging)

	if len(firstStaged) != 3 {
		t.Errorf("staged files = %v, want 3", firstStaged)
	}
	sameFiles("destination", firstDest, secondDest)
	sameFiles("staged", firstStaged, secondStaged)

	if len(runner.calls) != 2 {
		t.Fatalf("runner called %d times, want 2", len(runner.calls))
	}
	firstArgs, secondArgs := runner.calls[0].args, runner.calls[1].args
	if len(firstArgs) != len(secondArgs) {
		t.Fatalf("argument count changed: %q then %q", firstArgs, secondArgs)
	}
	for i := range firstArgs {
		if firstArgs[i] != secondArgs[i] {
			t.Errorf("arg[%d] = %q then %q", i, firstArgs[i], secondArgs[i])
		}
	}
}

func TestPandocRenderer_ConfiguredStagingDirIsKept(t *testing.T) {
	t.Parallel()

	book := sampleBook(t)
	staging := filepath.Join(t.TempDir(), "stage")
	writeTree(t, staging, map[string]string{"leftover.md": "old"})

	r, err := NewPandocRenderer(WithRunner(&mockRunner{}), WithLogger(discardLogger()), WithStagingDir(staging))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(context.Background(), book); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(staging, "leftover.md")); !os.IsNotExist(err) {
		t.Error("staging directory was not emptied")
	}
	if got := readFile(t, filepath.Join(staging, "start.md")); !strings.HasPrefix(got, "# Getting Started") {
		t.Errorf("staged start.md = %q", got)
	}
}

func TestPandocRenderer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(t *testing.T, book *Book) []Option
		wantErr error
	}{
		{
			name: "destination equals source",
			mutate: func(_ *testing.T, book *Book) []Option {
				book.Destination = book.Source
				return nil
			},
			wantErr: ErrUnsafeDestination,
		},
		{
			name: "destination is the book root",
			mutate: func(_ *testing.T, book *Book) []Option {
				book.Destination = book.Root
				return nil
			},
			wantErr: ErrUnsafeDestination,
		},
		{
			name: "destination contains the root",
			mutate: func(_ *testing.T, book *Book) []Option {
				book.Destination = filepath.Dir(book.Root)
				return nil
			},
			wantErr: ErrUnsafeDestination,
		},
		{
			name: "staging directory is the source",
			mutate: func(_ *testing.T, book *Book) []Option {
				return []Option{WithStagingDir(book.Source)}
			},
			wantErr: ErrUnsafeStagingDir,
		},
		{
			name: "staging directory inside destination",
			mutate: func(_ *testing.T, book *Book) []Option {
				return []Option{WithStagingDir(filepath.Join(book.Destination, "stage"))}
			},
			wantErr: ErrUnsafeStagingDir,
		},
		{
			name: "missing source",
			mutate: func(_ *testing.T, book *Book) []Option {
				book.Source = filepath.Join(book.Root, "nope")
				return nil
			},
			wantErr: ErrInvalidBook,
		},
		{
			name: "chapter escapes source",
			mutate: func(_ *testing.T, book *Book) []Option {
				book.Items = append(book.Items, NewChapter([]int{9}, "Bad", "../book.yaml"))
				return nil
			},
			wantErr: ErrInvalidChapterPath,
		},
		{
			name: "converter failure",
			mutate: func(_ *testing.T, _ *Book) []Option {
				return []Option{WithRunner(&mockRunner{stderr: "file not found", err: errors.New("exit status 1")})}
			},
			wantErr: ErrConversionFailed,
		},
		{
			name: "collision with built-in stylesheet",
			mutate: func(t *testing.T, book *Book) []Option {
				writeTree(t, book.Root, map[string]string{"book.css": "x"})
				book.AdditionalCSS = []string{"book.css"}
				return nil
			},
			wantErr: ErrAssetCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			book := sampleBook(t)
			opts := append([]Option{WithRunner(&mockRunner{}), WithLogger(discardLogger())}, tt.mutate(t, book)...)
			r, err := NewPandocRenderer(opts...)
			if err != nil {
				t.Fatal(err)
			}

			err = r.Render(context.Background(), book)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Render() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPandocRenderer_SourceSurvivesUnsafeDestination(t *testing.T) {
	t.Parallel()

	book := sampleBook(t)
	book.Destination = book.Source

	r, err := NewPandocRenderer(WithRunner(&mockRunner{}), WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	_ = r.Render(context.Background(), book)

	if _, err := os.Stat(filepath.Join(book.Source, "intro.md")); err != nil {
		t.Errorf("source file removed: %v", err)
	}
}

func TestNewPandocRenderer_InvalidFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"../pdf", "a/b", ".."} {
		_, err := NewPandocRenderer(WithFormat(format))
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("NewPandocRenderer(WithFormat(%q)) error = %v, want ErrInvalidFormat", format, err)
		}
	}
}

func TestPandocRenderer_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r, err := NewPandocRenderer(WithRunner(&mockRunner{}), WithLogger(discardLogger()), WithMetrics(reg))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(context.Background(), sampleBook(t)); err != nil {
		t.Fatal(err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) == 0 {
		t.Fatal("no metrics registered")
	}
	got, err := testutil.GatherAndCount(reg, "mdbook_build_outcomes_total")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("build outcome series = %d, want 1", got)
	}
}
