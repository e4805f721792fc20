package mdbook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testBuild() *build {
	return newBuild("test", newSettings([]Option{WithLogger(discardLogger())}))
}

func TestBuildManifest_StagesChaptersInOrder(t *testing.T) {
	t.Parallel()

	book := newTestBook(t,
		map[string]string{
			"intro.md":       "# Intro\n\nHello.\n",
			"start.md":       "# Install\n\ntext\n## Usage\n",
			"start/setup.md": "# Requirements\n",
		},
		NewAffix("Introduction", "intro.md"),
		NewChapter([]int{1}, "Getting Started", "start.md"),
		NewChapter([]int{1, 1}, "Setup", "start/setup.md"),
		Spacer(),
	)
	staging := t.TempDir()

	m, err := buildManifest(context.Background(), testBuild(), book, staging, []string{"book.css"})
	if err != nil {
		t.Fatalf("buildManifest() error = %v", err)
	}

	want := []string{
		filepath.Join(staging, "intro.md"),
		filepath.Join(staging, "start.md"),
		filepath.Join(staging, "start", "setup.md"),
	}
	if len(m.SourceFiles) != len(want) {
		t.Fatalf("SourceFiles = %v, want %v", m.SourceFiles, want)
	}
	for i := range want {
		if m.SourceFiles[i] != want[i] {
			t.Errorf("SourceFiles[%d] = %q, want %q", i, m.SourceFiles[i], want[i])
		}
	}
	if len(m.StyleRefs) != 1 || m.StyleRefs[0] != "book.css" {
		t.Errorf("StyleRefs = %v", m.StyleRefs)
	}

	if got := readFile(t, want[0]); got != "# Intro\n\nHello.\n" {
		t.Errorf("affix staged content = %q, want unchanged", got)
	}
	if got := readFile(t, want[1]); got != "# Getting Started\n\n## Install\n\ntext\n### Usage\n" {
		t.Errorf("chapter staged content = %q", got)
	}
	if got := readFile(t, want[2]); got != "## Setup\n\n### Requirements\n" {
		t.Errorf("sub chapter staged content = %q", got)
	}
}

func TestBuildManifest_SkipsSpacersAndDrafts(t *testing.T) {
	t.Parallel()

	book := newTestBook(t,
		map[string]string{"a.md": "a"},
		Spacer(),
		NewChapter([]int{1}, "Draft", ""),
		NewAffix("Draft affix", ""),
		NewChapter([]int{2}, "A", "a.md"),
		Spacer(),
	)

	m, err := buildManifest(context.Background(), testBuild(), book, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("buildManifest() error = %v", err)
	}
	if len(m.SourceFiles) != 1 || filepath.Base(m.SourceFiles[0]) != "a.md" {
		t.Errorf("SourceFiles = %v, want only a.md", m.SourceFiles)
	}
}

func TestBuildManifest_DuplicatePathStagedTwice(t *testing.T) {
	t.Parallel()

	book := newTestBook(t,
		map[string]string{"a.md": "# A\n"},
		NewChapter([]int{1}, "A", "a.md"),
		NewChapter([]int{2}, "A again", "a.md"),
	)

	m, err := buildManifest(context.Background(), testBuild(), book, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("buildManifest() error = %v", err)
	}
	if len(m.SourceFiles) != 2 {
		t.Fatalf("SourceFiles = %v, want 2 entries", m.SourceFiles)
	}
	if m.SourceFiles[0] != m.SourceFiles[1] {
		t.Errorf("entries staged to %q and %q, want the same path", m.SourceFiles[0], m.SourceFiles[1])
	}
	// The later item is staged last, so both entries read its rendition.
	if got := readFile(t, m.SourceFiles[0]); got != "# A again\n\n## A\n" {
		t.Errorf("staged content = %q, want the second item's title", got)
	}
}

func TestBuildManifest_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    BookItem
		wantErr error
	}{
		{name: "parent escape", item: NewChapter([]int{1}, "Bad", "../secret.md"), wantErr: ErrInvalidChapterPath},
		{name: "absolute path", item: NewChapter([]int{1}, "Bad", "/etc/passwd"), wantErr: ErrInvalidChapterPath},
		{name: "missing file", item: NewChapter([]int{1}, "Missing", "missing.md"), wantErr: ErrStageChapter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			book := newTestBook(t, nil, tt.item)
			_, err := buildManifest(context.Background(), testBuild(), book, t.TempDir(), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("buildManifest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildManifest_MissingFileErrorNamesPath(t *testing.T) {
	t.Parallel()

	book := newTestBook(t, nil, NewChapter([]int{1}, "Missing", "missing.md"))
	_, err := buildManifest(context.Background(), testBuild(), book, t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "missing.md") {
		t.Errorf("error = %v, want it to name missing.md", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist in chain", err)
	}
}

func TestBuildManifest_CanceledContext(t *testing.T) {
	t.Parallel()

	book := newTestBook(t, map[string]string{"a.md": "a"}, NewChapter([]int{1}, "A", "a.md"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := buildManifest(ctx, testBuild(), book, t.TempDir(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("buildManifest() error = %v, want context.Canceled", err)
	}
}
