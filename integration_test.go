//go:build integration

package mdbook

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 2 * time.Minute

func requirePandoc(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("pandoc"); err != nil {
		t.Skip("pandoc not installed")
	}
}

func TestIntegration_PandocHTML(t *testing.T) {
	requirePandoc(t)

	book := sampleBook(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	r, err := NewPandocRenderer(WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(ctx, book); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := readFile(t, filepath.Join(book.Destination, "book.html"))
	for _, want := range []string{"Getting Started", "Setup", "Welcome.", "book.css"} {
		if !strings.Contains(out, want) {
			t.Errorf("book.html missing %q", want)
		}
	}
}

func TestIntegration_PandocEPUB(t *testing.T) {
	requirePandoc(t)

	book := sampleBook(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	r, err := NewPandocRenderer(WithLogger(discardLogger()), WithFormat("epub"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(ctx, book); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(book.Destination, "book.epub"))
	if err != nil {
		t.Fatalf("book.epub not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("book.epub is empty")
	}
}

func TestIntegration_PrintPDF(t *testing.T) {
	if os.Getenv("MDBOOK_SKIP_BROWSER") != "" {
		t.Skip("browser tests disabled")
	}

	book := sampleBook(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := NewPrintRenderer(WithLogger(discardLogger())).Render(ctx, book); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	pdf := readFile(t, filepath.Join(book.Destination, PDFFile))
	if !strings.HasPrefix(pdf, "%PDF-") {
		t.Errorf("book.pdf does not start with a PDF header")
	}
}
