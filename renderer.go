package mdbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-mdbook/internal/fileutil"
	"github.com/alnah/go-mdbook/internal/metrics"
)

// Renderer names accepted by NewRenderer.
const (
	RendererPandoc = "pandoc"
	RendererHTML   = "html"
	RendererPrint  = "print"
)

// Renderer turns a Book into build output under Book.Destination.
type Renderer interface {
	Render(ctx context.Context, book *Book) error
}

// Compile-time interface implementation checks.
var (
	_ Renderer = (*PandocRenderer)(nil)
	_ Renderer = (*HTMLRenderer)(nil)
	_ Renderer = (*PrintRenderer)(nil)
)

// NewRenderer returns the renderer registered under name (case-insensitive).
func NewRenderer(name string, opts ...Option) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RendererPandoc:
		return NewPandocRenderer(opts...)
	case RendererHTML:
		return NewHTMLRenderer(opts...), nil
	case RendererPrint:
		return NewPrintRenderer(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be %s, %s or %s)", ErrUnknownRenderer, name, RendererPandoc, RendererHTML, RendererPrint)
	}
}

// build tracks one Render call: its id, logger and metrics.
type build struct {
	renderer string
	logger   *slog.Logger
	recorder metrics.Recorder
	start    time.Time
}

func newBuild(renderer string, s *settings) *build {
	return &build{
		renderer: renderer,
		logger:   s.logger.With(slog.String("build_id", uuid.NewString()), slog.String("renderer", renderer)),
		recorder: s.recorder,
		start:    time.Now(),
	}
}

// stage runs fn as a named stage, recording its duration and result.
func (b *build) stage(name string, fn func() error) error {
	start := time.Now()
	b.logger.Debug("Stage started", slog.String("stage", name))

	err := fn()

	d := time.Since(start)
	b.recorder.ObserveStageDuration(b.renderer, name, d)
	b.recorder.IncStageResult(b.renderer, name, resultOf(err))
	if err != nil {
		b.logger.Debug("Stage failed", slog.String("stage", name), slog.Duration("duration", d), slog.Any("error", err))
		return err
	}
	b.logger.Debug("Stage finished", slog.String("stage", name), slog.Duration("duration", d))
	return nil
}

// finish records the build outcome. err is returned unchanged.
func (b *build) finish(err error) error {
	d := time.Since(b.start)
	b.recorder.ObserveBuildDuration(b.renderer, d)
	b.recorder.IncBuildOutcome(b.renderer, resultOf(err))
	if err != nil {
		b.logger.Error("Build failed", slog.Duration("duration", d), slog.Any("error", err))
		return err
	}
	b.logger.Info("Build finished", slog.Duration("duration", d))
	return nil
}

func resultOf(err error) metrics.Result {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, context.Canceled):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

// resolveBook validates book and returns a copy with absolute, cleaned paths.
func resolveBook(book *Book) (*Book, error) {
	if book == nil {
		return nil, fmt.Errorf("%w: nil book", ErrInvalidBook)
	}
	if book.Source == "" {
		return nil, fmt.Errorf("%w: source directory is empty", ErrInvalidBook)
	}
	if book.Destination == "" {
		return nil, fmt.Errorf("%w: destination directory is empty", ErrInvalidBook)
	}

	b := *book
	var err error
	if b.Source, err = filepath.Abs(book.Source); err != nil {
		return nil, fmt.Errorf("%w: resolving source: %v", ErrInvalidBook, err)
	}
	if b.Destination, err = filepath.Abs(book.Destination); err != nil {
		return nil, fmt.Errorf("%w: resolving destination: %v", ErrInvalidBook, err)
	}
	if book.Root == "" {
		b.Root = filepath.Dir(b.Source)
	} else if b.Root, err = filepath.Abs(book.Root); err != nil {
		return nil, fmt.Errorf("%w: resolving root: %v", ErrInvalidBook, err)
	}
	if book.ThemeDir != "" {
		if b.ThemeDir, err = filepath.Abs(book.ThemeDir); err != nil {
			return nil, fmt.Errorf("%w: resolving theme directory: %v", ErrInvalidBook, err)
		}
	}
	if b.Language == "" {
		b.Language = "en"
	}

	if !fileutil.DirExists(b.Source) {
		return nil, fmt.Errorf("%w: source directory %s does not exist", ErrInvalidBook, b.Source)
	}
	if fileutil.IsWithin(b.Source, b.Destination) || fileutil.IsWithin(b.Root, b.Destination) {
		return nil, fmt.Errorf("%w: %s contains the book sources", ErrUnsafeDestination, b.Destination)
	}
	return &b, nil
}

// prepareDestination creates the destination and removes everything in it.
func prepareDestination(dest string) error {
	if err := os.MkdirAll(dest, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("creating destination %s: %w", dest, err)
	}
	if err := fileutil.RemoveDirContents(dest); err != nil {
		return fmt.Errorf("cleaning destination %s: %w", dest, err)
	}
	return nil
}
