package mdbook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdbook/internal/fileutil"
	"github.com/alnah/go-mdbook/internal/metrics"
)

// stagingPattern names the temporary staging directory.
const stagingPattern = "mdbook-staging-*"

// PandocRenderer stages chapters and converts them with an external converter
// (pandoc) into a single book.<format>.
type PandocRenderer struct {
	cfg *settings
}

// NewPandocRenderer creates a PandocRenderer. Returns ErrInvalidFormat when the
// configured format cannot be used as a file extension.
func NewPandocRenderer(opts ...Option) (*PandocRenderer, error) {
	s := newSettings(opts)
	if err := fileutil.ValidateExtension(s.format); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return &PandocRenderer{cfg: s}, nil
}

// Render runs the full pipeline: clean destination, publish theme assets, stage
// chapters, copy remaining files, invoke the converter.
func (r *PandocRenderer) Render(ctx context.Context, book *Book) error {
	b := newBuild(RendererPandoc, r.cfg)
	return b.finish(r.render(ctx, b, book))
}

func (r *PandocRenderer) render(ctx context.Context, b *build, in *Book) error {
	var book *Book
	err := b.stage(metrics.StagePrepare, func() error {
		var err error
		if book, err = resolveBook(in); err != nil {
			return err
		}
		return prepareDestination(book.Destination)
	})
	if err != nil {
		return err
	}
	b.logger.Info("Building book",
		slog.String("source", book.Source),
		slog.String("destination", book.Destination),
		slog.String("format", r.cfg.format))

	var styles []string
	err = b.stage(metrics.StagePublish, func() error {
		th, err := loadTheme(book)
		if err != nil {
			return err
		}
		styles, _, err = publishAssets(book, th)
		return err
	})
	if err != nil {
		return err
	}

	stagingRoot, cleanup, err := openStaging(r.cfg.stagingDir, book)
	if err != nil {
		return err
	}
	defer cleanup()

	var manifest *Manifest
	err = b.stage(metrics.StageStage, func() error {
		var err error
		manifest, err = buildManifest(ctx, b, book, stagingRoot, styles)
		return err
	})
	if err != nil {
		return err
	}
	b.recorder.SetChaptersStaged(b.renderer, len(manifest.SourceFiles))

	err = b.stage(metrics.StageCopy, func() error {
		return copyRemainingFiles(book, stagingRoot)
	})
	if err != nil {
		return err
	}

	return b.stage(metrics.StageConvert, func() error {
		return invoke(ctx, b, r.cfg, book, manifest)
	})
}

// openStaging returns an empty staging root and its cleanup. A configured
// directory is emptied and kept; otherwise a temporary directory is created and
// removed by cleanup.
func openStaging(configured string, book *Book) (string, func(), error) {
	if configured == "" {
		dir, err := os.MkdirTemp("", stagingPattern)
		if err != nil {
			return "", nil, fmt.Errorf("creating staging directory: %w", err)
		}
		return dir, func() { _ = os.RemoveAll(dir) }, nil
	}

	dir, err := filepath.Abs(configured)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsafeStagingDir, err)
	}
	switch {
	case fileutil.IsWithin(book.Source, dir), fileutil.IsWithin(book.Root, dir):
		return "", nil, fmt.Errorf("%w: %s contains the book sources", ErrUnsafeStagingDir, dir)
	case fileutil.IsWithin(dir, book.Destination), fileutil.IsWithin(book.Destination, dir):
		return "", nil, fmt.Errorf("%w: %s overlaps the destination", ErrUnsafeStagingDir, dir)
	}

	if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
		return "", nil, fmt.Errorf("creating staging directory: %w", err)
	}
	if err := fileutil.RemoveDirContents(dir); err != nil {
		return "", nil, fmt.Errorf("cleaning staging directory: %w", err)
	}
	return dir, func() {}, nil
}
