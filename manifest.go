package mdbook

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/alnah/go-mdbook/internal/headings"
)

// Manifest is the ordered input of one external conversion.
type Manifest struct {
	SourceFiles []string // absolute staged chapter paths, table of contents order
	StyleRefs   []string // stylesheet paths relative to the destination
}

// chapterPath validates an item path and returns it in OS form.
func chapterPath(p string) (string, error) {
	native := filepath.FromSlash(p)
	if !filepath.IsLocal(native) {
		return "", fmt.Errorf("%w: %q", ErrInvalidChapterPath, p)
	}
	return native, nil
}

// buildManifest stages every renderable item of book under stagingRoot with its
// headings shifted to the item's depth. Spacers and drafts are skipped. The first
// failure aborts the build.
func buildManifest(ctx context.Context, b *build, book *Book, stagingRoot string, styleRefs []string) (*Manifest, error) {
	m := &Manifest{StyleRefs: styleRefs}

	rendered := 0
	for i, item := range book.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !item.HasContent() {
			b.logger.Debug("Skipping item", slog.Int("index", i), slog.String("kind", item.Kind.String()), slog.String("title", item.Chapter.Title))
			continue
		}

		rel, err := chapterPath(item.Chapter.Path)
		if err != nil {
			return nil, err
		}
		src := filepath.Join(book.Source, rel)
		dst := filepath.Join(stagingRoot, rel)

		if err := headings.NormalizeFile(src, dst, item.Depth(), item.Chapter.Title); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrStageChapter, item.Chapter.Path, err)
		}

		b.logger.Debug("Staged chapter",
			slog.Int("index", i),
			slog.Bool("index_page", rendered == 0),
			slog.String("section", item.SectionName()),
			slog.String("path", item.Chapter.Path),
			slog.Int("depth", item.Depth()))

		m.SourceFiles = append(m.SourceFiles, dst)
		rendered++
	}
	return m, nil
}
