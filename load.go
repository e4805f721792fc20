package mdbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdbook/internal/config"
	"github.com/alnah/go-mdbook/internal/summary"
)

// Load reads the book at root: book.yaml (optional) and <src>/SUMMARY.md.
func Load(root string) (*Book, error) {
	cfg, err := config.LoadForRoot(root)
	if err != nil {
		return nil, err
	}
	return LoadWithConfig(root, cfg)
}

// LoadWithConfig reads <src>/SUMMARY.md under root using an already loaded config.
func LoadWithConfig(root string, cfg *config.Config) (*Book, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving root: %v", ErrInvalidBook, err)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	book := &Book{
		Root:          absRoot,
		Source:        underRoot(absRoot, cfg.Book.Src, config.DefaultSrc),
		Destination:   underRoot(absRoot, cfg.Build.BuildDir, config.DefaultBuildDir),
		Title:         cfg.Book.Title,
		Authors:       cfg.Book.Authors,
		Description:   cfg.Book.Description,
		Language:      cfg.Book.Language,
		AdditionalCSS: cfg.Output.HTML.AdditionalCSS,
		AdditionalJS:  cfg.Output.HTML.AdditionalJS,
	}
	if cfg.Output.HTML.Theme != "" {
		book.ThemeDir = underRoot(absRoot, cfg.Output.HTML.Theme, "")
	}

	summaryPath := filepath.Join(book.Source, summary.FileName)
	data, err := os.ReadFile(summaryPath) // #nosec G304 -- path built from book root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSummaryNotFound, summaryPath)
		}
		return nil, fmt.Errorf("reading %s: %w", summaryPath, err)
	}

	entries, err := summary.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSummaryParse, summaryPath, err)
	}
	book.Items = itemsFromSummary(entries)
	return book, nil
}

// underRoot resolves p against root, using def when p is empty.
func underRoot(root, p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

func itemsFromSummary(entries []summary.Entry) []BookItem {
	items := make([]BookItem, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case summary.Chapter:
			items = append(items, NewChapter(e.Number, e.Title, e.Path))
		case summary.Affix:
			items = append(items, NewAffix(e.Title, e.Path))
		case summary.Spacer:
			items = append(items, Spacer())
		}
	}
	return items
}
