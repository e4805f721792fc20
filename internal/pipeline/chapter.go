package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrChapterRender reports a Goldmark failure on one chapter.
var ErrChapterRender = errors.New("rendering chapter markdown")

// ChapterRenderer turns the Markdown of one chapter into an HTML fragment.
type ChapterRenderer interface {
	RenderChapter(ctx context.Context, source []byte) (string, error)
}

// GoldmarkOption configures NewGoldmark.
type GoldmarkOption func(*goldmarkConfig)

type goldmarkConfig struct {
	smartPunctuation bool
}

// WithSmartPunctuation converts straight quotes, dashes and ellipses to
// their typographic forms.
func WithSmartPunctuation(on bool) GoldmarkOption {
	return func(c *goldmarkConfig) {
		c.smartPunctuation = on
	}
}

// Goldmark renders chapters in-process.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a renderer with GFM tables, task lists, strikethrough
// and autolinks, footnotes, heading anchors and {#id .class} heading
// attributes. Code blocks carry chroma classes styled by the theme's
// highlight stylesheets; raw HTML in chapters is kept.
func NewGoldmark(opts ...GoldmarkOption) *Goldmark {
	var cfg goldmarkConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	exts := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	}
	if cfg.smartPunctuation {
		exts = append(exts, extension.Typographer)
	}

	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID(), parser.WithAttribute()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

type rendered struct {
	fragment string
	err      error
}

// RenderChapter renders source, returning early with ctx.Err() once ctx is done.
// Goldmark has no context support, so the conversion runs in its own goroutine.
func (g *Goldmark) RenderChapter(ctx context.Context, source []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := make(chan rendered, 1)
	go func() { out <- g.render(source) }()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-out:
		return r.fragment, r.err
	}
}

func (g *Goldmark) render(source []byte) rendered {
	var buf bytes.Buffer
	buf.Grow(len(source) * 2)
	if err := g.md.Convert(source, &buf); err != nil {
		return rendered{err: fmt.Errorf("%w: %v", ErrChapterRender, err)}
	}
	return rendered{fragment: buf.String()}
}
