package mdbook

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdbook/internal/fileutil"
	"github.com/alnah/go-mdbook/internal/metrics"
	"github.com/alnah/go-mdbook/internal/pipeline"
)

// Pages written at the destination root by the HTML renderer.
const (
	IndexPage = "index.html"
	PrintPage = "print.html"
)

// HTMLRenderer renders each chapter in-process into a themed HTML page.
type HTMLRenderer struct {
	cfg *settings
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer(opts ...Option) *HTMLRenderer {
	return &HTMLRenderer{cfg: newSettings(opts)}
}

// Render writes one page per chapter, index.html for the first chapter and
// print.html with the whole book, after publishing theme assets.
func (r *HTMLRenderer) Render(ctx context.Context, book *Book) error {
	b := newBuild(RendererHTML, r.cfg)
	_, err := r.render(ctx, b, book)
	return b.finish(err)
}

// navItem is one sidebar entry in the page template.
type navItem struct {
	Spacer  bool
	Href    string // empty for drafts
	Active  bool
	Section string
	Title   string
	Indent  int
}

// pageData is the page template input.
type pageData struct {
	Language    string
	Title       string
	BookTitle   string
	Description string
	PathToRoot  string
	Stylesheets []string
	Scripts     []string
	Print       bool
	Nav         []navItem
	Content     template.HTML
	Previous    string
	Next        string
}

// page is a renderable item with its output name.
type page struct {
	item BookItem
	rel  string // chapter path, OS form
	href string // output path, slash separated
}

// render builds the HTML output and returns the resolved book.
func (r *HTMLRenderer) render(ctx context.Context, b *build, in *Book) (*Book, error) {
	var book *Book
	err := b.stage(metrics.StagePrepare, func() error {
		var err error
		if book, err = resolveBook(in); err != nil {
			return err
		}
		return prepareDestination(book.Destination)
	})
	if err != nil {
		return nil, err
	}
	b.logger.Info("Building book",
		slog.String("source", book.Source),
		slog.String("destination", book.Destination))

	var (
		styles, scripts []string
		tmpl            *template.Template
	)
	err = b.stage(metrics.StagePublish, func() error {
		th, err := loadTheme(book)
		if err != nil {
			return err
		}
		if tmpl, err = template.New("page").Parse(string(th.PageTemplate)); err != nil {
			return fmt.Errorf("%w: %v", ErrPageTemplate, err)
		}
		styles, scripts, err = publishAssets(book, th)
		return err
	})
	if err != nil {
		return nil, err
	}

	pages, err := collectPages(book.Items)
	if err != nil {
		return nil, err
	}

	err = b.stage(metrics.StageRender, func() error {
		w := &pageWriter{
			ctx:      ctx,
			book:     book,
			tmpl:     tmpl,
			chapters: r.cfg.chapters,
			base: pageData{
				Language:    book.Language,
				BookTitle:   book.Title,
				Description: book.Description,
				Stylesheets: styles,
				Scripts:     scripts,
			},
		}
		return w.writeAll(pages)
	})
	if err != nil {
		return nil, err
	}
	b.recorder.SetChaptersStaged(b.renderer, len(pages))

	err = b.stage(metrics.StageCopy, func() error {
		return copyRemainingFiles(book)
	})
	if err != nil {
		return nil, err
	}

	b.logger.Info("Book written", slog.String("output", book.Destination), slog.Int("pages", len(pages)))
	return book, nil
}

// collectPages lists the renderable items in order with their output names.
func collectPages(items []BookItem) ([]page, error) {
	var pages []page
	for _, item := range items {
		if !item.HasContent() {
			continue
		}
		rel, err := chapterPath(item.Chapter.Path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page{item: item, rel: rel, href: pageHref(rel)})
	}
	return pages, nil
}

// pageHref maps a chapter path to its page: "guide/setup.md" becomes "guide/setup.html".
func pageHref(rel string) string {
	p := filepath.ToSlash(rel)
	if strings.EqualFold(path.Ext(p), ".md") {
		p = p[:len(p)-len(".md")]
	}
	return p + ".html"
}

// pathToRoot returns the relative prefix from href's directory to the book root.
func pathToRoot(href string) string {
	return strings.Repeat("../", strings.Count(href, "/"))
}

type pageWriter struct {
	ctx      context.Context
	book     *Book
	tmpl     *template.Template
	chapters pipeline.ChapterRenderer
	base     pageData
}

func (w *pageWriter) writeAll(pages []page) error {
	var printed strings.Builder

	for i, p := range pages {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		fragment, err := w.convert(p)
		if err != nil {
			return err
		}

		content, err := pipeline.RewriteLinks(fragment, "")
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRenderPage, p.item.Chapter.Path, err)
		}
		data := w.pageFor(pages, i, content)
		if err := w.write(p.href, data); err != nil {
			return err
		}

		// Root-level pages need chapter-relative links re-based.
		rooted, err := pipeline.RewriteLinks(fragment, path.Dir(p.href))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRenderPage, p.item.Chapter.Path, err)
		}
		if i == 0 {
			index := w.pageFor(pages, i, rooted)
			index.PathToRoot = ""
			if err := w.write(IndexPage, index); err != nil {
				return err
			}
		}
		printed.WriteString(rooted)
		printed.WriteByte('\n')
	}

	data := w.base
	data.Print = true
	data.Content = template.HTML(printed.String()) // #nosec G203 -- rendered from book sources
	return w.write(PrintPage, data)
}

func (w *pageWriter) convert(p page) (string, error) {
	src := filepath.Join(w.book.Source, p.rel)
	md, err := os.ReadFile(src) // #nosec G304 -- chapter path validated as local
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRenderPage, p.item.Chapter.Path, err)
	}
	out, err := w.chapters.RenderChapter(w.ctx, md)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRenderPage, p.item.Chapter.Path, err)
	}
	return out, nil
}

// pageFor builds template data for pages[i].
func (w *pageWriter) pageFor(pages []page, i int, content string) pageData {
	p := pages[i]
	data := w.base
	data.Title = p.item.Chapter.Title
	data.PathToRoot = pathToRoot(p.href)
	data.Content = template.HTML(content) // #nosec G203 -- rendered from book sources
	data.Nav = w.nav(p.item)
	if i > 0 {
		data.Previous = pages[i-1].href
	}
	if i+1 < len(pages) {
		data.Next = pages[i+1].href
	}
	return data
}

// nav builds the sidebar for a page, marking active as the current entry.
func (w *pageWriter) nav(active BookItem) []navItem {
	items := make([]navItem, 0, len(w.book.Items))
	for _, item := range w.book.Items {
		if item.Kind == KindSpacer {
			items = append(items, navItem{Spacer: true})
			continue
		}
		n := navItem{Title: item.Chapter.Title}
		if section := item.SectionName(); section != "" {
			n.Section = section + ". "
		}
		if d := item.Depth(); d > 1 {
			n.Indent = d - 1
		}
		if item.HasContent() {
			if rel, err := chapterPath(item.Chapter.Path); err == nil {
				n.Href = pageHref(rel)
				n.Active = item.Chapter.Path == active.Chapter.Path && item.Kind == active.Kind
			}
		}
		items = append(items, n)
	}
	return items
}

func (w *pageWriter) write(href string, data pageData) error {
	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRenderPage, href, err)
	}
	if err := fileutil.WriteFile(filepath.Join(w.book.Destination, filepath.FromSlash(href)), buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrRenderPage, err)
	}
	return nil
}
