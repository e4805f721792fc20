package mdbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdbook/internal/fileutil"
	"github.com/alnah/go-mdbook/internal/metrics"
)

// PDFFile is the print renderer output name.
const PDFFile = "book.pdf"

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// PDFPrinter renders a local HTML file to PDF bytes.
// Implemented by a headless browser in production and by mocks in tests.
type PDFPrinter interface {
	PrintFile(ctx context.Context, htmlPath string) ([]byte, error)
	Close() error
}

var _ PDFPrinter = (*rodPrinter)(nil)

// PrintRenderer runs the HTML renderer, then prints print.html to book.pdf.
type PrintRenderer struct {
	cfg  *settings
	html *HTMLRenderer
}

// NewPrintRenderer creates a PrintRenderer.
func NewPrintRenderer(opts ...Option) *PrintRenderer {
	s := newSettings(opts)
	return &PrintRenderer{cfg: s, html: &HTMLRenderer{cfg: s}}
}

func (r *PrintRenderer) Render(ctx context.Context, in *Book) error {
	b := newBuild(RendererPrint, r.cfg)

	book, err := r.html.render(ctx, b, in)
	if err != nil {
		return b.finish(err)
	}

	err = b.stage(metrics.StagePrint, func() error {
		return r.print(ctx, b, book)
	})
	return b.finish(err)
}

func (r *PrintRenderer) print(ctx context.Context, b *build, book *Book) error {
	printer := r.cfg.printer
	if printer == nil {
		printer = newRodPrinter(r.cfg.printTimeout)
	}
	defer func() {
		if err := printer.Close(); err != nil {
			b.logger.Warn("Closing browser", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.printTimeout)
	defer cancel()

	src := filepath.Join(book.Destination, PrintPage)
	data, err := printer.PrintFile(ctx, src)
	if err != nil {
		return err
	}

	dst := filepath.Join(book.Destination, PDFFile)
	if err := fileutil.WriteFile(dst, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPDFGeneration, err)
	}
	b.logger.Info("PDF written", slog.String("output", dst), slog.Int("bytes", len(data)))
	return nil
}

// rodPrinter implements PDFPrinter using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodPrinter struct {
	browser *rod.Browser
	timeout time.Duration
}

func newRodPrinter(timeout time.Duration) *rodPrinter {
	return &rodPrinter{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (p *rodPrinter) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	p.browser = rod.New().ControlURL(u)
	if err := p.browser.Connect(); err != nil {
		p.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (p *rodPrinter) Close() error {
	if p.browser != nil {
		err := p.browser.Close()
		p.browser = nil
		return err
	}
	return nil
}

// PrintFile opens a local HTML file in headless Chrome and prints it to PDF.
func (p *rodPrinter) PrintFile(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.ensureBrowser(); err != nil {
		return nil, err
	}

	fileURL := url.URL{Scheme: "file", Path: filepath.ToSlash(htmlPath)}
	page, err := p.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: fileURL.String()})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer page.Close()

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: page did not load within %s", ErrPageLoad, timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
