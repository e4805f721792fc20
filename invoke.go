package mdbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// outputPath returns the converter target, <destination>/book.<format>.
func outputPath(destination, format string) string {
	return filepath.Join(destination, "book."+format)
}

// pandocArgs builds the converter argument list. Order matters: stylesheets,
// fixed flags, metadata, staged chapters in manifest order, then the target.
func pandocArgs(book *Book, m *Manifest, pdfEngine, target string) []string {
	args := make([]string, 0, len(m.StyleRefs)+len(m.SourceFiles)+len(book.Authors)+8)

	for _, ref := range m.StyleRefs {
		args = append(args, "--css="+filepath.Join(book.Destination, ref))
	}

	args = append(args,
		"--standalone",
		"--toc",
		"--number-sections",
		"--pdf-engine="+pdfEngine,
	)

	if book.Title != "" {
		args = append(args, "--metadata=title:"+book.Title)
	}
	for _, author := range book.Authors {
		args = append(args, "--metadata=author:"+author)
	}
	if book.Language != "" {
		args = append(args, "--metadata=lang:"+book.Language)
	}

	args = append(args, m.SourceFiles...)
	return append(args, "-o", target)
}

// invoke runs the converter once over the manifest. The process works in the
// destination directory; the caller's working directory is never changed.
func invoke(ctx context.Context, b *build, s *settings, book *Book, m *Manifest) error {
	target := outputPath(book.Destination, s.format)
	args := pandocArgs(book, m, s.pdfEngine, target)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b.logger.Info("Invoking converter",
		slog.String("command", s.command),
		slog.String("output", target),
		slog.Int("chapters", len(m.SourceFiles)))
	b.logger.Debug("Converter arguments", slog.Any("args", args))

	stdout, stderr, err := s.runner.Run(runCtx, book.Destination, s.command, args...)

	if err != nil {
		if errors.Is(err, ErrConverterNotFound) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if runCtx.Err() != nil {
			return fmt.Errorf("%w: %s did not finish within %s", ErrConversionTimeout, s.command, s.timeout)
		}
	}

	if !utf8.Valid(stdout) {
		return fmt.Errorf("%w: stdout of %s", ErrInvalidOutputEncoding, s.command)
	}
	if !utf8.Valid(stderr) {
		return fmt.Errorf("%w: stderr of %s", ErrInvalidOutputEncoding, s.command)
	}

	if out := strings.TrimSpace(string(stdout)); out != "" {
		b.logger.Info("Converter output", slog.String("stdout", out))
	}
	if out := strings.TrimSpace(string(stderr)); out != "" {
		b.logger.Warn("Converter diagnostics", slog.String("stderr", out))
	}

	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = strings.TrimSpace(string(stdout))
		}
		if detail == "" {
			return fmt.Errorf("%w: %s: %v", ErrConversionFailed, s.command, err)
		}
		return fmt.Errorf("%w: %s: %v: %s", ErrConversionFailed, s.command, err, detail)
	}

	b.logger.Info("Book written", slog.String("output", target))
	return nil
}
