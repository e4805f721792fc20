package main

import (
	"errors"
	"os"

	mdbook "github.com/alnah/go-mdbook"
	"github.com/alnah/go-mdbook/internal/config"
	"github.com/alnah/go-mdbook/internal/hints"
)

// Exit codes for the mdbook CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful build
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or book layout
	ExitIO        = 3 // File not found, permission denied
	ExitConverter = 4 // Converter or browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter/browser errors (exit 4)
	if errors.Is(err, mdbook.ErrConverterNotFound) ||
		errors.Is(err, mdbook.ErrConversionFailed) ||
		errors.Is(err, mdbook.ErrConversionTimeout) ||
		errors.Is(err, mdbook.ErrInvalidOutputEncoding) ||
		errors.Is(err, mdbook.ErrBrowserConnect) ||
		errors.Is(err, mdbook.ErrPageLoad) ||
		errors.Is(err, mdbook.ErrPDFGeneration) {
		return ExitConverter
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdbook.ErrInvalidBook) ||
		errors.Is(err, mdbook.ErrUnknownRenderer) ||
		errors.Is(err, mdbook.ErrInvalidFormat) ||
		errors.Is(err, mdbook.ErrUnsafeDestination) ||
		errors.Is(err, mdbook.ErrUnsafeStagingDir) ||
		errors.Is(err, mdbook.ErrSummaryParse) ||
		errors.Is(err, mdbook.ErrInvalidChapterPath) ||
		errors.Is(err, mdbook.ErrAssetCollision) ||
		errors.Is(err, mdbook.ErrPageTemplate) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdbook.ErrSummaryNotFound) ||
		errors.Is(err, mdbook.ErrStageChapter) ||
		errors.Is(err, mdbook.ErrLoadTheme) ||
		errors.Is(err, mdbook.ErrPublishAsset) ||
		errors.Is(err, mdbook.ErrCopyFiles) ||
		errors.Is(err, mdbook.ErrRenderPage) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "" when none applies.
// job may be nil when the failure happened before the book root was resolved.
func hintFor(err error, job *buildJob) string {
	var (
		root    string
		cfg     = config.DefaultConfig()
		command = cfg.Output.Pandoc.Command
	)
	if job != nil {
		root = job.root
		if job.cfg != nil {
			cfg = job.cfg
			command = cfg.Output.Pandoc.Command
		}
	}

	switch {
	case errors.Is(err, mdbook.ErrConverterNotFound):
		return hints.ForConverterNotFound(command)
	case errors.Is(err, mdbook.ErrConversionTimeout):
		return hints.ForTimeout()
	case errors.Is(err, mdbook.ErrConversionFailed) && cfg.Output.Pandoc.Format == "pdf":
		return hints.ForPDFEngine(cfg.Output.Pandoc.PDFEngine)
	case errors.Is(err, mdbook.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(root)
	case errors.Is(err, mdbook.ErrUnsafeDestination):
		return hints.ForUnsafeDestination()
	}
	return ""
}
