package mdbook

import "errors"

// Sentinel errors for library operations.
var (
	// Book and renderer setup.
	ErrInvalidBook        = errors.New("invalid book")
	ErrUnknownRenderer    = errors.New("unknown renderer")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrUnsafeDestination  = errors.New("unsafe build destination")
	ErrUnsafeStagingDir   = errors.New("unsafe staging directory")
	ErrInvalidSectionName = errors.New("invalid section number")
	ErrSummaryNotFound    = errors.New("SUMMARY.md not found")
	ErrSummaryParse       = errors.New("failed to parse SUMMARY.md")

	// Manifest building.
	ErrInvalidChapterPath = errors.New("chapter path escapes the source directory")
	ErrStageChapter       = errors.New("failed to stage chapter")

	// Asset publishing.
	ErrLoadTheme      = errors.New("failed to load theme")
	ErrPublishAsset   = errors.New("failed to publish asset")
	ErrAssetCollision = errors.New("two assets publish to the same path")
	ErrCopyFiles      = errors.New("failed to copy book files")

	// External conversion.
	ErrConverterNotFound     = errors.New("converter could not be started")
	ErrConversionFailed      = errors.New("conversion failed")
	ErrConversionTimeout     = errors.New("conversion timed out")
	ErrInvalidOutputEncoding = errors.New("converter output is not valid UTF-8")

	// In-process rendering.
	ErrRenderPage     = errors.New("failed to render page")
	ErrPageTemplate   = errors.New("invalid page template")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
