package theme

import "errors"

// Sentinel errors for theme operations.
var (
	// ErrAssetNotFound indicates the requested theme file does not exist.
	ErrAssetNotFound = errors.New("theme asset not found")

	// ErrInvalidAssetName indicates the file name is not one of the theme files or
	// contains path separators.
	ErrInvalidAssetName = errors.New("invalid theme asset name")

	// ErrInvalidBasePath indicates the configured theme directory is not usable.
	ErrInvalidBasePath = errors.New("invalid theme directory")

	// ErrAssetRead indicates an I/O error occurred while reading a theme file.
	ErrAssetRead = errors.New("failed to read theme asset")

	// ErrPathTraversal indicates an attempt to read outside the theme directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
