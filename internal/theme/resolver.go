package theme

import "errors"

// Resolver combines a custom theme directory with the built-in theme.
// Each file is looked up in the custom directory first and falls back to the
// built-in version when it is missing there.
type Resolver struct {
	custom   Loader // nil if no theme directory configured
	embedded Loader
}

// NewResolver creates a Resolver.
// If customDir is empty, only built-in files are used.
// Returns error if customDir is set but invalid.
func NewResolver(customDir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customDir != "" {
		fsLoader, err := NewFilesystemLoader(customDir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadFile loads a theme file, trying the custom directory first if configured.
func (r *Resolver) LoadFile(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.LoadFile(name)
	}

	content, err := r.custom.LoadFile(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found", not for validation or I/O errors
	if !errors.Is(err, ErrAssetNotFound) {
		return nil, err
	}

	return r.embedded.LoadFile(name)
}

// HasCustomLoader returns true if a theme directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
