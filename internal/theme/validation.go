package theme

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateName checks that name is one of the known theme files.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	if !slices.Contains(Files, name) {
		return fmt.Errorf("%w: %q is not a theme file", ErrInvalidAssetName, name)
	}
	return nil
}
