package theme

import (
	"bytes"
	"embed"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

//go:embed defaults/*
var defaults embed.FS

// Chroma styles backing the built-in highlight stylesheets.
var highlightStyles = map[string]string{
	HighlightFile:     "github",
	TomorrowNightFile: "monokai",
	AyuHighlightFile:  "dracula",
}

// EmbeddedLoader loads the built-in theme.
// Implements Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadFile returns a built-in theme file. Highlight stylesheets are generated
// from chroma styles with class-based output.
func (e *EmbeddedLoader) LoadFile(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if styleName, ok := highlightStyles[name]; ok {
		return chromaCSS(styleName)
	}

	content, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return content, nil
}

// chromaCSS renders the CSS for a chroma style.
func chromaCSS(styleName string) ([]byte, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(styleName)); err != nil {
		return nil, fmt.Errorf("%w: generating %s stylesheet: %v", ErrAssetRead, styleName, err)
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
