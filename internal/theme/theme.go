package theme

import "fmt"

// Theme file names, as written to the build directory.
const (
	CSSFile           = "book.css"
	FaviconFile       = "favicon.png"
	HighlightFile     = "highlight.css"
	TomorrowNightFile = "tomorrow-night.css"
	AyuHighlightFile  = "ayu-highlight.css"
	PageTemplateFile  = "page.html"
)

// Files lists every theme file a Loader can serve.
var Files = []string{
	CSSFile,
	FaviconFile,
	HighlightFile,
	TomorrowNightFile,
	AyuHighlightFile,
	PageTemplateFile,
}

// Loader loads a single theme file by name.
// Implementations may read from embedded assets, a directory, or anything else.
type Loader interface {
	// LoadFile returns the raw bytes of a theme file.
	// Returns ErrAssetNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if name is not a theme file.
	LoadFile(name string) ([]byte, error)
}

// Theme holds every theme file as raw bytes.
type Theme struct {
	CSS              []byte
	Favicon          []byte
	HighlightCSS     []byte
	TomorrowNightCSS []byte
	AyuHighlightCSS  []byte
	PageTemplate     []byte
}

// Load resolves a Theme from dir, falling back to built-in defaults for missing files.
// An empty dir uses the built-in theme only.
func Load(dir string) (*Theme, error) {
	resolver, err := NewResolver(dir)
	if err != nil {
		return nil, err
	}
	return FromLoader(resolver)
}

// FromLoader reads every theme file through loader.
func FromLoader(loader Loader) (*Theme, error) {
	t := &Theme{}
	targets := map[string]*[]byte{
		CSSFile:           &t.CSS,
		FaviconFile:       &t.Favicon,
		HighlightFile:     &t.HighlightCSS,
		TomorrowNightFile: &t.TomorrowNightCSS,
		AyuHighlightFile:  &t.AyuHighlightCSS,
		PageTemplateFile:  &t.PageTemplate,
	}
	for _, name := range Files {
		data, err := loader.LoadFile(name)
		if err != nil {
			return nil, fmt.Errorf("loading theme file %s: %w", name, err)
		}
		*targets[name] = data
	}
	return t, nil
}
