package mdbook

import (
	"fmt"
	"path/filepath"

	"github.com/alnah/go-mdbook/internal/fileutil"
	"github.com/alnah/go-mdbook/internal/theme"
)

// builtinOwner marks published names taken by theme files.
const builtinOwner = "<theme>"

// loadTheme resolves the book theme, falling back to built-in files.
func loadTheme(book *Book) (*theme.Theme, error) {
	th, err := theme.Load(book.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadTheme, err)
	}
	return th, nil
}

// publisher writes files to the destination and detects two sources claiming
// the same published name.
type publisher struct {
	dest   string
	owners map[string]string // published name -> source path
}

func newPublisher(dest string) *publisher {
	return &publisher{dest: dest, owners: make(map[string]string)}
}

// claim records source as the owner of name. It reports whether the file still
// needs to be written: a second claim by the same source is a no-op.
func (p *publisher) claim(name, source string) (bool, error) {
	owner, taken := p.owners[name]
	if !taken {
		p.owners[name] = source
		return true, nil
	}
	if owner == source {
		return false, nil
	}
	return false, fmt.Errorf("%w: %s from %s and %s", ErrAssetCollision, name, owner, source)
}

func (p *publisher) writeBuiltin(name string, data []byte) error {
	if _, err := p.claim(name, builtinOwner); err != nil {
		return err
	}
	if err := fileutil.WriteFile(filepath.Join(p.dest, name), data); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishAsset, err)
	}
	return nil
}

// copyAdditional publishes a user asset and returns its slash-separated name.
func (p *publisher) copyAdditional(root, path string) (string, error) {
	src := path
	if !filepath.IsAbs(src) {
		src = filepath.Join(root, src)
	}
	src = filepath.Clean(src)

	name := publishedName(root, src)
	write, err := p.claim(name, src)
	if err != nil {
		return "", err
	}
	if write {
		if err := fileutil.CopyFile(src, filepath.Join(p.dest, filepath.FromSlash(name))); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrPublishAsset, path, err)
		}
	}
	return name, nil
}

// publishedName is src relative to root when src lies under it, else its base name.
func publishedName(root, src string) string {
	if rel, err := filepath.Rel(root, src); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(src)
}

// publishAssets writes theme files and additional stylesheets and scripts to the
// destination. It returns the stylesheet references, built-in ones first, then
// additional stylesheets in declaration order (duplicates kept), and the script
// references.
func publishAssets(book *Book, th *theme.Theme) (styles, scripts []string, err error) {
	p := newPublisher(book.Destination)

	builtins := []struct {
		name string
		data []byte
	}{
		{theme.CSSFile, th.CSS},
		{theme.FaviconFile, th.Favicon},
		{theme.HighlightFile, th.HighlightCSS},
		{theme.TomorrowNightFile, th.TomorrowNightCSS},
		{theme.AyuHighlightFile, th.AyuHighlightCSS},
	}
	for _, f := range builtins {
		if err := p.writeBuiltin(f.name, f.data); err != nil {
			return nil, nil, err
		}
	}

	styles = []string{theme.CSSFile, theme.HighlightFile, theme.TomorrowNightFile, theme.AyuHighlightFile}
	for _, css := range book.AdditionalCSS {
		name, err := p.copyAdditional(book.Root, css)
		if err != nil {
			return nil, nil, err
		}
		styles = append(styles, name)
	}

	for _, js := range book.AdditionalJS {
		name, err := p.copyAdditional(book.Root, js)
		if err != nil {
			return nil, nil, err
		}
		scripts = append(scripts, name)
	}
	return styles, scripts, nil
}

// copyRemainingFiles copies every non-markdown file of the source tree to the
// destination, skipping the destination and skip directories when nested in source.
func copyRemainingFiles(book *Book, skip ...string) error {
	if err := fileutil.CopyFilesExceptExt(book.Source, book.Destination, []string{"md"}, skip...); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFiles, err)
	}
	return nil
}
